// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input provided")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrGatewayUnavailable = errors.New("payment gateway not configured")
	ErrInvalidSignature   = errors.New("invalid payment signature")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrEventFull          = errors.New("event is at capacity")
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrProductNotFound    = errors.New("product not found")
)

// IsError reports whether err matches the given sentinel error.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
