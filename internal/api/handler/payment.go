// internal/api/handler/payment.go
package handler

import (
	"log/slog"
	"net/http"

	"stampmarket/internal/domain"
	"stampmarket/internal/payment"
	"stampmarket/internal/util"

	"github.com/shopspring/decimal"
)

// PaymentHandler handles HTTP requests for the payment confirmation flow.
type PaymentHandler struct {
	gateway *payment.Gateway
	logger  *slog.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(gateway *payment.Gateway, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{gateway: gateway, logger: logger}
}

// CreateChargeRequest represents the request body for opening a charge.
type CreateChargeRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// CreateCharge opens a pending charge for the caller.
// POST /payments/charges
func (h *PaymentHandler) CreateCharge(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())

	var req CreateChargeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		respondWithError(w, h.logger, util.ErrInvalidAmount)
		return
	}

	charge, err := h.gateway.CreatePendingCharge(r.Context(), identity.UserID, req.Amount)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusCreated, map[string]interface{}{
		"reference":  charge.Reference,
		"amount":     charge.Amount,
		"expires_at": charge.ExpiresAt,
	})
}

// ConfirmChargeRequest represents the signed confirmation callback body.
type ConfirmChargeRequest struct {
	Reference string          `json:"reference" validate:"required"`
	PaymentID string          `json:"payment_id" validate:"required"`
	Signature string          `json:"signature" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
}

// ConfirmCharge verifies a gateway confirmation and credits the wallet.
// POST /payments/confirm
func (h *PaymentHandler) ConfirmCharge(w http.ResponseWriter, r *http.Request) {
	var req ConfirmChargeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	wallet, entry, err := h.gateway.VerifyAndCredit(r.Context(), req.Reference, req.PaymentID, req.Signature, req.Amount)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":     "Charge confirmed",
		"new_balance": wallet.Balance,
		"entry_id":    entry.ID,
	})
}

// Status reports whether the gateway is configured.
// GET /payments/status
func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, h.logger, http.StatusOK, map[string]bool{
		"configured": h.gateway.Configured(),
	})
}
