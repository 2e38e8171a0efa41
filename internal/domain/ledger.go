// internal/domain/ledger.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerKind is the direction of a balance-affecting event.
type LedgerKind string

const (
	LedgerKindCredit LedgerKind = "credit"
	LedgerKindDebit  LedgerKind = "debit"
)

// LedgerEntry is an immutable record of one balance-affecting event.
// Entries are append-only: corrections are new offsetting entries, never
// updates. Replaying a user's entries oldest-first from zero reproduces
// the wallet's current balance.
type LedgerEntry struct {
	ID           int64           `db:"id" json:"id"`
	UserID       int64           `db:"user_id" json:"user_id"`
	Kind         LedgerKind      `db:"kind" json:"kind"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`                // Always > 0
	Description  string          `db:"description" json:"description"`
	BalanceAfter decimal.Decimal `db:"balance_after" json:"balance_after"` // Wallet balance immediately after this entry
	OrderNumber  *string         `db:"order_number" json:"order_number"`   // Back-reference where the event belongs to an order
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// NewLedgerEntry creates a LedgerEntry for the given event.
func NewLedgerEntry(userID int64, kind LedgerKind, amount, balanceAfter decimal.Decimal, description string, orderNumber *string) *LedgerEntry {
	return &LedgerEntry{
		UserID:       userID,
		Kind:         kind,
		Amount:       amount,
		Description:  description,
		BalanceAfter: balanceAfter,
		OrderNumber:  orderNumber,
		CreatedAt:    time.Now().UTC(),
	}
}

// SignedAmount returns the delta this entry applied to the balance.
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Kind == LedgerKindDebit {
		return e.Amount.Neg()
	}
	return e.Amount
}
