// internal/domain/charge.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChargeStatus is the state of a pending external payment.
type ChargeStatus string

const (
	ChargeStatusPending   ChargeStatus = "pending"
	ChargeStatusConfirmed ChargeStatus = "confirmed"
	ChargeStatusExpired   ChargeStatus = "expired"
)

// Charge is a wallet top-up awaiting confirmation from the external
// payment gateway. The Reference is the opaque identifier handed to the
// gateway and echoed back in the signed confirmation.
type Charge struct {
	ID        int64           `db:"id" json:"id"`
	Reference string          `db:"reference" json:"reference"`
	UserID    int64           `db:"user_id" json:"user_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Status    ChargeStatus    `db:"status" json:"status"`
	ExpiresAt time.Time       `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// NewCharge creates a pending Charge with a fresh opaque reference.
func NewCharge(userID int64, amount decimal.Decimal, ttl time.Duration) *Charge {
	now := time.Now().UTC()
	return &Charge{
		Reference: uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		Status:    ChargeStatusPending,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
