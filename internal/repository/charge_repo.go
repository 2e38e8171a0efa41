// internal/repository/charge_repo.go
package repository

import (
	"context"
	"time"

	"stampmarket/internal/domain"
)

// ChargeRepository defines the interface for pending payment charges.
type ChargeRepository interface {
	Create(ctx context.Context, q DBExecutor, charge *domain.Charge) error
	GetByReference(ctx context.Context, q DBExecutor, reference string) (*domain.Charge, error)
	// MarkConfirmed transitions the charge to confirmed only while it is
	// still pending. It reports whether the transition was applied; false
	// means the charge was already confirmed or expired, so the caller
	// must not credit twice.
	MarkConfirmed(ctx context.Context, q DBExecutor, reference string) (bool, error)
	// ExpireOlderThan marks pending charges whose TTL elapsed before
	// cutoff as expired, returning how many were affected.
	ExpireOlderThan(ctx context.Context, q DBExecutor, cutoff time.Time) (int64, error)
}
