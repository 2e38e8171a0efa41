// internal/repository/postgres/charge_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stampmarket/internal/domain"
	"stampmarket/internal/repository"
	"stampmarket/internal/util"

	"github.com/jmoiron/sqlx"
)

// ChargeRepository implements repository.ChargeRepository for PostgreSQL.
type ChargeRepository struct{}

// NewChargeRepository creates a new ChargeRepository.
func NewChargeRepository(db *sqlx.DB) repository.ChargeRepository {
	return &ChargeRepository{}
}

// Create inserts a new pending charge.
func (r *ChargeRepository) Create(ctx context.Context, q repository.DBExecutor, charge *domain.Charge) error {
	query := `INSERT INTO charges (reference, user_id, amount, status, expires_at, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		charge.Reference, charge.UserID, charge.Amount, charge.Status,
		charge.ExpiresAt, charge.CreatedAt, charge.UpdatedAt,
	).Scan(&charge.ID)
	if err != nil {
		return fmt.Errorf("failed to create charge: %w", err)
	}
	return nil
}

// GetByReference retrieves a charge by its opaque reference.
func (r *ChargeRepository) GetByReference(ctx context.Context, q repository.DBExecutor, reference string) (*domain.Charge, error) {
	var charge domain.Charge
	query := `SELECT id, reference, user_id, amount, status, expires_at, created_at, updated_at
              FROM charges WHERE reference = $1`
	if err := q.GetContext(ctx, &charge, query, reference); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get charge '%s': %w", reference, err)
	}
	return &charge, nil
}

// MarkConfirmed transitions the charge to confirmed only while it is still
// pending. Zero rows affected means a concurrent confirmation or expiry won.
func (r *ChargeRepository) MarkConfirmed(ctx context.Context, q repository.DBExecutor, reference string) (bool, error) {
	result, err := q.ExecContext(ctx,
		`UPDATE charges SET status = $1, updated_at = $2 WHERE reference = $3 AND status = $4`,
		domain.ChargeStatusConfirmed, time.Now().UTC(), reference, domain.ChargeStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to confirm charge '%s': %w", reference, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected confirming charge '%s': %w", reference, err)
	}
	return rowsAffected > 0, nil
}

// ExpireOlderThan marks pending charges past their TTL as expired.
func (r *ChargeRepository) ExpireOlderThan(ctx context.Context, q repository.DBExecutor, cutoff time.Time) (int64, error) {
	result, err := q.ExecContext(ctx,
		`UPDATE charges SET status = $1, updated_at = $2 WHERE status = $3 AND expires_at < $4`,
		domain.ChargeStatusExpired, time.Now().UTC(), domain.ChargeStatusPending, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale charges: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected expiring charges: %w", err)
	}
	return rowsAffected, nil
}
