// internal/repository/postgres/interest_pg.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"stampmarket/internal/domain"
	"stampmarket/internal/repository"
	"stampmarket/internal/util"

	"github.com/jmoiron/sqlx"
)

// InterestRepository implements repository.InterestRepository for PostgreSQL.
type InterestRepository struct{}

// NewInterestRepository creates a new InterestRepository.
func NewInterestRepository(db *sqlx.DB) repository.InterestRepository {
	return &InterestRepository{}
}

// Upsert registers a watch record. The unique (user_id, product_id)
// constraint turns a re-registration into a priority update.
func (r *InterestRepository) Upsert(ctx context.Context, q repository.DBExecutor, interest *domain.Interest) error {
	now := time.Now().UTC()
	query := `INSERT INTO interests (user_id, product_id, priority, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $4)
              ON CONFLICT (user_id, product_id)
              DO UPDATE SET priority = EXCLUDED.priority, updated_at = EXCLUDED.updated_at
              RETURNING id, created_at`
	err := q.QueryRowContext(ctx, query, interest.UserID, interest.ProductID, interest.Priority, now).
		Scan(&interest.ID, &interest.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert interest for user %d product %d: %w", interest.UserID, interest.ProductID, err)
	}
	interest.UpdatedAt = now
	return nil
}

// ListByUserID retrieves all watch records for a user, highest priority first.
func (r *InterestRepository) ListByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Interest, error) {
	interests := []domain.Interest{}
	query := `SELECT id, user_id, product_id, priority, created_at, updated_at
              FROM interests WHERE user_id = $1 ORDER BY priority DESC, created_at DESC`
	if err := q.SelectContext(ctx, &interests, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list interests for user %d: %w", userID, err)
	}
	return interests, nil
}

// Delete removes a watch record.
func (r *InterestRepository) Delete(ctx context.Context, q repository.DBExecutor, userID, productID int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM interests WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to delete interest for user %d product %d: %w", userID, productID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected deleting interest: %w", err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
