// internal/repository/postgres/wallet_pg.go
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
	"github.com/shopspring/decimal"
)

// WalletRepository implements repository.WalletRepository for PostgreSQL.
type WalletRepository struct{}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(db *sqlx.DB) repository.WalletRepository {
	return &WalletRepository{}
}

// GetOrCreateByUserID returns the wallet for userID, lazily creating it.
// The INSERT relies on the unique constraint on user_id, so two concurrent
// lazy creates resolve to a single row.
func (r *WalletRepository) GetOrCreateByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	now := time.Now().UTC()
	insert := `INSERT INTO wallets (user_id, balance, created_at, updated_at)
               VALUES ($1, 0, $2, $2)
               ON CONFLICT (user_id) DO NOTHING`
	if _, err := q.ExecContext(ctx, insert, userID, now); err != nil {
		return nil, fmt.Errorf("failed to lazily create wallet for user %d: %w", userID, err)
	}

	var wallet domain.Wallet
	query := `SELECT id, user_id, balance, created_at, updated_at FROM wallets WHERE user_id = $1`
	if err := q.GetContext(ctx, &wallet, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet for user %d: %w", userID, err)
	}
	return &wallet, nil
}

// GetByUserIDForUpdate retrieves the wallet with FOR UPDATE, serializing
// concurrent balance mutations on the same user.
func (r *WalletRepository) GetByUserIDForUpdate(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	var wallet domain.Wallet
	query := `SELECT id, user_id, balance, created_at, updated_at FROM wallets WHERE user_id = $1 FOR UPDATE`
	if err := q.GetContext(ctx, &wallet, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet for user %d: %w", userID, err)
	}
	return &wallet, nil
}

// AdjustBalance applies delta to the wallet balance. The WHERE clause keeps
// the balance non-negative; zero rows affected means insufficient funds.
func (r *WalletRepository) AdjustBalance(ctx context.Context, q repository.DBExecutor, userID int64, delta decimal.Decimal) error {
	query := `UPDATE wallets SET balance = balance + $1, updated_at = $2
              WHERE user_id = $3 AND balance + $1 >= 0`
	result, err := q.ExecContext(ctx, query, delta, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to adjust wallet balance for user %d: %w", userID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected adjusting wallet for user %d: %w", userID, err)
	}
	if rowsAffected == 0 {
		if delta.IsNegative() {
			return util.ErrInsufficientFunds
		}
		return util.ErrWalletNotFound
	}
	return nil
}
