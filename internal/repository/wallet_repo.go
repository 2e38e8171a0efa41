// internal/repository/wallet_repo.go
package repository

import (
	"context"

	"stampmarket/internal/domain"

	"github.com/shopspring/decimal"
)

// WalletRepository defines the interface for wallet data operations.
type WalletRepository interface {
	// GetOrCreateByUserID returns the user's wallet, creating it with a zero
	// balance if absent. Creation is atomic: a uniqueness constraint on
	// user_id guarantees two concurrent lazy creates yield one wallet.
	GetOrCreateByUserID(ctx context.Context, q DBExecutor, userID int64) (*domain.Wallet, error)
	// GetByUserIDForUpdate retrieves the wallet with a row lock, serializing
	// concurrent balance mutations for the same user. Must be called inside
	// a transaction.
	GetByUserIDForUpdate(ctx context.Context, q DBExecutor, userID int64) (*domain.Wallet, error)
	// AdjustBalance applies delta to the balance. The update is conditional
	// on the resulting balance staying non-negative; zero rows affected
	// means the funds were insufficient.
	AdjustBalance(ctx context.Context, q DBExecutor, userID int64, delta decimal.Decimal) error
}
