// internal/repository/order_repo.go
package repository

import (
	"context"

	"stampmarket/internal/domain"
)

// OrderRepository defines the interface for order data operations.
type OrderRepository interface {
	// Create inserts the order and its line items.
	Create(ctx context.Context, q DBExecutor, order *domain.Order) error
	// GetByNumber retrieves an order with its items.
	GetByNumber(ctx context.Context, q DBExecutor, number string) (*domain.Order, error)
	// GetByNumberForUpdate retrieves an order with a row lock. Must be
	// called inside a transaction.
	GetByNumberForUpdate(ctx context.Context, q DBExecutor, number string) (*domain.Order, error)
	ListByUserID(ctx context.Context, q DBExecutor, userID int64, limit, offset int) ([]domain.Order, int64, error)
	ListAll(ctx context.Context, q DBExecutor, statusFilter *domain.OrderStatus, limit, offset int) ([]domain.Order, int64, error)
	// UpdateStatus sets the order status unconditionally.
	UpdateStatus(ctx context.Context, q DBExecutor, number string, status domain.OrderStatus) error
	// MarkCancelled transitions the order to cancelled only while it is
	// still pending or processing. It reports whether the transition was
	// applied; false means some other caller won the race or the status
	// was not cancellable. This conditional update is the serialization
	// point that prevents double refunds.
	MarkCancelled(ctx context.Context, q DBExecutor, number string) (bool, error)
}
