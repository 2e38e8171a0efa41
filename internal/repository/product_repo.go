// internal/repository/product_repo.go
package repository

import (
	"context"

	"stampmarket/internal/domain"
)

// ProductRepository defines the interface for catalog data operations.
type ProductRepository interface {
	Create(ctx context.Context, q DBExecutor, product *domain.Product) error
	GetByID(ctx context.Context, q DBExecutor, id int64) (*domain.Product, error)
	GetBySlug(ctx context.Context, q DBExecutor, slug string) (*domain.Product, error)
	List(ctx context.Context, q DBExecutor, activeOnly bool, limit, offset int) ([]domain.Product, int64, error)
	Update(ctx context.Context, q DBExecutor, product *domain.Product) error
	Delete(ctx context.Context, q DBExecutor, id int64) error
	// AdjustStock applies delta to the product's stock. The update is
	// conditional on the resulting stock staying non-negative; zero rows
	// affected means the stock was insufficient. Only the order engine
	// calls this.
	AdjustStock(ctx context.Context, q DBExecutor, productID int64, delta int) error
}

// InterestRepository defines the interface for user-product watch records.
type InterestRepository interface {
	// Upsert registers interest. One record per (user, product);
	// re-registering updates the priority.
	Upsert(ctx context.Context, q DBExecutor, interest *domain.Interest) error
	ListByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.Interest, error)
	Delete(ctx context.Context, q DBExecutor, userID, productID int64) error
}
