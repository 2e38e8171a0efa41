// internal/repository/postgres/product_pg.go
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

// ProductRepository implements repository.ProductRepository for PostgreSQL.
type ProductRepository struct{}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) repository.ProductRepository {
	return &ProductRepository{}
}

const productColumns = `id, name, slug, description, price, stock, is_active, country, year_issued, condition, created_at, updated_at`

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, q repository.DBExecutor, product *domain.Product) error {
	query := `INSERT INTO products (name, slug, description, price, stock, is_active, country, year_issued, condition, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		product.Name, product.Slug, product.Description, product.Price, product.Stock,
		product.IsActive, product.Country, product.YearIssued, product.Condition,
		product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Product, error) {
	var product domain.Product
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if err := q.GetContext(ctx, &product, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// GetBySlug retrieves a product by its URL slug.
func (r *ProductRepository) GetBySlug(ctx context.Context, q repository.DBExecutor, slug string) (*domain.Product, error) {
	var product domain.Product
	query := `SELECT ` + productColumns + ` FROM products WHERE slug = $1`
	if err := q.GetContext(ctx, &product, query, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by slug '%s': %w", slug, err)
	}
	return &product, nil
}

// List retrieves a paginated list of products with the total count.
func (r *ProductRepository) List(ctx context.Context, q repository.DBExecutor, activeOnly bool, limit, offset int) ([]domain.Product, int64, error) {
	products := []domain.Product{}

	where := ``
	if activeOnly {
		where = ` WHERE is_active = TRUE`
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + `
              ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := q.SelectContext(ctx, &products, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	var totalCount int64
	if err := q.GetContext(ctx, &totalCount, `SELECT COUNT(*) FROM products`+where); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	return products, totalCount, nil
}

// Update saves the mutable product fields. Stock is deliberately excluded:
// only AdjustStock, called from the order engine, may change it.
func (r *ProductRepository) Update(ctx context.Context, q repository.DBExecutor, product *domain.Product) error {
	query := `UPDATE products
              SET name = $1, slug = $2, description = $3, price = $4, is_active = $5,
                  country = $6, year_issued = $7, condition = $8, updated_at = $9
              WHERE id = $10`
	result, err := q.ExecContext(ctx, query,
		product.Name, product.Slug, product.Description, product.Price, product.IsActive,
		product.Country, product.YearIssued, product.Condition, time.Now().UTC(), product.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected updating product %d: %w", product.ID, err)
	}
	if rowsAffected == 0 {
		return util.ErrProductNotFound
	}
	return nil
}

// Delete removes a product.
func (r *ProductRepository) Delete(ctx context.Context, q repository.DBExecutor, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected deleting product %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrProductNotFound
	}
	return nil
}

// AdjustStock applies delta to the stock count. The WHERE clause keeps the
// stock non-negative; zero rows affected on a decrement means insufficient
// stock, never a silent clamp.
func (r *ProductRepository) AdjustStock(ctx context.Context, q repository.DBExecutor, productID int64, delta int) error {
	query := `UPDATE products SET stock = stock + $1, updated_at = $2
              WHERE id = $3 AND stock + $1 >= 0`
	result, err := q.ExecContext(ctx, query, delta, time.Now().UTC(), productID)
	if err != nil {
		return fmt.Errorf("failed to adjust stock for product %d: %w", productID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected adjusting stock for product %d: %w", productID, err)
	}
	if rowsAffected == 0 {
		if delta < 0 {
			return util.ErrInsufficientStock
		}
		return util.ErrProductNotFound
	}
	return nil
}
