// internal/repository/postgres/order_pg.go
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

// OrderRepository implements repository.OrderRepository for PostgreSQL.
type OrderRepository struct{}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sqlx.DB) repository.OrderRepository {
	return &OrderRepository{}
}

const orderColumns = `id, order_number, user_id, total_amount, payment_method, payment_status, status,
       ship_street, ship_city, ship_state, ship_postal_code, created_at, updated_at`

// Create inserts the order and its line items.
func (r *OrderRepository) Create(ctx context.Context, q repository.DBExecutor, order *domain.Order) error {
	query := `INSERT INTO orders (order_number, user_id, total_amount, payment_method, payment_status, status,
                  ship_street, ship_city, ship_state, ship_postal_code, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		order.Number, order.UserID, order.TotalAmount, order.PaymentMethod, order.PaymentStatus, order.Status,
		order.Street, order.City, order.State, order.PostalCode, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to create order %s: %w", order.Number, err)
	}

	itemQuery := `INSERT INTO order_items (order_id, product_id, product_name, quantity, price_at_purchase, created_at)
                  VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if item.CreatedAt.IsZero() {
			item.CreatedAt = order.CreatedAt
		}
		err := q.QueryRowContext(ctx, itemQuery,
			item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.PriceAtPurchase, item.CreatedAt,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to create order item for product %d: %w", item.ProductID, err)
		}
	}
	return nil
}

func (r *OrderRepository) getByNumber(ctx context.Context, q repository.DBExecutor, number, suffix string) (*domain.Order, error) {
	var order domain.Order
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1` + suffix
	if err := q.GetContext(ctx, &order, query, number); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order %s: %w", number, err)
	}

	items := []domain.OrderItem{}
	itemQuery := `SELECT id, order_id, product_id, product_name, quantity, price_at_purchase, created_at
                  FROM order_items WHERE order_id = $1 ORDER BY id`
	if err := q.SelectContext(ctx, &items, itemQuery, order.ID); err != nil {
		return nil, fmt.Errorf("failed to get items for order %s: %w", number, err)
	}
	order.Items = items
	return &order, nil
}

// GetByNumber retrieves an order with its items.
func (r *OrderRepository) GetByNumber(ctx context.Context, q repository.DBExecutor, number string) (*domain.Order, error) {
	return r.getByNumber(ctx, q, number, ``)
}

// GetByNumberForUpdate retrieves an order with its items, locking the order row.
func (r *OrderRepository) GetByNumberForUpdate(ctx context.Context, q repository.DBExecutor, number string) (*domain.Order, error) {
	return r.getByNumber(ctx, q, number, ` FOR UPDATE`)
}

// ListByUserID retrieves a user's orders newest first, with the total count.
// Items are not populated on list views.
func (r *OrderRepository) ListByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.Order, int64, error) {
	orders := []domain.Order{}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1
              ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &orders, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list orders for user %d: %w", userID, err)
	}

	var totalCount int64
	if err := q.GetContext(ctx, &totalCount, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders for user %d: %w", userID, err)
	}
	return orders, totalCount, nil
}

// ListAll retrieves orders across all users, optionally filtered by status.
func (r *OrderRepository) ListAll(ctx context.Context, q repository.DBExecutor, statusFilter *domain.OrderStatus, limit, offset int) ([]domain.Order, int64, error) {
	orders := []domain.Order{}

	if statusFilter != nil {
		query := `SELECT ` + orderColumns + ` FROM orders WHERE status = $1
                  ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		if err := q.SelectContext(ctx, &orders, query, *statusFilter, limit, offset); err != nil {
			return nil, 0, fmt.Errorf("failed to list orders with status %s: %w", *statusFilter, err)
		}
		var totalCount int64
		if err := q.GetContext(ctx, &totalCount, `SELECT COUNT(*) FROM orders WHERE status = $1`, *statusFilter); err != nil {
			return nil, 0, fmt.Errorf("failed to count orders with status %s: %w", *statusFilter, err)
		}
		return orders, totalCount, nil
	}

	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := q.SelectContext(ctx, &orders, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	var totalCount int64
	if err := q.GetContext(ctx, &totalCount, `SELECT COUNT(*) FROM orders`); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return orders, totalCount, nil
}

// UpdateStatus sets the order status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, q repository.DBExecutor, number string, status domain.OrderStatus) error {
	result, err := q.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE order_number = $3`,
		status, time.Now().UTC(), number)
	if err != nil {
		return fmt.Errorf("failed to update status for order %s: %w", number, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected updating order %s: %w", number, err)
	}
	if rowsAffected == 0 {
		return util.ErrOrderNotFound
	}
	return nil
}

// MarkCancelled transitions the order to cancelled only from pending or
// processing. Zero rows affected means the transition was lost to a
// concurrent cancel or the order is past the point of cancellation.
func (r *OrderRepository) MarkCancelled(ctx context.Context, q repository.DBExecutor, number string) (bool, error) {
	result, err := q.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = $2
         WHERE order_number = $3 AND status IN ($4, $5)`,
		domain.OrderStatusCancelled, time.Now().UTC(), number,
		domain.OrderStatusPending, domain.OrderStatusProcessing)
	if err != nil {
		return false, fmt.Errorf("failed to cancel order %s: %w", number, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected cancelling order %s: %w", number, err)
	}
	return rowsAffected > 0, nil
}
