// internal/service/order_service.go
package service

import (
	"context"
	"fmt"

	"stampmarket/internal/domain"
	"stampmarket/internal/repository"
	"stampmarket/internal/util"
	"stampmarket/pkg/db"

	"github.com/shopspring/decimal"
)

// OrderLine is one requested line of a new order. Prices are never taken
// from the caller; the engine derives the total from live catalog prices.
type OrderLine struct {
	ProductID int64
	Quantity  int
}

// OrderService is the order engine. It owns the order state machine and is
// the only component allowed to mutate product stock. Placement and
// cancellation each run as a single database transaction covering stock,
// wallet, ledger and order state.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID int64, lines []OrderLine, address domain.ShippingAddress) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderNumber string, actor domain.Identity) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderNumber string, newStatus domain.OrderStatus, actor domain.Identity) (*domain.Order, error)
	GetOrder(ctx context.Context, orderNumber string, actor domain.Identity) (*domain.Order, error)
	ListOrdersForUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, int64, error)
	ListAllOrders(ctx context.Context, statusFilter *domain.OrderStatus, limit, offset int, actor domain.Identity) ([]domain.Order, int64, error)
}

// orderService implements the OrderService interface.
type orderService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	wallets     WalletService
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	wallets WalletService,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) OrderService {
	return &orderService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		wallets:     wallets,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
	}
}

// PlaceOrder validates the request, then applies the mutation phase in one
// transaction: stock decrements, wallet debit with its ledger entry, and
// the order insert. Any failing step rolls back the whole unit.
func (s *orderService) PlaceOrder(ctx context.Context, userID int64, lines []OrderLine, address domain.ShippingAddress) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("place order: order has no items: %w", util.ErrInvalidInput)
	}
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("place order: quantity for product %d must be at least 1: %w", line.ProductID, util.ErrInvalidInput)
		}
	}
	if !address.Complete() {
		return nil, fmt.Errorf("place order: incomplete shipping address: %w", util.ErrInvalidInput)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("place order: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("place order: transaction controller does not implement DBExecutor")
	}

	// Validation pass over every item before any mutation. Prices are
	// snapshotted from the live catalog here.
	total := decimal.Zero
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, err := s.productRepo.GetByID(ctx, txExecutor, line.ProductID)
		if err != nil {
			if util.IsError(err, util.ErrProductNotFound) {
				return nil, fmt.Errorf("place order: product %d: %w", line.ProductID, util.ErrProductNotFound)
			}
			return nil, fmt.Errorf("place order: failed to load product %d: %w", line.ProductID, err)
		}
		if !product.IsActive {
			return nil, fmt.Errorf("place order: product %d: %w", line.ProductID, util.ErrProductNotFound)
		}
		if product.Stock < line.Quantity {
			return nil, fmt.Errorf("place order: product %d: %w", line.ProductID, util.ErrInsufficientStock)
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, domain.OrderItem{
			ProductID:       product.ID,
			ProductName:     product.Name,
			Quantity:        line.Quantity,
			PriceAtPurchase: product.Price,
		})
	}

	order := domain.NewOrder(userID, total, address)
	order.Items = items

	// Mutation phase: stock, then wallet + ledger, then the order record.
	// The conditional stock decrement re-checks the floor, so a concurrent
	// placement racing for the last unit fails here and rolls back cleanly.
	for _, line := range lines {
		if err := s.productRepo.AdjustStock(ctx, txExecutor, line.ProductID, -line.Quantity); err != nil {
			if util.IsError(err, util.ErrInsufficientStock) {
				return nil, fmt.Errorf("place order: product %d: %w", line.ProductID, util.ErrInsufficientStock)
			}
			return nil, fmt.Errorf("place order: failed to decrement stock for product %d: %w", line.ProductID, err)
		}
	}

	description := fmt.Sprintf("Payment for order %s", order.Number)
	if _, _, err := s.wallets.DebitTx(ctx, txExecutor, userID, total, description, &order.Number); err != nil {
		if util.IsError(err, util.ErrInsufficientFunds) {
			return nil, util.ErrInsufficientFunds
		}
		return nil, fmt.Errorf("place order: failed to debit wallet: %w", err)
	}

	if err := s.orderRepo.Create(ctx, txExecutor, order); err != nil {
		return nil, fmt.Errorf("place order: failed to persist order: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("place order: failed to commit transaction: %w", err)
	}

	return order, nil
}

// CancelOrder reverses a placement: the conditional status transition out
// of {pending, processing} is the serialization point, so two concurrent
// cancellations produce exactly one refund.
func (s *orderService) CancelOrder(ctx context.Context, orderNumber string, actor domain.Identity) (*domain.Order, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("cancel order: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("cancel order: transaction controller does not implement DBExecutor")
	}

	order, err := s.orderRepo.GetByNumberForUpdate(ctx, txExecutor, orderNumber)
	if err != nil {
		if util.IsError(err, util.ErrOrderNotFound) {
			return nil, util.ErrOrderNotFound
		}
		return nil, fmt.Errorf("cancel order: failed to load order %s: %w", orderNumber, err)
	}

	if !actor.CanAccessOrdersOf(order.UserID) {
		return nil, util.ErrNotAuthorized
	}

	cancelled, err := s.compensate(ctx, txExecutor, order)
	if err != nil {
		return nil, err
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("cancel order: failed to commit transaction: %w", err)
	}
	return cancelled, nil
}

// compensate performs the cancellation mutation phase on the caller's
// executor: conditional status flip, wallet refund with its ledger entry,
// and stock restoration.
func (s *orderService) compensate(ctx context.Context, q repository.DBExecutor, order *domain.Order) (*domain.Order, error) {
	applied, err := s.orderRepo.MarkCancelled(ctx, q, order.Number)
	if err != nil {
		return nil, fmt.Errorf("cancel order: failed to transition order %s: %w", order.Number, err)
	}
	if !applied {
		return nil, util.ErrInvalidTransition
	}

	description := fmt.Sprintf("Refund for cancelled order %s", order.Number)
	if _, _, err := s.wallets.CreditTx(ctx, q, order.UserID, order.TotalAmount, description, &order.Number); err != nil {
		return nil, fmt.Errorf("cancel order: failed to refund wallet: %w", err)
	}

	for _, item := range order.Items {
		if err := s.productRepo.AdjustStock(ctx, q, item.ProductID, item.Quantity); err != nil {
			return nil, fmt.Errorf("cancel order: failed to restore stock for product %d: %w", item.ProductID, err)
		}
	}

	order.Status = domain.OrderStatusCancelled
	return order, nil
}

// UpdateOrderStatus lets an administrator move an order to any defined
// status, with two restrictions: terminal states are final, and a move to
// cancelled runs the full compensation flow rather than a bare flip.
func (s *orderService) UpdateOrderStatus(ctx context.Context, orderNumber string, newStatus domain.OrderStatus, actor domain.Identity) (*domain.Order, error) {
	if !actor.Role.IsAdmin() {
		return nil, util.ErrNotAuthorized
	}
	if !newStatus.Valid() {
		return nil, fmt.Errorf("update order status: unknown status '%s': %w", newStatus, util.ErrInvalidInput)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("update order status: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("update order status: transaction controller does not implement DBExecutor")
	}

	order, err := s.orderRepo.GetByNumberForUpdate(ctx, txExecutor, orderNumber)
	if err != nil {
		if util.IsError(err, util.ErrOrderNotFound) {
			return nil, util.ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order status: failed to load order %s: %w", orderNumber, err)
	}

	if order.Status.Terminal() {
		return nil, util.ErrInvalidTransition
	}

	if newStatus == domain.OrderStatusCancelled {
		cancelled, err := s.compensate(ctx, txExecutor, order)
		if err != nil {
			return nil, err
		}
		if err := s.commitTx(txController); err != nil {
			return nil, fmt.Errorf("update order status: failed to commit transaction: %w", err)
		}
		return cancelled, nil
	}

	if err := s.orderRepo.UpdateStatus(ctx, txExecutor, orderNumber, newStatus); err != nil {
		return nil, fmt.Errorf("update order status: failed to update order %s: %w", orderNumber, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("update order status: failed to commit transaction: %w", err)
	}

	order.Status = newStatus
	return order, nil
}

// GetOrder retrieves an order, restricted to its owner or an administrator.
func (s *orderService) GetOrder(ctx context.Context, orderNumber string, actor domain.Identity) (*domain.Order, error) {
	order, err := s.orderRepo.GetByNumber(ctx, s.dbExecutor, orderNumber)
	if err != nil {
		if util.IsError(err, util.ErrOrderNotFound) {
			return nil, util.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: failed to load order %s: %w", orderNumber, err)
	}
	if !actor.CanAccessOrdersOf(order.UserID) {
		return nil, util.ErrNotAuthorized
	}
	return order, nil
}

// ListOrdersForUser retrieves a user's own orders, newest first.
func (s *orderService) ListOrdersForUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, int64, error) {
	orders, totalCount, err := s.orderRepo.ListByUserID(ctx, s.dbExecutor, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders for user %d: %w", userID, err)
	}
	return orders, totalCount, nil
}

// ListAllOrders retrieves orders across all users. Administrators only.
func (s *orderService) ListAllOrders(ctx context.Context, statusFilter *domain.OrderStatus, limit, offset int, actor domain.Identity) ([]domain.Order, int64, error) {
	if !actor.Role.IsAdmin() {
		return nil, 0, util.ErrNotAuthorized
	}
	if statusFilter != nil && !statusFilter.Valid() {
		return nil, 0, fmt.Errorf("list orders: unknown status '%s': %w", *statusFilter, util.ErrInvalidInput)
	}
	orders, totalCount, err := s.orderRepo.ListAll(ctx, s.dbExecutor, statusFilter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, totalCount, nil
}
