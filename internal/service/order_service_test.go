// internal/service/order_service_test.go
package service

import (
	"context"
	"errors"
	"testing"

	"stampmarket/internal/domain"
	"stampmarket/internal/repository"
	"stampmarket/internal/util"
	"stampmarket/pkg/db"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, q repository.DBExecutor, product *domain.Product) error {
	args := m.Called(ctx, q, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Product, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetBySlug(ctx context.Context, q repository.DBExecutor, slug string) (*domain.Product, error) {
	args := m.Called(ctx, q, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, q repository.DBExecutor, activeOnly bool, limit, offset int) ([]domain.Product, int64, error) {
	args := m.Called(ctx, q, activeOnly, limit, offset)
	return args.Get(0).([]domain.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Update(ctx context.Context, q repository.DBExecutor, product *domain.Product) error {
	args := m.Called(ctx, q, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, q repository.DBExecutor, id int64) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, q repository.DBExecutor, productID int64, delta int) error {
	args := m.Called(ctx, q, productID, delta)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of repository.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, q repository.DBExecutor, order *domain.Order) error {
	args := m.Called(ctx, q, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByNumber(ctx context.Context, q repository.DBExecutor, number string) (*domain.Order, error) {
	args := m.Called(ctx, q, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByNumberForUpdate(ctx context.Context, q repository.DBExecutor, number string) (*domain.Order, error) {
	args := m.Called(ctx, q, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.Order, int64, error) {
	args := m.Called(ctx, q, userID, limit, offset)
	return args.Get(0).([]domain.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ListAll(ctx context.Context, q repository.DBExecutor, statusFilter *domain.OrderStatus, limit, offset int) ([]domain.Order, int64, error) {
	args := m.Called(ctx, q, statusFilter, limit, offset)
	return args.Get(0).([]domain.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, q repository.DBExecutor, number string, status domain.OrderStatus) error {
	args := m.Called(ctx, q, number, status)
	return args.Error(0)
}

func (m *MockOrderRepository) MarkCancelled(ctx context.Context, q repository.DBExecutor, number string) (bool, error) {
	args := m.Called(ctx, q, number)
	return args.Bool(0), args.Error(1)
}

// MockWalletService is a mock implementation of WalletService.
type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) GetBalance(ctx context.Context, userID int64) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletService) Credit(ctx context.Context, userID int64, amount decimal.Decimal, description string, orderNumber *string) (*domain.Wallet, *domain.LedgerEntry, error) {
	args := m.Called(ctx, userID, amount, description, orderNumber)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Wallet), args.Get(1).(*domain.LedgerEntry), args.Error(2)
}

func (m *MockWalletService) Debit(ctx context.Context, userID int64, amount decimal.Decimal, description string, orderNumber *string) (*domain.Wallet, *domain.LedgerEntry, error) {
	args := m.Called(ctx, userID, amount, description, orderNumber)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Wallet), args.Get(1).(*domain.LedgerEntry), args.Error(2)
}

func (m *MockWalletService) ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]domain.LedgerEntry, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.LedgerEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockWalletService) CreditTx(ctx context.Context, q repository.DBExecutor, userID int64, amount decimal.Decimal, description string, orderNumber *string) (*domain.Wallet, *domain.LedgerEntry, error) {
	args := m.Called(ctx, q, userID, amount, description, orderNumber)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Wallet), args.Get(1).(*domain.LedgerEntry), args.Error(2)
}

func (m *MockWalletService) DebitTx(ctx context.Context, q repository.DBExecutor, userID int64, amount decimal.Decimal, description string, orderNumber *string) (*domain.Wallet, *domain.LedgerEntry, error) {
	args := m.Called(ctx, q, userID, amount, description, orderNumber)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Wallet), args.Get(1).(*domain.LedgerEntry), args.Error(2)
}

func orderServiceWithMocks(
	beginner *MockDBBeginner,
	executor *MockDBExecutor,
	productRepo *MockProductRepository,
	orderRepo *MockOrderRepository,
	wallets *MockWalletService,
	txController *MockTxController,
) OrderService {
	return NewOrderService(
		beginner,
		executor,
		productRepo,
		orderRepo,
		wallets,
		func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return txController, nil
		},
		func(tx db.TxController) error {
			return txController.Commit()
		},
		func(tx db.TxController) {
			_ = txController.Rollback()
		},
	)
}

func testAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		Street:     "12 Philatelic Way",
		City:       "Springfield",
		State:      "IL",
		PostalCode: "62704",
	}
}

func stubWalletResult(userID int64, balance decimal.Decimal) (*domain.Wallet, *domain.LedgerEntry) {
	wallet := &domain.Wallet{ID: 10, UserID: userID, Balance: balance}
	entry := &domain.LedgerEntry{ID: 100, UserID: userID, BalanceAfter: balance}
	return wallet, entry
}

// TestPlaceOrder tests order placement: validation, price derivation and
// the transactional mutation phase.
func TestPlaceOrder(t *testing.T) {
	userID := int64(7)
	price := decimal.NewFromFloat(25.50)

	t.Run("SuccessfulPlacement", func(t *testing.T) {
		ctx := context.Background()
		mockProductRepo := new(MockProductRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockWallets := new(MockWalletService)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)

		service := orderServiceWithMocks(mockDBBeginner, mockDBExecutor, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)

		product := &domain.Product{ID: 3, Name: "Penny Black 1840", Price: price, Stock: 5, IsActive: true}
		total := price.Mul(decimal.NewFromInt(2))
		wallet, entry := stubWalletResult(userID, decimal.NewFromFloat(49.00))

		mockTxController.On("Commit").Return(nil).Once()
		mockTxController.On("Rollback").Return(nil).Maybe()

		mockProductRepo.On("GetByID", ctx, mock.Anything, int64(3)).Return(product, nil).Once()
		mockProductRepo.On("AdjustStock", ctx, mock.Anything, int64(3), -2).Return(nil).Once()
		mockWallets.On("DebitTx", ctx, mock.Anything, userID, total, mock.AnythingOfType("string"), mock.AnythingOfType("*string")).Return(wallet, entry, nil).Once()
		mockOrderRepo.On("Create", ctx, mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Once()

		order, err := service.PlaceOrder(ctx, userID, []OrderLine{{ProductID: 3, Quantity: 2}}, testAddress())

		assert.NoError(t, err)
		assert.NotNil(t, order)
		assert.Equal(t, domain.OrderStatusPending, order.Status)
		assert.Equal(t, domain.PaymentStatusCompleted, order.PaymentStatus)
		assert.True(t, total.Equal(order.TotalAmount))
		assert.Len(t, order.Items, 1)
		assert.True(t, price.Equal(order.Items[0].PriceAtPurchase))
		assert.NotEmpty(t, order.Number)

		mock.AssertExpectationsForObjects(t, mockDBBeginner, mockDBExecutor, mockTxController, mockProductRepo, mockOrderRepo, mockWallets)
	})

	t.Run("EmptyOrderRejected", func(t *testing.T) {
		ctx := context.Background()
		mockProductRepo := new(MockProductRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockWallets := new(MockWalletService)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)

		service := orderServiceWithMocks(mockDBBeginner, mockDBExecutor, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)

		order, err := service.PlaceOrder(ctx, userID, nil, testAddress())

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.Nil(t, order)
		mockTxController.AssertNotCalled(t, "Commit")
		mockTxController.AssertNotCalled(t, "Rollback")
	})

	t.Run("ZeroQuantityRejected", func(t *testing.T) {
		ctx := context.Background()
		mockProductRepo := new(MockProductRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockWallets := new(MockWalletService)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)

		service := orderServiceWithMocks(mockDBBeginner, mockDBExecutor, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)

		order, err := service.PlaceOrder(ctx, userID, []OrderLine{{ProductID: 3, Quantity: 0}}, testAddress())

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.Nil(t, order)
	})

	t.Run("IncompleteAddressRejected", func(t *testing.T) {
		ctx := context.Background()
		mockProductRepo := new(MockProductRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockWallets := new(MockWalletService)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)

		service := orderServiceWithMocks(mockDBBeginner, mockDBExecutor, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)

		address := testAddress()
		address.PostalCode = "  "
		order, err := service.PlaceOrder(ctx, userID, []OrderLine{{ProductID: 3, Quantity: 1}}, address)

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.Nil(t, order)
	})

	t.Run("InactiveProductRejected", func(t *testing.T) {
		ctx := context.Background()
		mockProductRepo := new(MockProductRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockWallets := new(MockWalletService)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)

		service := orderServiceWithMocks(mockDBBeginner, mockDBExecutor, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)

		inactive := &domain.Product{ID: 3, Name: "Inverted Jenny", Price: price, Stock: 5, IsActive: false}

		mockProductRepo.On("GetByID", ctx, mock.Anything, int64(3)).Return(inactive, nil).Once()
		mockTxController.On("Rollback").Return(nil).Once()

		order, err := service.PlaceOrder(ctx, userID, []OrderLine{{ProductID: 3, Quantity: 1}}, testAddress())

		assert.ErrorIs(t, err, util.ErrProductNotFound)
		assert.Nil(t, order)
		mockProductRepo.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockTxController.AssertNotCalled(t, "Commit")
	})

	t.Run("InsufficientStockRejectedBeforeMutation", func(t *testing.T) {
		ctx := context.Background()
		mockProductRepo := new(MockProductRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockWallets := new(MockWalletService)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)

		service := orderServiceWithMocks(mockDBBeginner, mockDBExecutor, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)

		scarce := &domain.Product{ID: 3, Name: "Blue Mauritius", Price: price, Stock: 1, IsActive: true}

		mockProductRepo.On("GetByID", ctx, mock.Anything, int64(3)).Return(scarce, nil).Once()
		mockTxController.On("Rollback").Return(nil).Once()

		order, err := service.PlaceOrder(ctx, userID, []OrderLine{{ProductID: 3, Quantity: 2}}, testAddress())

		assert.ErrorIs(t, err, util.ErrInsufficientStock)
		assert.Nil(t, order)
		mockWallets.AssertNotCalled(t, "DebitTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockOrderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ConcurrentStockRaceRollsBack", func(t *testing.T) {
		// The validation pass saw stock, but another transaction took the
		// last unit before our conditional decrement ran.
		ctx := context.Background()
		mockProductRepo := new(MockProductRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockWallets := new(MockWalletService)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)

		service := orderServiceWithMocks(mockDBBeginner, mockDBExecutor, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)

		product := &domain.Product{ID: 3, Name: "Penny Black 1840", Price: price, Stock: 1, IsActive: true}

		mockProductRepo.On("GetByID", ctx, mock.Anything, int64(3)).Return(product, nil).Once()
		mockProductRepo.On("AdjustStock", ctx, mock.Anything, int64(3), -1).Return(util.ErrInsufficientStock).Once()
		mockTxController.On("Rollback").Return(nil).Once()

		order, err := service.PlaceOrder(ctx, userID, []OrderLine{{ProductID: 3, Quantity: 1}}, testAddress())

		assert.ErrorIs(t, err, util.ErrInsufficientStock)
		assert.Nil(t, order)
		mockWallets.AssertNotCalled(t, "DebitTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockTxController.AssertNotCalled(t, "Commit")

		mock.AssertExpectationsForObjects(t, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)
	})

	t.Run("InsufficientFundsRollsBackStock", func(t *testing.T) {
		ctx := context.Background()
		mockProductRepo := new(MockProductRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockWallets := new(MockWalletService)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)

		service := orderServiceWithMocks(mockDBBeginner, mockDBExecutor, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)

		product := &domain.Product{ID: 3, Name: "Penny Black 1840", Price: price, Stock: 5, IsActive: true}

		mockProductRepo.On("GetByID", ctx, mock.Anything, int64(3)).Return(product, nil).Once()
		mockProductRepo.On("AdjustStock", ctx, mock.Anything, int64(3), -1).Return(nil).Once()
		mockWallets.On("DebitTx", ctx, mock.Anything, userID, price, mock.AnythingOfType("string"), mock.AnythingOfType("*string")).Return(nil, nil, util.ErrInsufficientFunds).Once()
		mockTxController.On("Rollback").Return(nil).Once()

		order, err := service.PlaceOrder(ctx, userID, []OrderLine{{ProductID: 3, Quantity: 1}}, testAddress())

		assert.ErrorIs(t, err, util.ErrInsufficientFunds)
		assert.Nil(t, order)
		mockOrderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		mockTxController.AssertNotCalled(t, "Commit")

		mock.AssertExpectationsForObjects(t, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)
	})
}

// TestCancelOrder tests the compensation flow.
func TestCancelOrder(t *testing.T) {
	userID := int64(7)
	number := "1756500000000-ab12cd34"
	total := decimal.NewFromFloat(51.00)

	pendingOrder := func() *domain.Order {
		return &domain.Order{
			Number:      number,
			UserID:      userID,
			TotalAmount: total,
			Status:      domain.OrderStatusPending,
			Items: []domain.OrderItem{
				{ProductID: 3, Quantity: 2, PriceAtPurchase: decimal.NewFromFloat(25.50)},
			},
		}
	}

	t.Run("OwnerCancelsSuccessfully", func(t *testing.T) {
		ctx := context.Background()
		mockProductRepo := new(MockProductRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockWallets := new(MockWalletService)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)

		service := orderServiceWithMocks(mockDBBeginner, mockDBExecutor, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)

		wallet, entry := stubWalletResult(userID, decimal.NewFromFloat(100.00))

		mockTxController.On("Commit").Return(nil).Once()
		mockTxController.On("Rollback").Return(nil).Maybe()

		mockOrderRepo.On("GetByNumberForUpdate", ctx, mock.Anything, number).Return(pendingOrder(), nil).Once()
		mockOrderRepo.On("MarkCancelled", ctx, mock.Anything, number).Return(true, nil).Once()
		mockWallets.On("CreditTx", ctx, mock.Anything, userID, total, mock.AnythingOfType("string"), mock.AnythingOfType("*string")).Return(wallet, entry, nil).Once()
		mockProductRepo.On("AdjustStock", ctx, mock.Anything, int64(3), 2).Return(nil).Once()

		actor := domain.Identity{UserID: userID, Role: domain.RoleUser, Active: true}
		cancelled, err := service.CancelOrder(ctx, number, actor)

		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)

		mock.AssertExpectationsForObjects(t, mockDBBeginner, mockDBExecutor, mockTxController, mockProductRepo, mockOrderRepo, mockWallets)
	})

	t.Run("StrangerCannotCancel", func(t *testing.T) {
		ctx := context.Background()
		mockProductRepo := new(MockProductRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockWallets := new(MockWalletService)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)

		service := orderServiceWithMocks(mockDBBeginner, mockDBExecutor, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)

		mockOrderRepo.On("GetByNumberForUpdate", ctx, mock.Anything, number).Return(pendingOrder(), nil).Once()
		mockTxController.On("Rollback").Return(nil).Once()

		actor := domain.Identity{UserID: 99, Role: domain.RoleUser, Active: true}
		cancelled, err := service.CancelOrder(ctx, number, actor)

		assert.ErrorIs(t, err, util.ErrNotAuthorized)
		assert.Nil(t, cancelled)
		mockOrderRepo.AssertNotCalled(t, "MarkCancelled", mock.Anything, mock.Anything, mock.Anything)
		mockWallets.AssertNotCalled(t, "CreditTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AdminCancelsOthersOrder", func(t *testing.T) {
		ctx := context.Background()
		mockProductRepo := new(MockProductRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockWallets := new(MockWalletService)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)

		service := orderServiceWithMocks(mockDBBeginner, mockDBExecutor, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)

		wallet, entry := stubWalletResult(userID, decimal.NewFromFloat(100.00))

		mockTxController.On("Commit").Return(nil).Once()
		mockTxController.On("Rollback").Return(nil).Maybe()

		mockOrderRepo.On("GetByNumberForUpdate", ctx, mock.Anything, number).Return(pendingOrder(), nil).Once()
		mockOrderRepo.On("MarkCancelled", ctx, mock.Anything, number).Return(true, nil).Once()
		mockWallets.On("CreditTx", ctx, mock.Anything, userID, total, mock.AnythingOfType("string"), mock.AnythingOfType("*string")).Return(wallet, entry, nil).Once()
		mockProductRepo.On("AdjustStock", ctx, mock.Anything, int64(3), 2).Return(nil).Once()

		actor := domain.Identity{UserID: 2, Role: domain.RoleAdmin, Active: true}
		cancelled, err := service.CancelOrder(ctx, number, actor)

		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
	})

	t.Run("AlreadyCancelledIsInvalidTransition", func(t *testing.T) {
		// The conditional transition lost: the order is already past the
		// cancellable states, so no second refund happens.
		ctx := context.Background()
		mockProductRepo := new(MockProductRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockWallets := new(MockWalletService)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)

		service := orderServiceWithMocks(mockDBBeginner, mockDBExecutor, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)

		mockOrderRepo.On("GetByNumberForUpdate", ctx, mock.Anything, number).Return(pendingOrder(), nil).Once()
		mockOrderRepo.On("MarkCancelled", ctx, mock.Anything, number).Return(false, nil).Once()
		mockTxController.On("Rollback").Return(nil).Once()

		actor := domain.Identity{UserID: userID, Role: domain.RoleUser, Active: true}
		cancelled, err := service.CancelOrder(ctx, number, actor)

		assert.ErrorIs(t, err, util.ErrInvalidTransition)
		assert.Nil(t, cancelled)
		mockWallets.AssertNotCalled(t, "CreditTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockProductRepo.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockTxController.AssertNotCalled(t, "Commit")
	})

	t.Run("OrderNotFound", func(t *testing.T) {
		ctx := context.Background()
		mockProductRepo := new(MockProductRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockWallets := new(MockWalletService)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)

		service := orderServiceWithMocks(mockDBBeginner, mockDBExecutor, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)

		mockOrderRepo.On("GetByNumberForUpdate", ctx, mock.Anything, "missing").Return(nil, util.ErrOrderNotFound).Once()
		mockTxController.On("Rollback").Return(nil).Once()

		actor := domain.Identity{UserID: userID, Role: domain.RoleUser, Active: true}
		cancelled, err := service.CancelOrder(ctx, "missing", actor)

		assert.ErrorIs(t, err, util.ErrOrderNotFound)
		assert.Nil(t, cancelled)
	})

	t.Run("RefundFailureRollsBackEverything", func(t *testing.T) {
		ctx := context.Background()
		mockProductRepo := new(MockProductRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockWallets := new(MockWalletService)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)

		service := orderServiceWithMocks(mockDBBeginner, mockDBExecutor, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)

		mockOrderRepo.On("GetByNumberForUpdate", ctx, mock.Anything, number).Return(pendingOrder(), nil).Once()
		mockOrderRepo.On("MarkCancelled", ctx, mock.Anything, number).Return(true, nil).Once()
		mockWallets.On("CreditTx", ctx, mock.Anything, userID, total, mock.AnythingOfType("string"), mock.AnythingOfType("*string")).Return(nil, nil, errors.New("write failed")).Once()
		mockTxController.On("Rollback").Return(nil).Once()

		actor := domain.Identity{UserID: userID, Role: domain.RoleUser, Active: true}
		cancelled, err := service.CancelOrder(ctx, number, actor)

		assert.Error(t, err)
		assert.Nil(t, cancelled)
		mockProductRepo.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockTxController.AssertNotCalled(t, "Commit")
	})
}

// TestUpdateOrderStatus tests the admin status transitions.
func TestUpdateOrderStatus(t *testing.T) {
	number := "1756500000000-ab12cd34"
	admin := domain.Identity{UserID: 2, Role: domain.RoleAdmin, Active: true}

	t.Run("NonAdminRejected", func(t *testing.T) {
		ctx := context.Background()
		mockProductRepo := new(MockProductRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockWallets := new(MockWalletService)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)

		service := orderServiceWithMocks(mockDBBeginner, mockDBExecutor, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)

		actor := domain.Identity{UserID: 7, Role: domain.RoleUser, Active: true}
		order, err := service.UpdateOrderStatus(ctx, number, domain.OrderStatusShipped, actor)

		assert.ErrorIs(t, err, util.ErrNotAuthorized)
		assert.Nil(t, order)
		mockOrderRepo.AssertNotCalled(t, "GetByNumberForUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownStatusRejected", func(t *testing.T) {
		ctx := context.Background()
		mockProductRepo := new(MockProductRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockWallets := new(MockWalletService)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)

		service := orderServiceWithMocks(mockDBBeginner, mockDBExecutor, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)

		order, err := service.UpdateOrderStatus(ctx, number, domain.OrderStatus("teleported"), admin)

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.Nil(t, order)
	})

	t.Run("ForwardTransition", func(t *testing.T) {
		ctx := context.Background()
		mockProductRepo := new(MockProductRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockWallets := new(MockWalletService)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)

		service := orderServiceWithMocks(mockDBBeginner, mockDBExecutor, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)

		existing := &domain.Order{Number: number, UserID: 7, Status: domain.OrderStatusProcessing}

		mockTxController.On("Commit").Return(nil).Once()
		mockTxController.On("Rollback").Return(nil).Maybe()
		mockOrderRepo.On("GetByNumberForUpdate", ctx, mock.Anything, number).Return(existing, nil).Once()
		mockOrderRepo.On("UpdateStatus", ctx, mock.Anything, number, domain.OrderStatusShipped).Return(nil).Once()

		order, err := service.UpdateOrderStatus(ctx, number, domain.OrderStatusShipped, admin)

		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusShipped, order.Status)

		mock.AssertExpectationsForObjects(t, mockOrderRepo, mockTxController)
	})

	t.Run("TerminalStateIsFinal", func(t *testing.T) {
		ctx := context.Background()
		mockProductRepo := new(MockProductRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockWallets := new(MockWalletService)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)

		service := orderServiceWithMocks(mockDBBeginner, mockDBExecutor, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)

		delivered := &domain.Order{Number: number, UserID: 7, Status: domain.OrderStatusDelivered}

		mockOrderRepo.On("GetByNumberForUpdate", ctx, mock.Anything, number).Return(delivered, nil).Once()
		mockTxController.On("Rollback").Return(nil).Once()

		order, err := service.UpdateOrderStatus(ctx, number, domain.OrderStatusProcessing, admin)

		assert.ErrorIs(t, err, util.ErrInvalidTransition)
		assert.Nil(t, order)
		mockOrderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CancelledTransitionRunsCompensation", func(t *testing.T) {
		ctx := context.Background()
		mockProductRepo := new(MockProductRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockWallets := new(MockWalletService)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)

		service := orderServiceWithMocks(mockDBBeginner, mockDBExecutor, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)

		total := decimal.NewFromFloat(51.00)
		existing := &domain.Order{
			Number:      number,
			UserID:      7,
			TotalAmount: total,
			Status:      domain.OrderStatusProcessing,
			Items: []domain.OrderItem{
				{ProductID: 3, Quantity: 2, PriceAtPurchase: decimal.NewFromFloat(25.50)},
			},
		}
		wallet, entry := stubWalletResult(7, decimal.NewFromFloat(100.00))

		mockTxController.On("Commit").Return(nil).Once()
		mockTxController.On("Rollback").Return(nil).Maybe()
		mockOrderRepo.On("GetByNumberForUpdate", ctx, mock.Anything, number).Return(existing, nil).Once()
		mockOrderRepo.On("MarkCancelled", ctx, mock.Anything, number).Return(true, nil).Once()
		mockWallets.On("CreditTx", ctx, mock.Anything, int64(7), total, mock.AnythingOfType("string"), mock.AnythingOfType("*string")).Return(wallet, entry, nil).Once()
		mockProductRepo.On("AdjustStock", ctx, mock.Anything, int64(3), 2).Return(nil).Once()

		order, err := service.UpdateOrderStatus(ctx, number, domain.OrderStatusCancelled, admin)

		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, order.Status)
		mockOrderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

		mock.AssertExpectationsForObjects(t, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)
	})
}

// TestGetOrder tests read-side authorization.
func TestGetOrder(t *testing.T) {
	number := "1756500000000-ab12cd34"

	t.Run("OwnerReadsOwnOrder", func(t *testing.T) {
		ctx := context.Background()
		mockProductRepo := new(MockProductRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockWallets := new(MockWalletService)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)

		service := orderServiceWithMocks(mockDBBeginner, mockDBExecutor, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)

		existing := &domain.Order{Number: number, UserID: 7, Status: domain.OrderStatusPending}
		mockOrderRepo.On("GetByNumber", ctx, mock.Anything, number).Return(existing, nil).Once()

		actor := domain.Identity{UserID: 7, Role: domain.RoleUser, Active: true}
		order, err := service.GetOrder(ctx, number, actor)

		assert.NoError(t, err)
		assert.Equal(t, existing, order)
	})

	t.Run("StrangerGetsNotAuthorized", func(t *testing.T) {
		ctx := context.Background()
		mockProductRepo := new(MockProductRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockWallets := new(MockWalletService)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)

		service := orderServiceWithMocks(mockDBBeginner, mockDBExecutor, mockProductRepo, mockOrderRepo, mockWallets, mockTxController)

		existing := &domain.Order{Number: number, UserID: 7, Status: domain.OrderStatusPending}
		mockOrderRepo.On("GetByNumber", ctx, mock.Anything, number).Return(existing, nil).Once()

		actor := domain.Identity{UserID: 8, Role: domain.RoleUser, Active: true}
		order, err := service.GetOrder(ctx, number, actor)

		assert.ErrorIs(t, err, util.ErrNotAuthorized)
		assert.Nil(t, order)
	})
}
