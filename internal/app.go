// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "stampmarket/internal/api"
	"stampmarket/internal/api/handler"
	"stampmarket/internal/config"
	"stampmarket/internal/payment"
	"stampmarket/internal/repository"
	"stampmarket/internal/repository/postgres"
	"stampmarket/internal/service"
	"stampmarket/internal/util"
	"stampmarket/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	WalletRepository   repository.WalletRepository
	LedgerRepository   repository.LedgerRepository
	ProductRepository  repository.ProductRepository
	InterestRepository repository.InterestRepository
	OrderRepository    repository.OrderRepository
	ChargeRepository   repository.ChargeRepository
	ForumRepository    repository.ForumRepository
	EventRepository    repository.EventRepository

	// Services
	WalletService  service.WalletService
	OrderService   service.OrderService
	CatalogService service.CatalogService
	ForumService   service.ForumService
	EventService   service.EventService
	PaymentGateway *payment.Gateway

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	// 4. Initialize Repositories
	app.WalletRepository = postgres.NewWalletRepository(app.DB)
	app.LedgerRepository = postgres.NewLedgerRepository(app.DB)
	app.ProductRepository = postgres.NewProductRepository(app.DB)
	app.InterestRepository = postgres.NewInterestRepository(app.DB)
	app.OrderRepository = postgres.NewOrderRepository(app.DB)
	app.ChargeRepository = postgres.NewChargeRepository(app.DB)
	app.ForumRepository = postgres.NewForumRepository(app.DB)
	app.EventRepository = postgres.NewEventRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	// Pass the concrete db.BeginTx, db.CommitTx, db.RollbackTx functions from pkg/db
	app.WalletService = service.NewWalletService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.WalletRepository,
		app.LedgerRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.OrderService = service.NewOrderService(
		app.DB,
		app.DB,
		app.ProductRepository,
		app.OrderRepository,
		app.WalletService,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.CatalogService = service.NewCatalogService(app.DB, app.ProductRepository, app.InterestRepository)
	app.ForumService = service.NewForumService(app.DB, app.ForumRepository)
	app.EventService = service.NewEventService(app.DB, app.EventRepository)
	app.PaymentGateway = payment.NewGateway(
		app.Config.PaymentSecret,
		app.Config.ChargeTTL,
		app.DB,
		app.DB,
		app.ChargeRepository,
		app.WalletService,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger,
	)
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	handlers := router.Handlers{
		Wallet:  handler.NewWalletHandler(app.WalletService, app.Logger),
		Order:   handler.NewOrderHandler(app.OrderService, app.Logger),
		Catalog: handler.NewCatalogHandler(app.CatalogService, app.Logger),
		Payment: handler.NewPaymentHandler(app.PaymentGateway, app.Logger),
		Forum:   handler.NewForumHandler(app.ForumService, app.Logger),
		Event:   handler.NewEventHandler(app.EventService, app.Logger),
	}
	app.HTTPHandler = router.NewRouter(handlers, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
