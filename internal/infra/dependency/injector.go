// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/finance-tracker/card-invoices/config"
	"github.com/finance-tracker/card-invoices/internal/application/adapter"
	"github.com/finance-tracker/card-invoices/internal/application/usecase/card"
	"github.com/finance-tracker/card-invoices/internal/application/usecase/invoice"
	"github.com/finance-tracker/card-invoices/internal/application/usecase/transaction"
	invoicedomain "github.com/finance-tracker/card-invoices/internal/domain/invoice"
	infradb "github.com/finance-tracker/card-invoices/internal/infra/db"
	"github.com/finance-tracker/card-invoices/internal/infra/locker"
	"github.com/finance-tracker/card-invoices/internal/infra/server/router"
	"github.com/finance-tracker/card-invoices/internal/integration/adapters"
	"github.com/finance-tracker/card-invoices/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/card-invoices/internal/integration/entrypoint/middleware"
	"github.com/finance-tracker/card-invoices/internal/integration/persistence"
)

// Infra holds the externally managed clients handed to the injector.
// Nil fields fall back to in-process implementations.
type Infra struct {
	Redis     *redis.Client
	Publisher adapter.EventPublisher
	Now       func() time.Time
}

// Injector holds all application dependencies.
type Injector struct {
	Config     *config.Config
	DB         *gorm.DB
	Router     *router.Router
	Aggregator *invoicedomain.Aggregator
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, infra Infra) (*Injector, error) {
	loc, err := cfg.Invoice.Location()
	if err != nil {
		return nil, err
	}
	if infra.Now == nil {
		infra.Now = time.Now
	}
	if infra.Publisher == nil {
		return nil, fmt.Errorf("event publisher is required")
	}

	// Create repositories
	cardRepo := persistence.NewCardRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)

	// Create adapters/services
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)
	aggregator := invoicedomain.NewAggregator(loc, infra.Now)
	cardLocker := locker.New()

	// Create card use cases
	listCardsUseCase := card.NewListCardsUseCase(cardRepo)
	createCardUseCase := card.NewCreateCardUseCase(cardRepo)
	getCardUseCase := card.NewGetCardUseCase(cardRepo)
	updateCardUseCase := card.NewUpdateCardUseCase(cardRepo)
	deleteCardUseCase := card.NewDeleteCardUseCase(cardRepo, transactionRepo)

	// Create transaction use cases
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(transactionRepo)
	createTransactionUseCase := transaction.NewCreateTransactionUseCase(transactionRepo, cardRepo, aggregator)
	updateTransactionUseCase := transaction.NewUpdateTransactionUseCase(transactionRepo, cardRepo, aggregator)
	deleteTransactionUseCase := transaction.NewDeleteTransactionUseCase(transactionRepo)

	// Create invoice use cases
	listCardInvoicesUseCase := invoice.NewListCardInvoicesUseCase(cardRepo, transactionRepo, aggregator)
	togglePaidCycleUseCase := invoice.NewTogglePaidCycleUseCase(cardRepo, transactionRepo, infra.Publisher, cardLocker, aggregator)
	resolveCycleUseCase := invoice.NewResolveCycleUseCase(cardRepo, aggregator)
	listAllInvoicesUseCase := invoice.NewListAllInvoicesUseCase(cardRepo, transactionRepo, aggregator, cfg.Invoice.OverviewConcurrency)

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		return infradb.Ping(context.Background(), db) == nil
	})

	cardController := controller.NewCardController(
		listCardsUseCase,
		createCardUseCase,
		getCardUseCase,
		updateCardUseCase,
		deleteCardUseCase,
	)

	transactionController := controller.NewTransactionController(
		listTransactionsUseCase,
		createTransactionUseCase,
		updateTransactionUseCase,
		deleteTransactionUseCase,
		loc,
	)

	invoiceController := controller.NewInvoiceController(
		listCardInvoicesUseCase,
		togglePaidCycleUseCase,
		resolveCycleUseCase,
		listAllInvoicesUseCase,
		loc,
	)

	// Create middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)
	rateLimiter := newRateLimiter(cfg.RateLimit, infra.Redis)

	r := router.NewRouter(healthController, cardController, transactionController, invoiceController, authMiddleware, rateLimiter)

	return &Injector{
		Config:     cfg,
		DB:         db,
		Router:     r,
		Aggregator: aggregator,
	}, nil
}

// newRateLimiter picks the counter store. Redis is used when configured and
// available so limits hold across instances.
func newRateLimiter(cfg config.RateLimitConfig, client *redis.Client) *middleware.RateLimiter {
	if !cfg.Enabled {
		return nil
	}

	var store middleware.RateLimitStore = middleware.NewMemoryStore()
	if cfg.UseRedis && client != nil {
		store = middleware.NewRedisStore(client)
	}

	return middleware.NewRateLimiterWithConfig(store, cfg.MaxRequests, cfg.Window)
}
