// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/card-invoices/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/card-invoices/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                *gin.Engine
	healthController      *controller.HealthController
	cardController        *controller.CardController
	transactionController *controller.TransactionController
	invoiceController     *controller.InvoiceController
	authMiddleware        *middleware.AuthMiddleware
	rateLimiter           *middleware.RateLimiter // Optional
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	cardController *controller.CardController,
	transactionController *controller.TransactionController,
	invoiceController *controller.InvoiceController,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		healthController:      healthController,
		cardController:        cardController,
		transactionController: transactionController,
		invoiceController:     invoiceController,
		authMiddleware:        authMiddleware,
		rateLimiter:           rateLimiter,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes. Every route requires authentication.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	v1.Use(r.authMiddleware.Authenticate())
	if r.rateLimiter != nil {
		v1.Use(r.rateLimiter.Middleware())
	}

	cards := v1.Group("/cards")
	{
		cards.GET("", r.cardController.List)
		cards.POST("", r.cardController.Create)
		cards.GET("/:id", r.cardController.Get)
		cards.PATCH("/:id", r.cardController.Update)
		cards.DELETE("/:id", r.cardController.Delete)

		invoices := cards.Group("/:id/invoices")
		{
			invoices.GET("", r.invoiceController.ListForCard)
			invoices.GET("/resolve", r.invoiceController.Resolve)
			invoices.POST("/:cycle_id/toggle-paid", r.invoiceController.TogglePaid)
		}
	}

	transactions := v1.Group("/transactions")
	{
		transactions.GET("", r.transactionController.List)
		transactions.POST("", r.transactionController.Create)
		transactions.PATCH("/:id", r.transactionController.Update)
		transactions.DELETE("/:id", r.transactionController.Delete)
	}

	v1.GET("/invoices", r.invoiceController.Overview)
}
