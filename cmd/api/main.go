// Package main is the entry point for the card invoices API server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata" // Invoice time zones resolve without system zoneinfo.

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/card-invoices/config"
	"github.com/finance-tracker/card-invoices/internal/application/adapter"
	"github.com/finance-tracker/card-invoices/internal/infra/cache"
	"github.com/finance-tracker/card-invoices/internal/infra/db"
	"github.com/finance-tracker/card-invoices/internal/infra/dependency"
	"github.com/finance-tracker/card-invoices/internal/infra/logging"
	"github.com/finance-tracker/card-invoices/internal/integration/events"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	cfg := config.Load()

	slog.SetDefault(logging.New(cfg.Logging))

	slog.Info("Starting card invoices API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"invoiceTimezone", cfg.Invoice.Timezone,
	)

	if err := run(cfg); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := db.RunMigrations(cfg.Database.URL); err != nil {
			return err
		}
	}

	database, err := db.NewPostgresConnection(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	redisClient := connectRedis(ctx, cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher, closePublisher := connectPublisher(cfg)
	defer closePublisher()

	injector, err := dependency.NewInjector(cfg, database.DB(), dependency.Infra{
		Redis:     redisClient,
		Publisher: publisher,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      injector.Router.Setup(cfg.Server.Environment),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// connectRedis returns nil when Redis is not needed or unreachable; rate
// limiting then falls back to process memory.
func connectRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if !cfg.RateLimit.Enabled || !cfg.RateLimit.UseRedis {
		return nil
	}
	client, err := cache.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
		return nil
	}
	return client
}

func connectPublisher(cfg *config.Config) (adapter.EventPublisher, func()) {
	if cfg.Events.AMQPURL == "" {
		slog.Info("AMQP not configured, paid cycle events will not be published")
		return events.NoopPublisher{}, func() {}
	}

	publisher, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange)
	if err != nil {
		slog.Warn("AMQP unavailable, paid cycle events will not be published", "error", err)
		return events.NoopPublisher{}, func() {}
	}

	return publisher, func() {
		if err := publisher.Close(); err != nil {
			slog.Error("Failed to close AMQP publisher", "error", err)
		}
	}
}
