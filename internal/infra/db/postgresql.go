// Package db opens the card store and applies its schema.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/finance-tracker/card-invoices/config"
)

const pingTimeout = 5 * time.Second

// Database is an open card store.
type Database struct {
	conn *gorm.DB
}

// NewPostgresConnection opens the PostgreSQL card store and waits until it answers.
func NewPostgresConnection(ctx context.Context, cfg *config.DatabaseConfig) (*Database, error) {
	return Open(ctx, postgres.Open(cfg.URL), cfg)
}

// Open opens the store over any GORM dialector. Timestamps written by GORM
// are UTC so stored instants compare the same on every driver.
func Open(ctx context.Context, dialector gorm.Dialector, cfg *config.DatabaseConfig) (*Database, error) {
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", dialector.Name(), err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	applyPool(sqlDB, cfg)

	if err := Ping(ctx, conn); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	slog.InfoContext(ctx, "Card store ready",
		"dialect", dialector.Name(),
		"maxOpenConns", cfg.MaxOpenConns,
		"maxIdleConns", cfg.MaxIdleConns,
	)

	return &Database{conn: conn}, nil
}

// applyPool leaves driver defaults in place for unset limits.
func applyPool(sqlDB *sql.DB, cfg *config.DatabaseConfig) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

// Ping reports whether conn answers within pingTimeout.
func Ping(ctx context.Context, conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// DB returns the GORM handle repositories are built on.
func (d *Database) DB() *gorm.DB {
	return d.conn
}

// Close releases the connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB for closing: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	slog.Info("Database connection closed")
	return nil
}
