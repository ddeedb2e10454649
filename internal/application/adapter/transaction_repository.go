package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/card-invoices/internal/domain/entity"
)

// TransactionFilter defines filter options for listing transactions.
type TransactionFilter struct {
	OwnerID   uuid.UUID
	CardID    *uuid.UUID
	StartDate *time.Time // Inclusive
	EndDate   *time.Time // Inclusive
}

// TransactionRepository defines the interface for transaction persistence operations.
type TransactionRepository interface {
	// Create creates a new transaction in the database.
	Create(ctx context.Context, transaction *entity.Transaction) error

	// FindByID retrieves a transaction by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindByFilter retrieves transactions matching the filter, ordered by date.
	FindByFilter(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, error)

	// FindByCard retrieves every transaction recorded against a card.
	FindByCard(ctx context.Context, cardID uuid.UUID) ([]*entity.Transaction, error)

	// Update updates an existing transaction in the database.
	Update(ctx context.Context, transaction *entity.Transaction) error

	// Delete soft-deletes a transaction from the database.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByCard soft-deletes all transactions of a card.
	// Returns the count of deleted transactions.
	DeleteByCard(ctx context.Context, cardID uuid.UUID) (int64, error)
}
