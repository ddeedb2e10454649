// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/card-invoices/internal/domain/entity"
)

// CardRepository defines the interface for card persistence operations.
type CardRepository interface {
	// Create creates a new card in the database.
	Create(ctx context.Context, card *entity.Card) error

	// FindByID retrieves a card by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Card, error)

	// FindByOwner retrieves all cards owned by the given user, oldest first.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Card, error)

	// Update updates the card's name, type and billing anchor day.
	Update(ctx context.Context, card *entity.Card) error

	// UpdatePaidCycles replaces the persisted paid-cycle set of a card.
	UpdatePaidCycles(ctx context.Context, id uuid.UUID, paid entity.PaidCycles) error

	// Delete soft-deletes a card.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithinTransaction runs fn inside a database transaction. Repositories
	// used through the context passed to fn join that transaction.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
