package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/card-invoices/internal/domain/valueobject"
)

// PaidCycleToggledEvent is emitted after a cycle's paid state changes.
type PaidCycleToggledEvent struct {
	CardID    uuid.UUID
	OwnerID   uuid.UUID
	CycleID   valueobject.CycleID
	IsPaid    bool
	ToggledAt time.Time
}

// EventPublisher defines the interface for publishing invoice events.
type EventPublisher interface {
	// PublishPaidCycleToggled publishes a paid-state change.
	PublishPaidCycleToggled(ctx context.Context, event PaidCycleToggledEvent) error
}

// KeyedLocker serialises work per key within the process.
type KeyedLocker interface {
	// Lock blocks until key is free and returns the matching unlock function.
	Lock(key string) (unlock func())
}
