package events

import (
	"context"
	"log/slog"

	"github.com/finance-tracker/card-invoices/internal/application/adapter"
)

// NoopPublisher logs events instead of sending them. It is used when no
// broker is configured.
type NoopPublisher struct{}

var _ adapter.EventPublisher = NoopPublisher{}

// PublishPaidCycleToggled logs the event at debug level.
func (NoopPublisher) PublishPaidCycleToggled(ctx context.Context, event adapter.PaidCycleToggledEvent) error {
	slog.DebugContext(ctx, "Paid cycle event not published (broker not configured)",
		"cardID", event.CardID,
		"cycleID", event.CycleID,
		"isPaid", event.IsPaid)
	return nil
}

// Close is a no-op.
func (NoopPublisher) Close() error { return nil }
