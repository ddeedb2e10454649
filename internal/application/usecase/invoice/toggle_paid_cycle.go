package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/card-invoices/internal/application/adapter"
	domainerror "github.com/finance-tracker/card-invoices/internal/domain/error"
	invoicedomain "github.com/finance-tracker/card-invoices/internal/domain/invoice"
	"github.com/finance-tracker/card-invoices/internal/domain/valueobject"
)

// TogglePaidCycleInput represents the input for flipping a cycle's paid state.
type TogglePaidCycleInput struct {
	OwnerID uuid.UUID
	CardID  uuid.UUID
	CycleID string
}

// TogglePaidCycleOutput represents the refreshed state after a toggle.
type TogglePaidCycleOutput struct {
	CardInvoices
	CycleID valueobject.CycleID
	IsPaid  bool
}

// TogglePaidCycleUseCase flips the paid state of one cycle of a card.
type TogglePaidCycleUseCase struct {
	cardRepo        adapter.CardRepository
	transactionRepo adapter.TransactionRepository
	publisher       adapter.EventPublisher
	locker          adapter.KeyedLocker
	aggregator      *invoicedomain.Aggregator
	now             func() time.Time
}

// NewTogglePaidCycleUseCase creates a new TogglePaidCycleUseCase instance.
func NewTogglePaidCycleUseCase(
	cardRepo adapter.CardRepository,
	transactionRepo adapter.TransactionRepository,
	publisher adapter.EventPublisher,
	locker adapter.KeyedLocker,
	aggregator *invoicedomain.Aggregator,
) *TogglePaidCycleUseCase {
	return &TogglePaidCycleUseCase{
		cardRepo:        cardRepo,
		transactionRepo: transactionRepo,
		publisher:       publisher,
		locker:          locker,
		aggregator:      aggregator,
		now:             time.Now,
	}
}

// Execute toggles the cycle and returns the card's refreshed summaries.
// Cycles without transactions can be toggled too.
func (uc *TogglePaidCycleUseCase) Execute(ctx context.Context, input TogglePaidCycleInput) (*TogglePaidCycleOutput, error) {
	cycleID, err := valueobject.ParseCycleID(input.CycleID)
	if err != nil {
		return nil, domainerror.NewInvoiceError(
			domainerror.ErrCodeInvalidCycleID,
			"cycle id must be in YYYY-MM format",
			domainerror.ErrInvalidCycleID,
		)
	}

	// Concurrent toggles of the same card would otherwise lose updates.
	unlock := uc.locker.Lock("card:" + input.CardID.String())
	defer unlock()

	var isPaid bool
	err = uc.cardRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		card, err := findOwnedCard(ctx, uc.cardRepo, input.CardID, input.OwnerID)
		if err != nil {
			return err
		}

		next, paid := card.PaidCycles.Toggled(cycleID)
		if err := uc.cardRepo.UpdatePaidCycles(ctx, card.ID, next); err != nil {
			return fmt.Errorf("failed to update paid cycles: %w", err)
		}
		isPaid = paid
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Invoice paid state toggled",
		"cardID", input.CardID,
		"cycleID", cycleID,
		"isPaid", isPaid)

	event := adapter.PaidCycleToggledEvent{
		CardID:    input.CardID,
		OwnerID:   input.OwnerID,
		CycleID:   cycleID,
		IsPaid:    isPaid,
		ToggledAt: uc.now().UTC(),
	}
	if err := uc.publisher.PublishPaidCycleToggled(ctx, event); err != nil {
		// The toggle is already committed at this point.
		slog.ErrorContext(ctx, "Failed to publish paid cycle event",
			"error", err,
			"cardID", input.CardID,
			"cycleID", cycleID)
	}

	card, err := findOwnedCard(ctx, uc.cardRepo, input.CardID, input.OwnerID)
	if err != nil {
		return nil, err
	}
	invoices, err := buildCardInvoices(ctx, uc.transactionRepo, uc.aggregator, card)
	if err != nil {
		return nil, err
	}

	return &TogglePaidCycleOutput{
		CardInvoices: *invoices,
		CycleID:      cycleID,
		IsPaid:       isPaid,
	}, nil
}
