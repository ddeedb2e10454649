package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/card-invoices/internal/application/adapter"
	domainerror "github.com/finance-tracker/card-invoices/internal/domain/error"
	invoicedomain "github.com/finance-tracker/card-invoices/internal/domain/invoice"
)

// ResolveCycleInput represents the input for previewing a purchase's cycle.
type ResolveCycleInput struct {
	OwnerID uuid.UUID
	CardID  uuid.UUID
	Date    time.Time
}

// ResolveCycleOutput describes the cycle a purchase on Date would land in.
type ResolveCycleOutput struct {
	Cycle  invoicedomain.Cycle
	Label  string
	IsPaid bool
}

// ResolveCycleUseCase previews cycle assignment without persisting anything.
type ResolveCycleUseCase struct {
	cardRepo   adapter.CardRepository
	aggregator *invoicedomain.Aggregator
}

// NewResolveCycleUseCase creates a new ResolveCycleUseCase instance.
func NewResolveCycleUseCase(cardRepo adapter.CardRepository, aggregator *invoicedomain.Aggregator) *ResolveCycleUseCase {
	return &ResolveCycleUseCase{
		cardRepo:   cardRepo,
		aggregator: aggregator,
	}
}

// Execute resolves the cycle for the given date.
func (uc *ResolveCycleUseCase) Execute(ctx context.Context, input ResolveCycleInput) (*ResolveCycleOutput, error) {
	card, err := findOwnedCard(ctx, uc.cardRepo, input.CardID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	cycle, err := uc.aggregator.Resolve(card, input.Date)
	if err != nil {
		switch {
		case errors.Is(err, domainerror.ErrInvalidDate):
			return nil, domainerror.NewInvoiceError(
				domainerror.ErrCodeInvalidInvoiceDate,
				"date is required",
				err,
			)
		case errors.Is(err, domainerror.ErrInvalidCardConfiguration):
			return nil, domainerror.NewInvoiceError(
				domainerror.ErrCodeInvalidCardConfiguration,
				"card configuration does not allow cycle resolution",
				err,
			)
		}
		return nil, fmt.Errorf("failed to resolve cycle: %w", err)
	}

	return &ResolveCycleOutput{
		Cycle:  cycle,
		Label:  invoicedomain.CycleLabel(cycle.ReferenceDate),
		IsPaid: card.PaidCycles.Has(cycle.ID),
	}, nil
}
