package invoice

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/card-invoices/internal/application/adapter"
	invoicedomain "github.com/finance-tracker/card-invoices/internal/domain/invoice"
)

// ListCardInvoicesInput represents the input for listing a card's invoices.
type ListCardInvoicesInput struct {
	OwnerID uuid.UUID
	CardID  uuid.UUID
}

// ListCardInvoicesOutput represents the output of listing a card's invoices.
type ListCardInvoicesOutput struct {
	CardInvoices
}

// ListCardInvoicesUseCase aggregates a card's transactions into cycle summaries.
type ListCardInvoicesUseCase struct {
	cardRepo        adapter.CardRepository
	transactionRepo adapter.TransactionRepository
	aggregator      *invoicedomain.Aggregator
}

// NewListCardInvoicesUseCase creates a new ListCardInvoicesUseCase instance.
func NewListCardInvoicesUseCase(
	cardRepo adapter.CardRepository,
	transactionRepo adapter.TransactionRepository,
	aggregator *invoicedomain.Aggregator,
) *ListCardInvoicesUseCase {
	return &ListCardInvoicesUseCase{
		cardRepo:        cardRepo,
		transactionRepo: transactionRepo,
		aggregator:      aggregator,
	}
}

// Execute builds the summaries, most recent cycle first.
func (uc *ListCardInvoicesUseCase) Execute(ctx context.Context, input ListCardInvoicesInput) (*ListCardInvoicesOutput, error) {
	card, err := findOwnedCard(ctx, uc.cardRepo, input.CardID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	invoices, err := buildCardInvoices(ctx, uc.transactionRepo, uc.aggregator, card)
	if err != nil {
		return nil, err
	}

	return &ListCardInvoicesOutput{CardInvoices: *invoices}, nil
}
