package invoice

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/finance-tracker/card-invoices/internal/application/adapter"
	invoicedomain "github.com/finance-tracker/card-invoices/internal/domain/invoice"
)

// DefaultOverviewConcurrency bounds the number of cards aggregated at once.
const DefaultOverviewConcurrency = 4

// ListAllInvoicesInput represents the input for the invoice overview.
type ListAllInvoicesInput struct {
	OwnerID uuid.UUID
}

// ListAllInvoicesOutput holds the summaries of every card in scope.
type ListAllInvoicesOutput struct {
	Cards  []*CardInvoices // Same order as the owner's card list
	Totals invoicedomain.Totals
}

// ListAllInvoicesUseCase aggregates all cards of an owner concurrently.
type ListAllInvoicesUseCase struct {
	cardRepo        adapter.CardRepository
	transactionRepo adapter.TransactionRepository
	aggregator      *invoicedomain.Aggregator
	concurrency     int
}

// NewListAllInvoicesUseCase creates a new ListAllInvoicesUseCase instance.
// A non-positive concurrency uses DefaultOverviewConcurrency.
func NewListAllInvoicesUseCase(
	cardRepo adapter.CardRepository,
	transactionRepo adapter.TransactionRepository,
	aggregator *invoicedomain.Aggregator,
	concurrency int,
) *ListAllInvoicesUseCase {
	if concurrency <= 0 {
		concurrency = DefaultOverviewConcurrency
	}
	return &ListAllInvoicesUseCase{
		cardRepo:        cardRepo,
		transactionRepo: transactionRepo,
		aggregator:      aggregator,
		concurrency:     concurrency,
	}
}

// Execute builds the overview. The first failing card cancels the rest.
func (uc *ListAllInvoicesUseCase) Execute(ctx context.Context, input ListAllInvoicesInput) (*ListAllInvoicesOutput, error) {
	cards, err := uc.cardRepo.FindByOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	results := make([]*CardInvoices, len(cards))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i, card := range cards {
		g.Go(func() error {
			invoices, err := buildCardInvoices(gctx, uc.transactionRepo, uc.aggregator, card)
			if err != nil {
				return err
			}
			results[i] = invoices
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totals := invoicedomain.Totals{
		Outstanding: decimal.Zero,
		Paid:        decimal.Zero,
	}
	for _, r := range results {
		totals.Outstanding = totals.Outstanding.Add(r.Totals.Outstanding)
		totals.Paid = totals.Paid.Add(r.Totals.Paid)
		totals.OverdueCount += r.Totals.OverdueCount
		totals.CycleCount += r.Totals.CycleCount
	}

	return &ListAllInvoicesOutput{
		Cards:  results,
		Totals: totals,
	}, nil
}
