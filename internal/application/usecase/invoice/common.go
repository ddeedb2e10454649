// Package invoice contains invoice-related use cases.
package invoice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/card-invoices/internal/application/adapter"
	"github.com/finance-tracker/card-invoices/internal/domain/entity"
	domainerror "github.com/finance-tracker/card-invoices/internal/domain/error"
	invoicedomain "github.com/finance-tracker/card-invoices/internal/domain/invoice"
)

// CardInvoices holds the aggregated cycles of one card.
type CardInvoices struct {
	Card      *entity.Card
	Summaries []*invoicedomain.CycleSummary
	Totals    invoicedomain.Totals
}

// findOwnedCard loads a card through repo and checks that it belongs to ownerID.
func findOwnedCard(ctx context.Context, repo adapter.CardRepository, cardID, ownerID uuid.UUID) (*entity.Card, error) {
	card, err := repo.FindByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCardNotFound) {
			return nil, domainerror.NewInvoiceError(
				domainerror.ErrCodeInvoiceCardNotFound,
				"card not found",
				domainerror.ErrCardNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find card: %w", err)
	}

	if !card.IsOwnedBy(ownerID) {
		return nil, domainerror.NewInvoiceError(
			domainerror.ErrCodeInvoiceCardNotOwned,
			"not authorized to access this card",
			domainerror.ErrNotAuthorizedToAccessCard,
		)
	}
	return card, nil
}

// buildCardInvoices aggregates every transaction of card.
func buildCardInvoices(
	ctx context.Context,
	transactionRepo adapter.TransactionRepository,
	aggregator *invoicedomain.Aggregator,
	card *entity.Card,
) (*CardInvoices, error) {
	txns, err := transactionRepo.FindByCard(ctx, card.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for card %s: %w", card.ID, err)
	}

	summaries, err := aggregator.Aggregate(card, txns)
	if err != nil {
		if errors.Is(err, domainerror.ErrInvalidCardConfiguration) {
			return nil, domainerror.NewInvoiceError(
				domainerror.ErrCodeInvalidCardConfiguration,
				"card configuration does not allow cycle resolution",
				err,
			)
		}
		return nil, fmt.Errorf("failed to aggregate invoices for card %s: %w", card.ID, err)
	}

	return &CardInvoices{
		Card:      card,
		Summaries: summaries,
		Totals:    invoicedomain.Summarize(summaries),
	}, nil
}
