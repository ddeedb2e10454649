// Package card contains card-related use cases.
package card

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/finance-tracker/card-invoices/internal/application/adapter"
	"github.com/finance-tracker/card-invoices/internal/domain/entity"
	domainerror "github.com/finance-tracker/card-invoices/internal/domain/error"
)

// MaxCardNameLength is the maximum accepted length of a card name.
const MaxCardNameLength = 100

// normalizeName trims and validates a card name.
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domainerror.NewCardError(
			domainerror.ErrCodeCardNameRequired,
			"card name is required",
			domainerror.ErrCardNameRequired,
		)
	}
	if len(name) > MaxCardNameLength {
		return "", domainerror.NewCardError(
			domainerror.ErrCodeCardNameTooLong,
			fmt.Sprintf("card name must be at most %d characters", MaxCardNameLength),
			domainerror.ErrCardNameTooLong,
		)
	}
	return name, nil
}

// validateConfiguration checks type and anchor day and returns the anchor to store.
// Debit cards never use the anchor, so it is stored as zero.
func validateConfiguration(cardType entity.CardType, anchorDay int) (int, error) {
	if !cardType.IsValid() {
		return 0, domainerror.NewCardError(
			domainerror.ErrCodeInvalidCardType,
			"type must be 'credit' or 'debit'",
			domainerror.ErrInvalidCardType,
		)
	}
	if cardType == entity.CardTypeDebit {
		return 0, nil
	}
	if anchorDay < entity.MinBillingAnchorDay || anchorDay > entity.MaxBillingAnchorDay {
		return 0, domainerror.NewCardError(
			domainerror.ErrCodeInvalidBillingAnchor,
			fmt.Sprintf("billing anchor day must be between %d and %d",
				entity.MinBillingAnchorDay, entity.MaxBillingAnchorDay),
			domainerror.ErrInvalidBillingAnchorDay,
		)
	}
	return anchorDay, nil
}

// findOwnedCard loads a card and checks that it belongs to ownerID.
func findOwnedCard(ctx context.Context, repo adapter.CardRepository, cardID, ownerID uuid.UUID) (*entity.Card, error) {
	card, err := repo.FindByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCardNotFound) {
			return nil, domainerror.NewCardError(
				domainerror.ErrCodeCardNotFound,
				"card not found",
				domainerror.ErrCardNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find card: %w", err)
	}

	if !card.IsOwnedBy(ownerID) {
		return nil, domainerror.NewCardError(
			domainerror.ErrCodeNotAuthorizedCard,
			"not authorized to access this card",
			domainerror.ErrNotAuthorizedToAccessCard,
		)
	}
	return card, nil
}
