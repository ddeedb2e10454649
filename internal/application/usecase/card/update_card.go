package card

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/card-invoices/internal/application/adapter"
	"github.com/finance-tracker/card-invoices/internal/domain/entity"
)

// UpdateCardInput represents the input for card update.
// Paid cycles are changed only through the invoice toggle.
type UpdateCardInput struct {
	CardID           uuid.UUID
	OwnerID          uuid.UUID
	Name             *string          // Optional
	Type             *entity.CardType // Optional
	BillingAnchorDay *int             // Optional
}

// UpdateCardOutput represents the output of card update.
type UpdateCardOutput struct {
	Card *entity.Card
}

// UpdateCardUseCase handles card update logic.
type UpdateCardUseCase struct {
	cardRepo adapter.CardRepository
}

// NewUpdateCardUseCase creates a new UpdateCardUseCase instance.
func NewUpdateCardUseCase(cardRepo adapter.CardRepository) *UpdateCardUseCase {
	return &UpdateCardUseCase{
		cardRepo: cardRepo,
	}
}

// Execute performs the card update.
func (uc *UpdateCardUseCase) Execute(ctx context.Context, input UpdateCardInput) (*UpdateCardOutput, error) {
	card, err := findOwnedCard(ctx, uc.cardRepo, input.CardID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name, err := normalizeName(*input.Name)
		if err != nil {
			return nil, err
		}
		card.Name = name
	}

	cardType := card.Type
	if input.Type != nil {
		cardType = *input.Type
	}
	anchorDay := card.BillingAnchorDay
	if input.BillingAnchorDay != nil {
		anchorDay = *input.BillingAnchorDay
	}

	// The combination is validated so switching debit to credit requires an anchor.
	anchorDay, err = validateConfiguration(cardType, anchorDay)
	if err != nil {
		return nil, err
	}
	card.Type = cardType
	card.BillingAnchorDay = anchorDay

	if err := uc.cardRepo.Update(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}

	return &UpdateCardOutput{
		Card: card,
	}, nil
}
