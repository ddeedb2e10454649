package card

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/card-invoices/internal/application/adapter"
	"github.com/finance-tracker/card-invoices/internal/domain/entity"
)

// GetCardInput represents the input for fetching a card.
type GetCardInput struct {
	CardID  uuid.UUID
	OwnerID uuid.UUID
}

// GetCardOutput represents the output of fetching a card.
type GetCardOutput struct {
	Card *entity.Card
}

// GetCardUseCase handles fetching a single card.
type GetCardUseCase struct {
	cardRepo adapter.CardRepository
}

// NewGetCardUseCase creates a new GetCardUseCase instance.
func NewGetCardUseCase(cardRepo adapter.CardRepository) *GetCardUseCase {
	return &GetCardUseCase{
		cardRepo: cardRepo,
	}
}

// Execute fetches the card if it belongs to the owner.
func (uc *GetCardUseCase) Execute(ctx context.Context, input GetCardInput) (*GetCardOutput, error) {
	card, err := findOwnedCard(ctx, uc.cardRepo, input.CardID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	return &GetCardOutput{
		Card: card,
	}, nil
}
