package card

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/card-invoices/internal/application/adapter"
	"github.com/finance-tracker/card-invoices/internal/domain/entity"
)

// ListCardsInput represents the input for listing cards.
type ListCardsInput struct {
	OwnerID uuid.UUID
}

// ListCardsOutput represents the output of listing cards.
type ListCardsOutput struct {
	Cards []*entity.Card
}

// ListCardsUseCase handles listing cards in scope.
type ListCardsUseCase struct {
	cardRepo adapter.CardRepository
}

// NewListCardsUseCase creates a new ListCardsUseCase instance.
func NewListCardsUseCase(cardRepo adapter.CardRepository) *ListCardsUseCase {
	return &ListCardsUseCase{
		cardRepo: cardRepo,
	}
}

// Execute lists all cards of the owner.
func (uc *ListCardsUseCase) Execute(ctx context.Context, input ListCardsInput) (*ListCardsOutput, error) {
	cards, err := uc.cardRepo.FindByOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	return &ListCardsOutput{
		Cards: cards,
	}, nil
}
