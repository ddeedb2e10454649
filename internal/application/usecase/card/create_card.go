package card

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/card-invoices/internal/application/adapter"
	"github.com/finance-tracker/card-invoices/internal/domain/entity"
)

// CreateCardInput represents the input for card creation.
type CreateCardInput struct {
	OwnerID          uuid.UUID
	Name             string
	Type             entity.CardType
	BillingAnchorDay int // Required for credit cards
}

// CreateCardOutput represents the output of card creation.
type CreateCardOutput struct {
	Card *entity.Card
}

// CreateCardUseCase handles card creation logic.
type CreateCardUseCase struct {
	cardRepo adapter.CardRepository
}

// NewCreateCardUseCase creates a new CreateCardUseCase instance.
func NewCreateCardUseCase(cardRepo adapter.CardRepository) *CreateCardUseCase {
	return &CreateCardUseCase{
		cardRepo: cardRepo,
	}
}

// Execute performs the card creation.
func (uc *CreateCardUseCase) Execute(ctx context.Context, input CreateCardInput) (*CreateCardOutput, error) {
	name, err := normalizeName(input.Name)
	if err != nil {
		return nil, err
	}

	anchorDay, err := validateConfiguration(input.Type, input.BillingAnchorDay)
	if err != nil {
		return nil, err
	}

	card := entity.NewCard(input.OwnerID, name, input.Type, anchorDay)
	if err := uc.cardRepo.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	slog.InfoContext(ctx, "Card created", "cardID", card.ID, "userID", input.OwnerID, "type", card.Type)

	return &CreateCardOutput{
		Card: card,
	}, nil
}
