package card

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/card-invoices/internal/application/adapter"
)

// DeleteCardInput represents the input for card deletion.
type DeleteCardInput struct {
	CardID  uuid.UUID
	OwnerID uuid.UUID
}

// DeleteCardUseCase handles card deletion logic.
type DeleteCardUseCase struct {
	cardRepo        adapter.CardRepository
	transactionRepo adapter.TransactionRepository
}

// NewDeleteCardUseCase creates a new DeleteCardUseCase instance.
func NewDeleteCardUseCase(cardRepo adapter.CardRepository, transactionRepo adapter.TransactionRepository) *DeleteCardUseCase {
	return &DeleteCardUseCase{
		cardRepo:        cardRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute soft-deletes the card together with its transactions.
func (uc *DeleteCardUseCase) Execute(ctx context.Context, input DeleteCardInput) error {
	card, err := findOwnedCard(ctx, uc.cardRepo, input.CardID, input.OwnerID)
	if err != nil {
		return err
	}

	var removed int64
	err = uc.cardRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		n, err := uc.transactionRepo.DeleteByCard(ctx, card.ID)
		if err != nil {
			return fmt.Errorf("failed to delete card transactions: %w", err)
		}
		removed = n
		if err := uc.cardRepo.Delete(ctx, card.ID); err != nil {
			return fmt.Errorf("failed to delete card: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Card deleted", "cardID", card.ID, "userID", input.OwnerID, "transactionsRemoved", removed)
	return nil
}
