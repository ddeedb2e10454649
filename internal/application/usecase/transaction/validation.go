// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/card-invoices/internal/application/adapter"
	"github.com/finance-tracker/card-invoices/internal/domain/entity"
	domainerror "github.com/finance-tracker/card-invoices/internal/domain/error"
)

const (
	// MaxDescriptionLength is the maximum allowed length for transaction descriptions.
	MaxDescriptionLength = 255
	// MaxNotesLength is the maximum allowed length for transaction notes.
	MaxNotesLength = 1000
	// AmountScale is the number of decimal places an amount may carry.
	AmountScale = 2
)

func validateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			"amount must not be negative",
			domainerror.ErrInvalidTransactionAmount,
		)
	}
	// Trailing zeros are fine; "1.500" is stored as 1.50.
	if !amount.Equal(amount.Round(AmountScale)) {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			fmt.Sprintf("amount must not have more than %d decimal places", AmountScale),
			domainerror.ErrInvalidTransactionAmount,
		)
	}
	return nil
}

func validateTexts(description, notes string) error {
	if len(description) > MaxDescriptionLength {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeDescriptionTooLong,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}
	if len(notes) > MaxNotesLength {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeNotesTooLong,
			fmt.Sprintf("notes must not exceed %d characters", MaxNotesLength),
			domainerror.ErrNotesTooLong,
		)
	}
	return nil
}

// validateInstallment accepts either no installment or 1 <= current <= total.
func validateInstallment(current, total *int) error {
	if current == nil && total == nil {
		return nil
	}
	if current == nil || total == nil || *current < 1 || *total < 1 || *current > *total {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidInstallment,
			"installment must satisfy 1 <= current <= total",
			domainerror.ErrInvalidInstallment,
		)
	}
	return nil
}

// findOwnedCard resolves the card a transaction is charged to. Cards of other
// owners are reported as missing.
func findOwnedCard(ctx context.Context, repo adapter.CardRepository, cardID, ownerID uuid.UUID) (*entity.Card, error) {
	card, err := repo.FindByID(ctx, cardID)
	if err != nil && !errors.Is(err, domainerror.ErrCardNotFound) {
		return nil, fmt.Errorf("failed to find card: %w", err)
	}
	if card == nil || !card.IsOwnedBy(ownerID) {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTxnCardNotFound,
			"card not found",
			domainerror.ErrCardNotFoundForTransaction,
		)
	}
	return card, nil
}

// findOwnedTransaction loads a transaction and checks that it belongs to ownerID.
func findOwnedTransaction(ctx context.Context, repo adapter.TransactionRepository, id, ownerID uuid.UUID) (*entity.Transaction, error) {
	txn, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeTransactionNotFound,
				"transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	if txn.OwnerID != ownerID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeNotAuthorizedTransaction,
			"not authorized to modify this transaction",
			domainerror.ErrNotAuthorizedToModifyTransaction,
		)
	}
	return txn, nil
}
