package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/card-invoices/internal/application/adapter"
	"github.com/finance-tracker/card-invoices/internal/domain/entity"
	domainerror "github.com/finance-tracker/card-invoices/internal/domain/error"
	"github.com/finance-tracker/card-invoices/internal/domain/invoice"
)

// UpdateTransactionInput represents the input for transaction update.
type UpdateTransactionInput struct {
	TransactionID      uuid.UUID
	OwnerID            uuid.UUID
	CardID             *uuid.UUID       // Optional
	Date               *time.Time       // Optional
	Amount             *decimal.Decimal // Optional
	Description        *string          // Optional
	Category           *string          // Optional
	Notes              *string          // Optional
	InstallmentCurrent *int             // Optional, set together with InstallmentTotal
	InstallmentTotal   *int             // Optional, set together with InstallmentCurrent
}

// UpdateTransactionOutput represents the output of transaction update.
type UpdateTransactionOutput struct {
	Transaction *entity.Transaction
	Cycle       invoice.Cycle
}

// UpdateTransactionUseCase handles transaction update logic.
type UpdateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	cardRepo        adapter.CardRepository
	aggregator      *invoice.Aggregator
}

// NewUpdateTransactionUseCase creates a new UpdateTransactionUseCase instance.
func NewUpdateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	cardRepo adapter.CardRepository,
	aggregator *invoice.Aggregator,
) *UpdateTransactionUseCase {
	return &UpdateTransactionUseCase{
		transactionRepo: transactionRepo,
		cardRepo:        cardRepo,
		aggregator:      aggregator,
	}
}

// Execute performs the transaction update.
func (uc *UpdateTransactionUseCase) Execute(ctx context.Context, input UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	txn, err := findOwnedTransaction(ctx, uc.transactionRepo, input.TransactionID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if input.CardID != nil {
		txn.CardID = *input.CardID
	}
	if input.Date != nil {
		if input.Date.IsZero() {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeInvalidTransactionDate,
				"date must not be empty",
				domainerror.ErrInvalidTransactionDate,
			)
		}
		txn.Date = *input.Date
	}
	if input.Amount != nil {
		if err := validateAmount(*input.Amount); err != nil {
			return nil, err
		}
		txn.Amount = *input.Amount
	}
	if input.Description != nil {
		txn.Description = *input.Description
	}
	if input.Category != nil {
		txn.Category = *input.Category
	}
	if input.Notes != nil {
		txn.Notes = *input.Notes
	}
	if input.InstallmentCurrent != nil || input.InstallmentTotal != nil {
		if err := validateInstallment(input.InstallmentCurrent, input.InstallmentTotal); err != nil {
			return nil, err
		}
		txn.SetInstallment(input.InstallmentCurrent, input.InstallmentTotal)
	}
	if err := validateTexts(txn.Description, txn.Notes); err != nil {
		return nil, err
	}

	card, err := findOwnedCard(ctx, uc.cardRepo, txn.CardID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	cycle, err := uc.aggregator.Resolve(card, txn.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cycle: %w", err)
	}

	if err := uc.transactionRepo.Update(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return &UpdateTransactionOutput{
		Transaction: txn,
		Cycle:       cycle,
	}, nil
}
