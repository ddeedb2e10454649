package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/card-invoices/internal/application/adapter"
	"github.com/finance-tracker/card-invoices/internal/domain/entity"
	domainerror "github.com/finance-tracker/card-invoices/internal/domain/error"
	"github.com/finance-tracker/card-invoices/internal/domain/invoice"
)

// CreateTransactionInput represents the input for transaction creation.
type CreateTransactionInput struct {
	OwnerID            uuid.UUID
	CardID             uuid.UUID
	Date               time.Time
	Amount             decimal.Decimal
	Description        string
	Category           string
	Notes              string
	InstallmentCurrent *int
	InstallmentTotal   *int
}

// CreateTransactionOutput represents the output of transaction creation.
type CreateTransactionOutput struct {
	Transaction *entity.Transaction
	Cycle       invoice.Cycle // Cycle the transaction was placed in
}

// CreateTransactionUseCase handles transaction creation logic.
type CreateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	cardRepo        adapter.CardRepository
	aggregator      *invoice.Aggregator
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance.
func NewCreateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	cardRepo adapter.CardRepository,
	aggregator *invoice.Aggregator,
) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		transactionRepo: transactionRepo,
		cardRepo:        cardRepo,
		aggregator:      aggregator,
	}
}

// Execute performs the transaction creation.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
	if input.Date.IsZero() {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionDate,
			"date is required",
			domainerror.ErrInvalidTransactionDate,
		)
	}
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := validateTexts(input.Description, input.Notes); err != nil {
		return nil, err
	}
	if err := validateInstallment(input.InstallmentCurrent, input.InstallmentTotal); err != nil {
		return nil, err
	}

	card, err := findOwnedCard(ctx, uc.cardRepo, input.CardID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	cycle, err := uc.aggregator.Resolve(card, input.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cycle: %w", err)
	}

	txn := entity.NewTransaction(
		input.OwnerID,
		card.ID,
		input.Date,
		input.Amount,
		input.Description,
		input.Category,
		input.Notes,
	)
	txn.SetInstallment(input.InstallmentCurrent, input.InstallmentTotal)

	if err := uc.transactionRepo.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	slog.DebugContext(ctx, "Transaction created",
		"transactionID", txn.ID,
		"cardID", card.ID,
		"cycleID", cycle.ID)

	return &CreateTransactionOutput{
		Transaction: txn,
		Cycle:       cycle,
	}, nil
}
