package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/card-invoices/internal/domain/entity"
	"github.com/finance-tracker/card-invoices/internal/domain/invoice"
)

// CreateTransactionRequest represents the request body for transaction creation.
type CreateTransactionRequest struct {
	CardID             string          `json:"card_id" binding:"required,uuid"`
	Date               string          `json:"date" binding:"required"`
	Amount             decimal.Decimal `json:"amount"` // String or number
	Description        string          `json:"description"`
	Category           string          `json:"category"`
	Notes              string          `json:"notes"`
	InstallmentCurrent *int            `json:"installment_current,omitempty"`
	InstallmentTotal   *int            `json:"installment_total,omitempty"`
}

// UpdateTransactionRequest represents the request body for transaction update.
type UpdateTransactionRequest struct {
	CardID             *string          `json:"card_id,omitempty" binding:"omitempty,uuid"`
	Date               *string          `json:"date,omitempty"`
	Amount             *decimal.Decimal `json:"amount,omitempty"`
	Description        *string          `json:"description,omitempty"`
	Category           *string          `json:"category,omitempty"`
	Notes              *string          `json:"notes,omitempty"`
	InstallmentCurrent *int             `json:"installment_current,omitempty"`
	InstallmentTotal   *int             `json:"installment_total,omitempty"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID                 string    `json:"id"`
	CardID             string    `json:"card_id"`
	Date               time.Time `json:"date"`
	Amount             string    `json:"amount"`
	Description        string    `json:"description"`
	Category           string    `json:"category,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	InstallmentCurrent *int      `json:"installment_current,omitempty"`
	InstallmentTotal   *int      `json:"installment_total,omitempty"`
	CycleID            string    `json:"cycle_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// ToTransactionResponse converts a domain Transaction entity to a TransactionResponse DTO.
func ToTransactionResponse(txn *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                 txn.ID.String(),
		CardID:             txn.CardID.String(),
		Date:               txn.Date,
		Amount:             FormatAmount(txn.Amount),
		Description:        txn.Description,
		Category:           txn.Category,
		Notes:              txn.Notes,
		InstallmentCurrent: txn.InstallmentCurrent,
		InstallmentTotal:   txn.InstallmentTotal,
		CreatedAt:          txn.CreatedAt,
		UpdatedAt:          txn.UpdatedAt,
	}
}

// ToTransactionResponseWithCycle also reports the cycle the transaction landed in.
func ToTransactionResponseWithCycle(txn *entity.Transaction, cycle invoice.Cycle) TransactionResponse {
	response := ToTransactionResponse(txn)
	response.CycleID = cycle.ID.String()
	return response
}

// ToTransactionListResponse converts a slice of transactions to a TransactionListResponse DTO.
func ToTransactionListResponse(txns []*entity.Transaction) TransactionListResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(txn)
	}
	return TransactionListResponse{Transactions: responses}
}
