package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction represents a purchase charged to a card.
type Transaction struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	CardID      uuid.UUID // Weak reference, the card does not own it
	Date        time.Time
	Amount      decimal.Decimal // Non-negative
	Description string
	Category    string
	Notes       string

	// Installment info is carried for presentation only.
	InstallmentCurrent *int
	InstallmentTotal   *int

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time // Soft-delete support
}

// NewTransaction creates a new Transaction entity.
func NewTransaction(
	ownerID uuid.UUID,
	cardID uuid.UUID,
	date time.Time,
	amount decimal.Decimal,
	description string,
	category string,
	notes string,
) *Transaction {
	now := time.Now().UTC()

	return &Transaction{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		CardID:      cardID,
		Date:        date,
		Amount:      amount,
		Description: description,
		Category:    category,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SetInstallment records the installment position of the transaction.
func (t *Transaction) SetInstallment(current, total *int) {
	t.InstallmentCurrent = current
	t.InstallmentTotal = total
}
