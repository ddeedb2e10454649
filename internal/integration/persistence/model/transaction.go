package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-tracker/card-invoices/internal/domain/entity"
)

// TransactionModel represents the transactions table in the database.
type TransactionModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	CardID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	Date               time.Time       `gorm:"not null;index"` // Full instant, stored in UTC
	Amount             decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Description        string          `gorm:"type:varchar(255);not null;default:''"`
	Category           string          `gorm:"type:varchar(100);not null;default:''"`
	Notes              string          `gorm:"type:text"`
	InstallmentCurrent *int            `gorm:"type:integer"`
	InstallmentTotal   *int            `gorm:"type:integer"`
	CreatedAt          time.Time       `gorm:"not null"`
	UpdatedAt          time.Time       `gorm:"not null"`
	DeletedAt          gorm.DeletedAt  `gorm:"index"` // Soft-delete support
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.Transaction{
		ID:                 m.ID,
		OwnerID:            m.OwnerID,
		CardID:             m.CardID,
		Date:               m.Date.UTC(),
		Amount:             m.Amount,
		Description:        m.Description,
		Category:           m.Category,
		Notes:              m.Notes,
		InstallmentCurrent: m.InstallmentCurrent,
		InstallmentTotal:   m.InstallmentTotal,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		DeletedAt:          deletedAt,
	}
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
func TransactionFromEntity(txn *entity.Transaction) *TransactionModel {
	var deletedAt gorm.DeletedAt
	if txn.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *txn.DeletedAt, Valid: true}
	}

	return &TransactionModel{
		ID:                 txn.ID,
		OwnerID:            txn.OwnerID,
		CardID:             txn.CardID,
		Date:               txn.Date.UTC(),
		Amount:             txn.Amount,
		Description:        txn.Description,
		Category:           txn.Category,
		Notes:              txn.Notes,
		InstallmentCurrent: txn.InstallmentCurrent,
		InstallmentTotal:   txn.InstallmentTotal,
		CreatedAt:          txn.CreatedAt,
		UpdatedAt:          txn.UpdatedAt,
		DeletedAt:          deletedAt,
	}
}
