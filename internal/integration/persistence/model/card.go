// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/card-invoices/internal/domain/entity"
	"github.com/finance-tracker/card-invoices/internal/domain/valueobject"
)

// CardModel represents the cards table in the database.
type CardModel struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OwnerID          uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name             string         `gorm:"type:varchar(100);not null"`
	Type             string         `gorm:"type:varchar(10);not null"`
	BillingAnchorDay int            `gorm:"not null;default:0"`
	PaidCycles       []string       `gorm:"type:text;serializer:json"` // Sorted "YYYY-MM" ids
	CreatedAt        time.Time      `gorm:"not null"`
	UpdatedAt        time.Time      `gorm:"not null"`
	DeletedAt        gorm.DeletedAt `gorm:"index"` // Soft-delete support
}

// TableName returns the table name for the CardModel.
func (CardModel) TableName() string {
	return "cards"
}

// ToEntity converts a CardModel to a domain Card entity.
func (m *CardModel) ToEntity() *entity.Card {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	paid := make([]valueobject.CycleID, len(m.PaidCycles))
	for i, id := range m.PaidCycles {
		paid[i] = valueobject.CycleID(id)
	}

	return &entity.Card{
		ID:               m.ID,
		OwnerID:          m.OwnerID,
		Name:             m.Name,
		Type:             entity.CardType(m.Type),
		BillingAnchorDay: m.BillingAnchorDay,
		PaidCycles:       entity.NewPaidCycles(paid...),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		DeletedAt:        deletedAt,
	}
}

// CardFromEntity creates a CardModel from a domain Card entity.
func CardFromEntity(card *entity.Card) *CardModel {
	var deletedAt gorm.DeletedAt
	if card.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *card.DeletedAt, Valid: true}
	}

	return &CardModel{
		ID:               card.ID,
		OwnerID:          card.OwnerID,
		Name:             card.Name,
		Type:             string(card.Type),
		BillingAnchorDay: card.BillingAnchorDay,
		PaidCycles:       PaidCyclesToStrings(card.PaidCycles),
		CreatedAt:        card.CreatedAt,
		UpdatedAt:        card.UpdatedAt,
		DeletedAt:        deletedAt,
	}
}

// PaidCyclesToStrings flattens a paid-cycle set into its stored form.
func PaidCyclesToStrings(paid entity.PaidCycles) []string {
	ids := paid.Slice()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
