package dto

import (
	"time"

	"github.com/finance-tracker/card-invoices/internal/domain/entity"
)

// CreateCardRequest represents the request body for card creation.
type CreateCardRequest struct {
	Name             string `json:"name" binding:"required"`
	Type             string `json:"type" binding:"required,oneof=credit debit"`
	BillingAnchorDay int    `json:"billing_anchor_day"`
}

// UpdateCardRequest represents the request body for card update.
type UpdateCardRequest struct {
	Name             *string `json:"name,omitempty"`
	Type             *string `json:"type,omitempty" binding:"omitempty,oneof=credit debit"`
	BillingAnchorDay *int    `json:"billing_anchor_day,omitempty"`
}

// CardResponse represents a single card in API responses.
type CardResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	BillingAnchorDay int       `json:"billing_anchor_day"`
	PaidCycles       []string  `json:"paid_cycles"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CardListResponse represents the response for listing cards.
type CardListResponse struct {
	Cards []CardResponse `json:"cards"`
}

// ToCardResponse converts a domain Card entity to a CardResponse DTO.
func ToCardResponse(card *entity.Card) CardResponse {
	ids := card.PaidCycles.Slice()
	paid := make([]string, len(ids))
	for i, id := range ids {
		paid[i] = id.String()
	}

	return CardResponse{
		ID:               card.ID.String(),
		Name:             card.Name,
		Type:             string(card.Type),
		BillingAnchorDay: card.BillingAnchorDay,
		PaidCycles:       paid,
		CreatedAt:        card.CreatedAt,
		UpdatedAt:        card.UpdatedAt,
	}
}

// ToCardListResponse converts a slice of cards to a CardListResponse DTO.
func ToCardListResponse(cards []*entity.Card) CardListResponse {
	responses := make([]CardResponse, len(cards))
	for i, card := range cards {
		responses[i] = ToCardResponse(card)
	}
	return CardListResponse{Cards: responses}
}
