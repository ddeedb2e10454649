// Package events publishes invoice domain events to the message broker.
package events

import (
	"encoding/json"
	"time"

	"github.com/finance-tracker/card-invoices/internal/application/adapter"
)

// RoutingKeyPaidCycleToggled is the routing key of paid-state changes.
const RoutingKeyPaidCycleToggled = "invoice.paid_cycle_toggled"

// PaidCycleToggledMessage is the wire form of adapter.PaidCycleToggledEvent.
type PaidCycleToggledMessage struct {
	CardID    string    `json:"card_id"`
	OwnerID   string    `json:"owner_id"`
	CycleID   string    `json:"cycle_id"`
	IsPaid    bool      `json:"is_paid"`
	ToggledAt time.Time `json:"toggled_at"`
}

// NewPaidCycleToggledMessage converts an event into its wire form.
func NewPaidCycleToggledMessage(event adapter.PaidCycleToggledEvent) *PaidCycleToggledMessage {
	return &PaidCycleToggledMessage{
		CardID:    event.CardID.String(),
		OwnerID:   event.OwnerID.String(),
		CycleID:   event.CycleID.String(),
		IsPaid:    event.IsPaid,
		ToggledAt: event.ToggledAt.UTC(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *PaidCycleToggledMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
