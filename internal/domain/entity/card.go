// Package entity defines the core business entities for the domain layer.
package entity

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/card-invoices/internal/domain/valueobject"
)

// CardType represents the kind of payment card.
type CardType string

const (
	CardTypeCredit CardType = "credit"
	CardTypeDebit  CardType = "debit"
)

// IsValid reports whether the card type is one of the known types.
func (t CardType) IsValid() bool {
	return t == CardTypeCredit || t == CardTypeDebit
}

const (
	// MinBillingAnchorDay is the lowest accepted billing anchor day.
	MinBillingAnchorDay = 1
	// MaxBillingAnchorDay is the highest accepted billing anchor day.
	MaxBillingAnchorDay = 31
)

// PaidCycles is the set of cycle identifiers already marked as settled.
type PaidCycles map[valueobject.CycleID]struct{}

// NewPaidCycles builds a set from the given cycle identifiers.
func NewPaidCycles(ids ...valueobject.CycleID) PaidCycles {
	set := make(PaidCycles, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether the cycle is marked as paid.
func (p PaidCycles) Has(id valueobject.CycleID) bool {
	_, ok := p[id]
	return ok
}

// Slice returns the cycle identifiers in ascending order.
func (p PaidCycles) Slice() []valueobject.CycleID {
	ids := make([]valueobject.CycleID, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Toggled returns a copy of the set with the cycle's membership flipped,
// and whether the cycle is paid in the returned set.
func (p PaidCycles) Toggled(id valueobject.CycleID) (PaidCycles, bool) {
	next := make(PaidCycles, len(p)+1)
	for existing := range p {
		next[existing] = struct{}{}
	}
	if next.Has(id) {
		delete(next, id)
		return next, false
	}
	next[id] = struct{}{}
	return next, true
}

// Card represents a credit or debit card owned by a user.
type Card struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	Name             string
	Type             CardType
	BillingAnchorDay int // Day a new credit cycle begins; ignored for debit
	PaidCycles       PaidCycles
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time // Soft-delete support
}

// NewCard creates a new Card entity.
func NewCard(ownerID uuid.UUID, name string, cardType CardType, billingAnchorDay int) *Card {
	now := time.Now().UTC()

	return &Card{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		Name:             name,
		Type:             cardType,
		BillingAnchorDay: billingAnchorDay,
		PaidCycles:       NewPaidCycles(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// HasValidConfiguration reports whether the card can be used for cycle resolution.
func (c *Card) HasValidConfiguration() bool {
	if !c.Type.IsValid() {
		return false
	}
	if c.Type == CardTypeDebit {
		return true
	}
	return c.BillingAnchorDay >= MinBillingAnchorDay && c.BillingAnchorDay <= MaxBillingAnchorDay
}

// IsOwnedBy reports whether the card belongs to the given owner.
func (c *Card) IsOwnedBy(ownerID uuid.UUID) bool {
	return c.OwnerID == ownerID
}
