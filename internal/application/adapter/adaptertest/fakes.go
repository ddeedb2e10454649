// Package adaptertest provides in-memory implementations of the application
// adapters for use case tests.
package adaptertest

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/finance-tracker/card-invoices/internal/application/adapter"
	"github.com/finance-tracker/card-invoices/internal/domain/entity"
	domainerror "github.com/finance-tracker/card-invoices/internal/domain/error"
)

// CardRepository is an in-memory adapter.CardRepository.
type CardRepository struct {
	mu    sync.Mutex
	cards map[uuid.UUID]*entity.Card
	order []uuid.UUID

	// FindErr, when set, is returned by every lookup.
	FindErr error
	// UpdatePaidErr, when set, is returned by UpdatePaidCycles.
	UpdatePaidErr error
}

// NewCardRepository creates an empty CardRepository seeded with cards.
func NewCardRepository(cards ...*entity.Card) *CardRepository {
	r := &CardRepository{cards: make(map[uuid.UUID]*entity.Card)}
	for _, c := range cards {
		r.put(c)
	}
	return r
}

var _ adapter.CardRepository = (*CardRepository)(nil)

func (r *CardRepository) put(card *entity.Card) {
	if _, ok := r.cards[card.ID]; !ok {
		r.order = append(r.order, card.ID)
	}
	r.cards[card.ID] = cloneCard(card)
}

func (r *CardRepository) Create(_ context.Context, card *entity.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(card)
	return nil
}

func (r *CardRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	card, ok := r.cards[id]
	if !ok {
		return nil, domainerror.ErrCardNotFound
	}
	return cloneCard(card), nil
}

func (r *CardRepository) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	out := make([]*entity.Card, 0)
	for _, id := range r.order {
		if card, ok := r.cards[id]; ok && card.OwnerID == ownerID {
			out = append(out, cloneCard(card))
		}
	}
	return out, nil
}

func (r *CardRepository) Update(_ context.Context, card *entity.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.cards[card.ID]
	if !ok {
		return domainerror.ErrCardNotFound
	}
	updated := cloneCard(card)
	updated.PaidCycles = stored.PaidCycles
	r.cards[card.ID] = updated
	return nil
}

func (r *CardRepository) UpdatePaidCycles(_ context.Context, id uuid.UUID, paid entity.PaidCycles) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.UpdatePaidErr != nil {
		return r.UpdatePaidErr
	}
	card, ok := r.cards[id]
	if !ok {
		return domainerror.ErrCardNotFound
	}
	card.PaidCycles = entity.NewPaidCycles(paid.Slice()...)
	return nil
}

func (r *CardRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cards[id]; !ok {
		return domainerror.ErrCardNotFound
	}
	delete(r.cards, id)
	return nil
}

// WithinTransaction runs fn directly; the fake has no rollback.
func (r *CardRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Get returns the stored card or nil.
func (r *CardRepository) Get(id uuid.UUID) *entity.Card {
	r.mu.Lock()
	defer r.mu.Unlock()
	if card, ok := r.cards[id]; ok {
		return cloneCard(card)
	}
	return nil
}

func cloneCard(card *entity.Card) *entity.Card {
	c := *card
	c.PaidCycles = entity.NewPaidCycles(card.PaidCycles.Slice()...)
	return &c
}

// TransactionRepository is an in-memory adapter.TransactionRepository.
type TransactionRepository struct {
	mu   sync.Mutex
	txns map[uuid.UUID]*entity.Transaction

	// FindErr, when set, is returned by every lookup.
	FindErr error
}

// NewTransactionRepository creates a TransactionRepository seeded with transactions.
func NewTransactionRepository(txns ...*entity.Transaction) *TransactionRepository {
	r := &TransactionRepository{txns: make(map[uuid.UUID]*entity.Transaction)}
	for _, t := range txns {
		c := *t
		r.txns[t.ID] = &c
	}
	return r
}

var _ adapter.TransactionRepository = (*TransactionRepository)(nil)

func (r *TransactionRepository) Create(_ context.Context, txn *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *txn
	r.txns[txn.ID] = &c
	return nil
}

func (r *TransactionRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	txn, ok := r.txns[id]
	if !ok {
		return nil, domainerror.ErrTransactionNotFound
	}
	c := *txn
	return &c, nil
}

func (r *TransactionRepository) FindByFilter(_ context.Context, filter adapter.TransactionFilter) ([]*entity.Transaction, error) {
	return r.collect(func(t *entity.Transaction) bool {
		if t.OwnerID != filter.OwnerID {
			return false
		}
		if filter.CardID != nil && t.CardID != *filter.CardID {
			return false
		}
		if filter.StartDate != nil && t.Date.Before(*filter.StartDate) {
			return false
		}
		if filter.EndDate != nil && t.Date.After(*filter.EndDate) {
			return false
		}
		return true
	})
}

func (r *TransactionRepository) FindByCard(_ context.Context, cardID uuid.UUID) ([]*entity.Transaction, error) {
	return r.collect(func(t *entity.Transaction) bool { return t.CardID == cardID })
}

func (r *TransactionRepository) collect(match func(*entity.Transaction) bool) ([]*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	out := make([]*entity.Transaction, 0)
	for _, t := range r.txns {
		if match(t) {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (r *TransactionRepository) Update(_ context.Context, txn *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txns[txn.ID]; !ok {
		return domainerror.ErrTransactionNotFound
	}
	c := *txn
	r.txns[txn.ID] = &c
	return nil
}

func (r *TransactionRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txns[id]; !ok {
		return domainerror.ErrTransactionNotFound
	}
	delete(r.txns, id)
	return nil
}

func (r *TransactionRepository) DeleteByCard(_ context.Context, cardID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, t := range r.txns {
		if t.CardID == cardID {
			delete(r.txns, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored transactions.
func (r *TransactionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.txns)
}

// EventPublisher records published events.
type EventPublisher struct {
	mu     sync.Mutex
	events []adapter.PaidCycleToggledEvent

	// Err, when set, is returned by every publish.
	Err error
}

var _ adapter.EventPublisher = (*EventPublisher)(nil)

func (p *EventPublisher) PublishPaidCycleToggled(_ context.Context, event adapter.PaidCycleToggledEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of the recorded events.
func (p *EventPublisher) Events() []adapter.PaidCycleToggledEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]adapter.PaidCycleToggledEvent(nil), p.events...)
}

// Reset drops the recorded events.
func (p *EventPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

// ErrUnavailable is a generic infrastructure failure for tests.
var ErrUnavailable = errors.New("backend unavailable")
