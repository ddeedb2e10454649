package invoice

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/card-invoices/internal/domain/entity"
	domainerror "github.com/finance-tracker/card-invoices/internal/domain/error"
	"github.com/finance-tracker/card-invoices/internal/domain/valueobject"
)

// CycleSummary is the derived invoice for one cycle of one card.
// Summaries are rebuilt on every aggregation and never persisted.
type CycleSummary struct {
	CycleID          valueobject.CycleID
	ReferenceDate    time.Time
	Label            string
	TotalAmount      decimal.Decimal
	TransactionCount int
	Transactions     []*entity.Transaction // Encounter order
	IsPaid           bool
	IsOverdue        bool
}

// Totals summarises an aggregation result at card level.
type Totals struct {
	Outstanding  decimal.Decimal // Sum of unpaid cycle totals
	Paid         decimal.Decimal
	OverdueCount int
	CycleCount   int
}

// Aggregator groups a card's transactions into cycle summaries.
type Aggregator struct {
	loc *time.Location
	now func() time.Time
}

// NewAggregator creates an Aggregator evaluating local dates in loc and
// "today" from now. Nil arguments fall back to time.Local and time.Now.
func NewAggregator(loc *time.Location, now func() time.Time) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Aggregator{
		loc: loc,
		now: now,
	}
}

// Location returns the local calendar used for resolution.
func (a *Aggregator) Location() *time.Location {
	return a.loc
}

// Resolve places a single date in the card's cycle.
func (a *Aggregator) Resolve(card *entity.Card, date time.Time) (Cycle, error) {
	if card == nil {
		return Cycle{}, domainerror.ErrInvalidCardConfiguration
	}
	return ResolveCycle(date, card.Type, card.BillingAnchorDay, a.loc)
}

// Aggregate builds the card's cycle summaries sorted by reference date, most
// recent first. Transactions for other cards are ignored. The card is only read.
func (a *Aggregator) Aggregate(card *entity.Card, transactions []*entity.Transaction) ([]*CycleSummary, error) {
	if card == nil || !card.HasValidConfiguration() {
		return nil, domainerror.ErrInvalidCardConfiguration
	}

	byCycle := make(map[valueobject.CycleID]*CycleSummary)
	summaries := make([]*CycleSummary, 0)

	for _, txn := range transactions {
		if txn == nil || txn.CardID != card.ID {
			continue
		}

		cycle, err := ResolveCycle(txn.Date, card.Type, card.BillingAnchorDay, a.loc)
		if err != nil {
			return nil, fmt.Errorf("resolve cycle for transaction %s: %w", txn.ID, err)
		}

		summary, ok := byCycle[cycle.ID]
		if !ok {
			summary = &CycleSummary{
				CycleID:       cycle.ID,
				ReferenceDate: cycle.ReferenceDate,
				Label:         CycleLabel(cycle.ReferenceDate),
				TotalAmount:   decimal.Zero,
			}
			byCycle[cycle.ID] = summary
			summaries = append(summaries, summary)
		}

		summary.TotalAmount = summary.TotalAmount.Add(txn.Amount)
		summary.TransactionCount++
		summary.Transactions = append(summary.Transactions, txn)
	}

	// Paid state is merged after grouping so a toggle never changes assignment.
	today := StartOfDay(a.now(), a.loc)
	for _, summary := range summaries {
		summary.IsPaid = card.PaidCycles.Has(summary.CycleID)
		summary.IsOverdue = !summary.IsPaid && summary.ReferenceDate.Before(today)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ReferenceDate.After(summaries[j].ReferenceDate)
	})

	return summaries, nil
}

// Summarize computes card-level totals over an aggregation result.
func Summarize(summaries []*CycleSummary) Totals {
	totals := Totals{
		Outstanding: decimal.Zero,
		Paid:        decimal.Zero,
		CycleCount:  len(summaries),
	}
	for _, s := range summaries {
		if s.IsPaid {
			totals.Paid = totals.Paid.Add(s.TotalAmount)
			continue
		}
		totals.Outstanding = totals.Outstanding.Add(s.TotalAmount)
		if s.IsOverdue {
			totals.OverdueCount++
		}
	}
	return totals
}

// CycleLabel renders a reference date as "January 2026".
func CycleLabel(referenceDate time.Time) string {
	return fmt.Sprintf("%s %d", referenceDate.Month(), referenceDate.Year())
}

// StartOfDay returns local midnight of t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
