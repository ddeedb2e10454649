package invoice

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/card-invoices/internal/domain/entity"
	domainerror "github.com/finance-tracker/card-invoices/internal/domain/error"
	"github.com/finance-tracker/card-invoices/internal/domain/valueobject"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newCreditCard(anchor int, paid ...valueobject.CycleID) *entity.Card {
	card := entity.NewCard(uuid.New(), "Visa", entity.CardTypeCredit, anchor)
	card.PaidCycles = entity.NewPaidCycles(paid...)
	return card
}

func newTxn(card *entity.Card, date time.Time, amount string) *entity.Transaction {
	return entity.NewTransaction(card.OwnerID, card.ID, date, decimal.RequireFromString(amount), "purchase", "", "")
}

func findSummary(summaries []*CycleSummary, id valueobject.CycleID) *CycleSummary {
	for _, s := range summaries {
		if s.CycleID == id {
			return s
		}
	}
	return nil
}

func TestAggregator_GroupsAndSorts(t *testing.T) {
	card := newCreditCard(20)
	txns := []*entity.Transaction{
		newTxn(card, utcDate(2025, time.December, 19), "10.50"),
		newTxn(card, utcDate(2025, time.December, 21), "20.25"),
		newTxn(card, utcDate(2026, time.January, 19), "5.00"),
		newTxn(card, utcDate(2026, time.January, 20), "7.77"),
	}

	agg := NewAggregator(time.UTC, fixedClock(utcDate(2025, time.December, 1)))
	summaries, err := agg.Aggregate(card, txns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantOrder := []valueobject.CycleID{"2026-02", "2026-01", "2025-12"}
	if len(summaries) != len(wantOrder) {
		t.Fatalf("expected %d summaries, got %d", len(wantOrder), len(summaries))
	}
	for i, id := range wantOrder {
		if summaries[i].CycleID != id {
			t.Errorf("position %d: expected cycle %s, got %s", i, id, summaries[i].CycleID)
		}
	}

	jan := findSummary(summaries, "2026-01")
	if jan.TransactionCount != 2 {
		t.Errorf("expected 2 transactions in 2026-01, got %d", jan.TransactionCount)
	}
	if !jan.TotalAmount.Equal(decimal.RequireFromString("25.25")) {
		t.Errorf("expected total 25.25, got %s", jan.TotalAmount)
	}
	if jan.Transactions[0] != txns[1] || jan.Transactions[1] != txns[2] {
		t.Error("expected transactions in encounter order")
	}
	if jan.Label != "January 2026" {
		t.Errorf("expected label January 2026, got %s", jan.Label)
	}
}

func TestAggregator_ConservesCountAndAmount(t *testing.T) {
	card := newCreditCard(7)
	start := time.Date(2025, time.January, 1, 15, 0, 0, 0, time.UTC)

	var txns []*entity.Transaction
	expectedTotal := decimal.Zero
	for i := 0; i < 400; i++ {
		amount := decimal.New(int64(i*37+1), -2) // cents
		expectedTotal = expectedTotal.Add(amount)
		txns = append(txns, entity.NewTransaction(card.OwnerID, card.ID, start.AddDate(0, 0, i), amount, "", "", ""))
	}

	summaries, err := NewAggregator(time.UTC, fixedClock(start)).Aggregate(card, txns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count := 0
	total := decimal.Zero
	seen := make(map[uuid.UUID]int)
	for _, s := range summaries {
		count += s.TransactionCount
		total = total.Add(s.TotalAmount)
		if len(s.Transactions) != s.TransactionCount {
			t.Errorf("cycle %s: count %d does not match %d transactions", s.CycleID, s.TransactionCount, len(s.Transactions))
		}
		for _, txn := range s.Transactions {
			seen[txn.ID]++
		}
	}

	if count != len(txns) {
		t.Errorf("expected %d transactions across summaries, got %d", len(txns), count)
	}
	if !total.Equal(expectedTotal) {
		t.Errorf("expected total %s, got %s", expectedTotal, total)
	}
	for _, txn := range txns {
		if seen[txn.ID] != 1 {
			t.Errorf("transaction %s assigned %d times", txn.ID, seen[txn.ID])
		}
	}
}

func TestAggregator_Overdue(t *testing.T) {
	card := newCreditCard(20)
	txn := newTxn(card, utcDate(2026, time.January, 5), "100")

	tests := []struct {
		name        string
		now         time.Time
		paid        bool
		wantOverdue bool
	}{
		{"reference date yesterday and unpaid", utcDate(2026, time.January, 21), false, true},
		{"reference date yesterday and paid", utcDate(2026, time.January, 21), true, false},
		{"reference date today", time.Date(2026, time.January, 20, 23, 59, 0, 0, time.UTC), false, false},
		{"reference date in the future", utcDate(2026, time.January, 10), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card.PaidCycles = entity.NewPaidCycles()
			if tt.paid {
				card.PaidCycles = entity.NewPaidCycles("2026-01")
			}

			summaries, err := NewAggregator(time.UTC, fixedClock(tt.now)).Aggregate(card, []*entity.Transaction{txn})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(summaries) != 1 {
				t.Fatalf("expected 1 summary, got %d", len(summaries))
			}
			if summaries[0].IsPaid != tt.paid {
				t.Errorf("expected paid %v, got %v", tt.paid, summaries[0].IsPaid)
			}
			if summaries[0].IsOverdue != tt.wantOverdue {
				t.Errorf("expected overdue %v, got %v", tt.wantOverdue, summaries[0].IsOverdue)
			}
		})
	}
}

func TestAggregator_TogglingPaidCycleOnlyAffectsThatCycle(t *testing.T) {
	card := newCreditCard(10)
	txns := []*entity.Transaction{
		newTxn(card, utcDate(2026, time.March, 2), "1"),
		newTxn(card, utcDate(2026, time.April, 2), "2"),
		newTxn(card, utcDate(2026, time.May, 2), "3"),
	}
	agg := NewAggregator(time.UTC, fixedClock(utcDate(2026, time.June, 1)))

	before, err := agg.Aggregate(card, txns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	toggled, isPaid := card.PaidCycles.Toggled("2026-04")
	if !isPaid {
		t.Fatal("expected cycle to become paid")
	}
	card.PaidCycles = toggled

	after, err := agg.Aggregate(card, txns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range before {
		b, a := before[i], after[i]
		if b.CycleID != a.CycleID || !b.TotalAmount.Equal(a.TotalAmount) || b.TransactionCount != a.TransactionCount {
			t.Errorf("cycle %s: assignment changed after toggle", b.CycleID)
		}
		if a.CycleID == "2026-04" {
			if !a.IsPaid || a.IsOverdue {
				t.Errorf("expected 2026-04 paid and not overdue, got paid=%v overdue=%v", a.IsPaid, a.IsOverdue)
			}
			continue
		}
		if a.IsPaid != b.IsPaid || a.IsOverdue != b.IsOverdue {
			t.Errorf("cycle %s: state changed after toggling another cycle", a.CycleID)
		}
	}
}

func TestAggregator_Idempotent(t *testing.T) {
	card := newCreditCard(15, "2026-02")
	txns := []*entity.Transaction{
		newTxn(card, utcDate(2026, time.January, 3), "12.34"),
		newTxn(card, utcDate(2026, time.January, 16), "0.66"),
		newTxn(card, utcDate(2026, time.February, 28), "99.99"),
	}
	agg := NewAggregator(time.UTC, fixedClock(utcDate(2026, time.March, 20)))

	first, err := agg.Aggregate(card, txns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := agg.Aggregate(card, txns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("expected equal lengths, got %d and %d", len(first), len(second))
	}
	for i := range first {
		f, s := first[i], second[i]
		if f.CycleID != s.CycleID ||
			!f.ReferenceDate.Equal(s.ReferenceDate) ||
			!f.TotalAmount.Equal(s.TotalAmount) ||
			f.TransactionCount != s.TransactionCount ||
			f.IsPaid != s.IsPaid ||
			f.IsOverdue != s.IsOverdue ||
			f.Label != s.Label {
			t.Errorf("position %d: expected equal summaries, got %+v and %+v", i, f, s)
		}
	}
}

func TestAggregator_EmptyInput(t *testing.T) {
	summaries, err := NewAggregator(time.UTC, nil).Aggregate(newCreditCard(5), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summaries == nil || len(summaries) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", summaries)
	}
}

func TestAggregator_IgnoresOtherCards(t *testing.T) {
	card := newCreditCard(5)
	other := newCreditCard(5)

	txns := []*entity.Transaction{
		newTxn(card, utcDate(2026, time.July, 1), "10"),
		newTxn(other, utcDate(2026, time.July, 1), "1000"),
	}

	summaries, err := NewAggregator(time.UTC, nil).Aggregate(card, txns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 1 || summaries[0].TransactionCount != 1 {
		t.Fatalf("expected a single summary with one transaction, got %+v", summaries)
	}
	if !summaries[0].TotalAmount.Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected total 10, got %s", summaries[0].TotalAmount)
	}
}

func TestAggregator_DebitUsesCalendarMonths(t *testing.T) {
	card := entity.NewCard(uuid.New(), "Checking", entity.CardTypeDebit, 0)
	txns := []*entity.Transaction{
		newTxn(card, utcDate(2026, time.March, 1), "1"),
		newTxn(card, utcDate(2026, time.March, 31), "2"),
		newTxn(card, utcDate(2026, time.April, 1), "3"),
	}

	summaries, err := NewAggregator(time.UTC, fixedClock(utcDate(2026, time.April, 1))).Aggregate(card, txns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}

	march := findSummary(summaries, "2026-03")
	if march == nil || march.TransactionCount != 2 {
		t.Fatalf("expected 2 transactions in 2026-03, got %+v", march)
	}
	if !march.IsOverdue {
		t.Error("expected unpaid past debit month to be overdue")
	}
	if april := findSummary(summaries, "2026-04"); april.IsOverdue {
		t.Error("expected current debit month to be open")
	}
}

func TestAggregator_InvalidInput(t *testing.T) {
	agg := NewAggregator(time.UTC, nil)

	if _, err := agg.Aggregate(nil, nil); !errors.Is(err, domainerror.ErrInvalidCardConfiguration) {
		t.Errorf("expected invalid configuration for nil card, got %v", err)
	}

	bad := newCreditCard(0)
	if _, err := agg.Aggregate(bad, nil); !errors.Is(err, domainerror.ErrInvalidCardConfiguration) {
		t.Errorf("expected invalid configuration for anchor 0, got %v", err)
	}

	card := newCreditCard(5)
	undated := newTxn(card, time.Time{}, "1")
	if _, err := agg.Aggregate(card, []*entity.Transaction{undated}); !errors.Is(err, domainerror.ErrInvalidDate) {
		t.Errorf("expected invalid date, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	summaries := []*CycleSummary{
		{CycleID: "2026-03", TotalAmount: decimal.RequireFromString("10.10")},
		{CycleID: "2026-02", TotalAmount: decimal.RequireFromString("20.20"), IsOverdue: true},
		{CycleID: "2026-01", TotalAmount: decimal.RequireFromString("30.30"), IsPaid: true},
	}

	totals := Summarize(summaries)
	if !totals.Outstanding.Equal(decimal.RequireFromString("30.30")) {
		t.Errorf("expected outstanding 30.30, got %s", totals.Outstanding)
	}
	if !totals.Paid.Equal(decimal.RequireFromString("30.30")) {
		t.Errorf("expected paid 30.30, got %s", totals.Paid)
	}
	if totals.OverdueCount != 1 {
		t.Errorf("expected 1 overdue cycle, got %d", totals.OverdueCount)
	}
	if totals.CycleCount != 3 {
		t.Errorf("expected 3 cycles, got %d", totals.CycleCount)
	}
}
