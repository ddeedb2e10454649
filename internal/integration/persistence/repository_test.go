package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/finance-tracker/card-invoices/internal/application/adapter"
	"github.com/finance-tracker/card-invoices/internal/domain/entity"
	domainerror "github.com/finance-tracker/card-invoices/internal/domain/error"
	"github.com/finance-tracker/card-invoices/internal/domain/valueobject"
	"github.com/finance-tracker/card-invoices/internal/integration/persistence/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	if err := db.AutoMigrate(&model.CardModel{}, &model.TransactionModel{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestCardRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewCardRepository(newTestDB(t))

	owner := uuid.New()
	card := entity.NewCard(owner, "Nubank", entity.CardTypeCredit, 20)
	card.PaidCycles = entity.NewPaidCycles("2026-02", "2025-12")

	if err := repo.Create(ctx, card); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := repo.FindByID(ctx, card.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Name != "Nubank" || found.Type != entity.CardTypeCredit || found.BillingAnchorDay != 20 {
		t.Errorf("unexpected card: %+v", found)
	}
	if !found.PaidCycles.Has("2026-02") || !found.PaidCycles.Has("2025-12") || len(found.PaidCycles) != 2 {
		t.Errorf("expected paid cycles to round trip, got %v", found.PaidCycles.Slice())
	}

	other := entity.NewCard(uuid.New(), "Other", entity.CardTypeDebit, 0)
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cards, err := repo.FindByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 1 || cards[0].ID != card.ID {
		t.Errorf("expected only the owner's card, got %d cards", len(cards))
	}
}

func TestCardRepository_FindByIDNotFound(t *testing.T) {
	repo := NewCardRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	if !errors.Is(err, domainerror.ErrCardNotFound) {
		t.Errorf("expected ErrCardNotFound, got %v", err)
	}
}

func TestCardRepository_UpdateKeepsPaidCycles(t *testing.T) {
	ctx := context.Background()
	repo := NewCardRepository(newTestDB(t))

	card := entity.NewCard(uuid.New(), "Visa", entity.CardTypeCredit, 10)
	card.PaidCycles = entity.NewPaidCycles("2026-01")
	if err := repo.Create(ctx, card); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	card.Name = "Visa Gold"
	card.BillingAnchorDay = 5
	card.PaidCycles = entity.NewPaidCycles()
	if err := repo.Update(ctx, card); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := repo.FindByID(ctx, card.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Name != "Visa Gold" || found.BillingAnchorDay != 5 {
		t.Errorf("expected updated configuration, got %+v", found)
	}
	if !found.PaidCycles.Has("2026-01") {
		t.Error("expected Update to leave paid cycles untouched")
	}
}

func TestCardRepository_UpdatePaidCycles(t *testing.T) {
	ctx := context.Background()
	repo := NewCardRepository(newTestDB(t))

	card := entity.NewCard(uuid.New(), "Visa", entity.CardTypeCredit, 10)
	if err := repo.Create(ctx, card); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := repo.UpdatePaidCycles(ctx, card.ID, entity.NewPaidCycles("2026-03", "2026-04")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := repo.FindByID(ctx, card.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := found.PaidCycles.Slice()
	want := []valueobject.CycleID{"2026-03", "2026-04"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("expected %v, got %v", want, got)
	}

	if err := repo.UpdatePaidCycles(ctx, uuid.New(), entity.NewPaidCycles()); !errors.Is(err, domainerror.ErrCardNotFound) {
		t.Errorf("expected ErrCardNotFound for unknown card, got %v", err)
	}
}

func TestCardRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewCardRepository(newTestDB(t))

	card := entity.NewCard(uuid.New(), "Visa", entity.CardTypeCredit, 10)
	if err := repo.Create(ctx, card); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := repo.Delete(ctx, card.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.FindByID(ctx, card.ID); !errors.Is(err, domainerror.ErrCardNotFound) {
		t.Errorf("expected soft-deleted card to be hidden, got %v", err)
	}
	if err := repo.Delete(ctx, card.ID); !errors.Is(err, domainerror.ErrCardNotFound) {
		t.Errorf("expected ErrCardNotFound on second delete, got %v", err)
	}
}

func TestCardRepository_WithinTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cards := NewCardRepository(db)
	txns := NewTransactionRepository(db)

	card := entity.NewCard(uuid.New(), "Visa", entity.CardTypeCredit, 10)
	if err := cards.Create(ctx, card); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	boom := errors.New("boom")
	err := cards.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := cards.UpdatePaidCycles(ctx, card.ID, entity.NewPaidCycles("2026-01")); err != nil {
			return err
		}
		txn := entity.NewTransaction(card.OwnerID, card.ID, time.Now(), decimal.NewFromInt(5), "", "", "")
		if err := txns.Create(ctx, txn); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	found, err := cards.FindByID(ctx, card.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.PaidCycles.Has("2026-01") {
		t.Error("expected paid cycles change to be rolled back")
	}
	remaining, err := txns.FindByCard(ctx, card.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected transaction insert to be rolled back, got %d", len(remaining))
	}
}

func TestTransactionRepository_FindByFilter(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewTransactionRepository(db)

	owner := uuid.New()
	cardA := uuid.New()
	cardB := uuid.New()

	day := func(d int) time.Time { return time.Date(2026, time.March, d, 15, 0, 0, 0, time.UTC) }
	seed := []*entity.Transaction{
		entity.NewTransaction(owner, cardA, day(3), decimal.RequireFromString("10.10"), "coffee", "food", ""),
		entity.NewTransaction(owner, cardA, day(1), decimal.RequireFromString("20.20"), "books", "education", ""),
		entity.NewTransaction(owner, cardB, day(2), decimal.RequireFromString("30.30"), "fuel", "transport", ""),
		entity.NewTransaction(uuid.New(), cardA, day(2), decimal.RequireFromString("99.99"), "foreign", "", ""),
	}
	for _, txn := range seed {
		if err := repo.Create(ctx, txn); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	start := day(2).Add(-time.Hour)
	end := day(3).Add(time.Hour)

	tests := []struct {
		name   string
		filter adapter.TransactionFilter
		want   []string
	}{
		{"owner only", adapter.TransactionFilter{OwnerID: owner}, []string{"books", "fuel", "coffee"}},
		{"by card", adapter.TransactionFilter{OwnerID: owner, CardID: &cardA}, []string{"books", "coffee"}},
		{"by date range", adapter.TransactionFilter{OwnerID: owner, StartDate: &start, EndDate: &end}, []string{"fuel", "coffee"}},
		{"card and range", adapter.TransactionFilter{OwnerID: owner, CardID: &cardB, EndDate: &start}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindByFilter(ctx, tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d transactions, got %d", len(tt.want), len(got))
			}
			for i, desc := range tt.want {
				if got[i].Description != desc {
					t.Errorf("position %d: expected %s, got %s", i, desc, got[i].Description)
				}
			}
		})
	}
}

func TestTransactionRepository_PreservesInstantAndAmount(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(newTestDB(t))

	brt := time.FixedZone("BRT", -3*60*60)
	date := time.Date(2026, time.January, 19, 23, 30, 0, 0, brt)
	txn := entity.NewTransaction(uuid.New(), uuid.New(), date, decimal.RequireFromString("1234.56"), "tv", "", "")
	current, total := 2, 10
	txn.SetInstallment(&current, &total)

	if err := repo.Create(ctx, txn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := repo.FindByID(ctx, txn.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found.Date.Equal(date) {
		t.Errorf("expected instant %s, got %s", date, found.Date)
	}
	if !found.Amount.Equal(decimal.RequireFromString("1234.56")) {
		t.Errorf("expected amount 1234.56, got %s", found.Amount)
	}
	if found.InstallmentCurrent == nil || *found.InstallmentCurrent != 2 || found.InstallmentTotal == nil || *found.InstallmentTotal != 10 {
		t.Errorf("expected installment 2/10, got %v/%v", found.InstallmentCurrent, found.InstallmentTotal)
	}
}

func TestTransactionRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(newTestDB(t))

	cardID := uuid.New()
	txn := entity.NewTransaction(uuid.New(), cardID, time.Now().UTC(), decimal.NewFromInt(10), "old", "", "")
	if err := repo.Create(ctx, txn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	txn.Description = "new"
	txn.Amount = decimal.NewFromInt(15)
	if err := repo.Update(ctx, txn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := repo.FindByID(ctx, txn.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Description != "new" || !found.Amount.Equal(decimal.NewFromInt(15)) {
		t.Errorf("expected updated transaction, got %+v", found)
	}

	if err := repo.Delete(ctx, txn.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.FindByID(ctx, txn.ID); !errors.Is(err, domainerror.ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, txn.ID); !errors.Is(err, domainerror.ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound on second delete, got %v", err)
	}
}

func TestTransactionRepository_DeleteByCard(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(newTestDB(t))

	owner := uuid.New()
	cardID := uuid.New()
	keep := uuid.New()
	for i := 0; i < 3; i++ {
		if err := repo.Create(ctx, entity.NewTransaction(owner, cardID, time.Now().UTC(), decimal.NewFromInt(1), "", "", "")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := repo.Create(ctx, entity.NewTransaction(owner, keep, time.Now().UTC(), decimal.NewFromInt(1), "", "", "")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deleted, err := repo.DeleteByCard(ctx, cardID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 deleted, got %d", deleted)
	}

	remaining, err := repo.FindByFilter(ctx, adapter.TransactionFilter{OwnerID: owner})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(remaining) != 1 || remaining[0].CardID != keep {
		t.Errorf("expected only the other card's transaction to remain, got %d", len(remaining))
	}
}
