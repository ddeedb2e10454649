package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/finance-tracker/card-invoices/internal/integration/entrypoint/dto"
)

func TestTransactionController_Create(t *testing.T) {
	s := newTestServer()

	body := fmt.Sprintf(`{"card_id":%q,"date":"2026-01-25","amount":"12.3","description":"Book"}`, s.card.ID)
	w := s.do(t, http.MethodPost, "/transactions", body)
	assertStatus(t, w, http.StatusCreated)

	got := decode[dto.TransactionResponse](t, w)
	if got.CycleID != "2026-02" {
		t.Errorf("expected cycle 2026-02, got %s", got.CycleID)
	}
	if got.Amount != "12.30" {
		t.Errorf("expected amount 12.30, got %s", got.Amount)
	}
	if s.txns.Len() != 5 {
		t.Errorf("expected 5 stored transactions, got %d", s.txns.Len())
	}
}

func TestTransactionController_CreateErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       func(cardID uuid.UUID) string
		user       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "invalid date",
			body:       func(id uuid.UUID) string { return fmt.Sprintf(`{"card_id":%q,"date":"25/01/2026","amount":"1"}`, id) },
			wantStatus: http.StatusBadRequest,
			wantCode:   "TXN-010002",
		},
		{
			name:       "negative amount",
			body:       func(id uuid.UUID) string { return fmt.Sprintf(`{"card_id":%q,"date":"2026-01-25","amount":"-1"}`, id) },
			wantStatus: http.StatusBadRequest,
			wantCode:   "TXN-010003",
		},
		{
			name:       "sub-cent amount",
			body:       func(id uuid.UUID) string { return fmt.Sprintf(`{"card_id":%q,"date":"2026-01-25","amount":"0.005"}`, id) },
			wantStatus: http.StatusBadRequest,
			wantCode:   "TXN-010003",
		},
		{
			name: "installment beyond total",
			body: func(id uuid.UUID) string {
				return fmt.Sprintf(`{"card_id":%q,"date":"2026-01-25","amount":"1","installment_current":3,"installment_total":2}`, id)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "TXN-010013",
		},
		{
			name: "unknown card",
			body: func(uuid.UUID) string {
				return fmt.Sprintf(`{"card_id":%q,"date":"2026-01-25","amount":"1"}`, uuid.New())
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "TXN-010006",
		},
		{
			name:       "card of another owner",
			body:       func(id uuid.UUID) string { return fmt.Sprintf(`{"card_id":%q,"date":"2026-01-25","amount":"1"}`, id) },
			user:       uuid.New().String(),
			wantStatus: http.StatusNotFound,
			wantCode:   "TXN-010006",
		},
		{
			name:       "missing card id",
			body:       func(uuid.UUID) string { return `{"date":"2026-01-25","amount":"1"}` },
			wantStatus: http.StatusBadRequest,
			wantCode:   "TXN-010010",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			var headers []string
			if tt.user != "" {
				headers = []string{"X-Test-User", tt.user}
			}
			w := s.do(t, http.MethodPost, "/transactions", tt.body(s.card.ID), headers...)
			assertStatus(t, w, tt.wantStatus)
			assertErrorCode(t, w, tt.wantCode)
			if s.txns.Len() != 4 {
				t.Errorf("expected no transaction to be stored, got %d", s.txns.Len())
			}
		})
	}
}

func TestTransactionController_List(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name      string
		query     string
		wantCount int
	}{
		{"all", "", 4},
		{"by card", "?card_id=" + s.card.ID.String(), 4},
		{"january inclusive end date", "?start_date=2026-01-01&end_date=2026-01-25", 2},
		{"from february", "?start_date=2026-02-01", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/transactions"+tt.query, "")
			assertStatus(t, w, http.StatusOK)
			if got := decode[dto.TransactionListResponse](t, w); len(got.Transactions) != tt.wantCount {
				t.Errorf("expected %d transactions, got %d", tt.wantCount, len(got.Transactions))
			}
		})
	}

	t.Run("start after end", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/transactions?start_date=2026-03-01&end_date=2026-01-01", "")
		assertStatus(t, w, http.StatusBadRequest)
		assertErrorCode(t, w, "TXN-010002")
	})

	t.Run("other owner sees nothing", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/transactions", "", "X-Test-User", uuid.New().String())
		assertStatus(t, w, http.StatusOK)
		if got := decode[dto.TransactionListResponse](t, w); len(got.Transactions) != 0 {
			t.Errorf("expected no transactions, got %d", len(got.Transactions))
		}
	})
}

func TestTransactionController_UpdateAndDelete(t *testing.T) {
	s := newTestServer()

	w := s.do(t, http.MethodPost, "/transactions", fmt.Sprintf(`{"card_id":%q,"date":"2026-01-10","amount":"8"}`, s.card.ID))
	assertStatus(t, w, http.StatusCreated)
	created := decode[dto.TransactionResponse](t, w)
	if created.CycleID != "2026-01" {
		t.Fatalf("expected cycle 2026-01, got %s", created.CycleID)
	}

	path := "/transactions/" + created.ID
	w = s.do(t, http.MethodPatch, path, `{"date":"2026-01-20","amount":9.5}`)
	assertStatus(t, w, http.StatusOK)
	updated := decode[dto.TransactionResponse](t, w)
	if updated.CycleID != "2026-02" {
		t.Errorf("expected moved to cycle 2026-02, got %s", updated.CycleID)
	}
	if updated.Amount != "9.50" {
		t.Errorf("expected amount 9.50, got %s", updated.Amount)
	}

	w = s.do(t, http.MethodPatch, path, `{"amount":"1"}`, "X-Test-User", uuid.New().String())
	assertStatus(t, w, http.StatusForbidden)

	w = s.do(t, http.MethodDelete, path, "")
	assertStatus(t, w, http.StatusNoContent)

	w = s.do(t, http.MethodDelete, path, "")
	assertStatus(t, w, http.StatusNotFound)
	assertErrorCode(t, w, "TXN-010004")
}
