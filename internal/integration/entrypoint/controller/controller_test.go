package controller

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/card-invoices/internal/application/adapter/adaptertest"
	"github.com/finance-tracker/card-invoices/internal/application/usecase/card"
	"github.com/finance-tracker/card-invoices/internal/application/usecase/invoice"
	"github.com/finance-tracker/card-invoices/internal/application/usecase/transaction"
	"github.com/finance-tracker/card-invoices/internal/domain/entity"
	invoicedomain "github.com/finance-tracker/card-invoices/internal/domain/invoice"
	"github.com/finance-tracker/card-invoices/internal/infra/locker"
	"github.com/finance-tracker/card-invoices/internal/integration/entrypoint/dto"
	"github.com/finance-tracker/card-invoices/internal/integration/entrypoint/middleware"
)

var fixedNow = time.Date(2026, time.February, 10, 9, 0, 0, 0, time.UTC)

type testServer struct {
	engine    *gin.Engine
	owner     uuid.UUID
	card      *entity.Card
	cards     *adaptertest.CardRepository
	txns      *adaptertest.TransactionRepository
	publisher *adaptertest.EventPublisher
}

// newTestServer wires the controllers over in-memory repositories seeded with
// one credit card (anchor 20) and four purchases. Requests run as owner unless
// the X-Test-User header names another user or is "none".
func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)

	owner := uuid.New()
	c := entity.NewCard(owner, "Visa", entity.CardTypeCredit, 20)
	day := func(m time.Month, d int) time.Time { return time.Date(2026, m, d, 12, 0, 0, 0, time.UTC) }

	s := &testServer{
		owner: owner,
		card:  c,
		cards: adaptertest.NewCardRepository(c),
		txns: adaptertest.NewTransactionRepository(
			entity.NewTransaction(owner, c.ID, day(time.January, 5), decimal.RequireFromString("100"), "Groceries", "", ""),
			entity.NewTransaction(owner, c.ID, day(time.January, 25), decimal.RequireFromString("40"), "Fuel", "", ""),
			entity.NewTransaction(owner, c.ID, day(time.February, 2), decimal.RequireFromString("10"), "Coffee", "", ""),
			entity.NewTransaction(owner, c.ID, day(time.February, 21), decimal.RequireFromString("5.50"), "Snack", "", ""),
		),
		publisher: &adaptertest.EventPublisher{},
	}

	aggregator := invoicedomain.NewAggregator(time.UTC, func() time.Time { return fixedNow })

	cardController := NewCardController(
		card.NewListCardsUseCase(s.cards),
		card.NewCreateCardUseCase(s.cards),
		card.NewGetCardUseCase(s.cards),
		card.NewUpdateCardUseCase(s.cards),
		card.NewDeleteCardUseCase(s.cards, s.txns),
	)
	transactionController := NewTransactionController(
		transaction.NewListTransactionsUseCase(s.txns),
		transaction.NewCreateTransactionUseCase(s.txns, s.cards, aggregator),
		transaction.NewUpdateTransactionUseCase(s.txns, s.cards, aggregator),
		transaction.NewDeleteTransactionUseCase(s.txns),
		time.UTC,
	)
	invoiceController := NewInvoiceController(
		invoice.NewListCardInvoicesUseCase(s.cards, s.txns, aggregator),
		invoice.NewTogglePaidCycleUseCase(s.cards, s.txns, s.publisher, locker.New(), aggregator),
		invoice.NewResolveCycleUseCase(s.cards, aggregator),
		invoice.NewListAllInvoicesUseCase(s.cards, s.txns, aggregator, 2),
		time.UTC,
	)

	engine := gin.New()
	engine.Use(func(ctx *gin.Context) {
		switch header := ctx.GetHeader("X-Test-User"); header {
		case "none":
		case "":
			ctx.Set(string(middleware.UserIDKey), owner)
		default:
			ctx.Set(string(middleware.UserIDKey), uuid.MustParse(header))
		}
		ctx.Next()
	})

	engine.GET("/cards", cardController.List)
	engine.POST("/cards", cardController.Create)
	engine.GET("/cards/:id", cardController.Get)
	engine.PATCH("/cards/:id", cardController.Update)
	engine.DELETE("/cards/:id", cardController.Delete)
	engine.GET("/cards/:id/invoices", invoiceController.ListForCard)
	engine.GET("/cards/:id/invoices/resolve", invoiceController.Resolve)
	engine.POST("/cards/:id/invoices/:cycle_id/toggle-paid", invoiceController.TogglePaid)
	engine.GET("/invoices", invoiceController.Overview)
	engine.GET("/transactions", transactionController.List)
	engine.POST("/transactions", transactionController.Create)
	engine.PATCH("/transactions/:id", transactionController.Update)
	engine.DELETE("/transactions/:id", transactionController.Delete)

	s.engine = engine
	return s
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, want string) {
	t.Helper()
	body := decode[dto.ErrorResponse](t, w)
	if body.Code != want {
		t.Errorf("expected error code %s, got %q (%s)", want, body.Code, body.Error)
	}
}
