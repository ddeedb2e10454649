//go:build integration

// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/card-invoices/config"
	"github.com/finance-tracker/card-invoices/internal/application/adapter/adaptertest"
	"github.com/finance-tracker/card-invoices/internal/infra/dependency"
	"github.com/finance-tracker/card-invoices/internal/integration/persistence/model"
	"github.com/finance-tracker/card-invoices/test/integration/mock"
)

const testJWTSecret = "integration-test-secret"

// suite holds resources shared by every scenario.
type suite struct {
	server    *httptest.Server
	db        *mock.Db
	clock     *mock.Time
	publisher *adaptertest.EventPublisher
}

var (
	shared     *suite
	sharedOnce sync.Once
	sharedErr  error
)

// TestContext holds the test state for each scenario.
type TestContext struct {
	*suite

	// HTTP
	response     *http.Response
	responseBody []byte

	// Request building
	requestHeaders map[string]string
	accessToken    string

	// Named fixtures
	users  map[string]uuid.UUID
	cards  map[string]uuid.UUID
	lastID string
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

func startSuite() (*suite, error) {
	sharedOnce.Do(func() {
		cfg := config.Load()
		cfg.Server.Environment = "test"
		cfg.JWT.Secret = testJWTSecret
		cfg.Invoice.Timezone = "UTC"
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.UseRedis = true
		cfg.RateLimit.MaxRequests = 100000
		cfg.RateLimit.Window = time.Minute

		db := mock.NewDb("card_invoices", map[string]any{
			"cards":        &model.CardModel{},
			"transactions": &model.TransactionModel{},
		})
		clock := mock.NewTime()
		publisher := &adaptertest.EventPublisher{}

		injector, err := dependency.NewInjector(cfg, db.DbConn, dependency.Infra{
			Redis:     mock.NewRedis(),
			Publisher: publisher,
			Now:       clock.Now,
		})
		if err != nil {
			sharedErr = fmt.Errorf("failed to build injector: %w", err)
			return
		}

		shared = &suite{
			server:    httptest.NewServer(injector.Router.Setup(cfg.Server.Environment)),
			db:        db,
			clock:     clock,
			publisher: publisher,
		}
	})
	return shared, sharedErr
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})

	ctx.AfterSuite(func() {
		if shared != nil {
			shared.server.Close()
		}
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		s, err := startSuite()
		if err != nil {
			return ctx, err
		}

		if err := s.db.ClearDB(); err != nil {
			return ctx, err
		}
		if err := mock.ClearRedis(mock.NewRedis()); err != nil {
			return ctx, err
		}
		s.clock.Reset()
		s.publisher.Reset()

		tc := &TestContext{
			suite:          s,
			requestHeaders: make(map[string]string),
			users:          make(map[string]uuid.UUID),
			cards:          make(map[string]uuid.UUID),
		}
		return SetTestContext(ctx, tc), nil
	})

	registerAPISteps(ctx)
	registerResponseSteps(ctx)
	registerDataSteps(ctx)
}

var placeholderPattern = regexp.MustCompile(`\{\{(card|user):([^}]+)\}\}|\{\{last_id\}\}`)

// expand substitutes {{card:Name}}, {{user:name}} and {{last_id}} placeholders.
func (tc *TestContext) expand(value string) (string, error) {
	var missing error
	out := placeholderPattern.ReplaceAllStringFunc(value, func(match string) string {
		parts := placeholderPattern.FindStringSubmatch(match)
		switch parts[1] {
		case "card":
			if id, ok := tc.cards[parts[2]]; ok {
				return id.String()
			}
			missing = fmt.Errorf("unknown card %q", parts[2])
		case "user":
			if id, ok := tc.users[parts[2]]; ok {
				return id.String()
			}
			missing = fmt.Errorf("unknown user %q", parts[2])
		default:
			if tc.lastID != "" {
				return tc.lastID
			}
			missing = fmt.Errorf("no id captured from a previous response")
		}
		return match
	})
	return out, missing
}

// userID returns the id of a named user, creating it on first use.
func (tc *TestContext) userID(name string) uuid.UUID {
	id, ok := tc.users[name]
	if !ok {
		id = uuid.New()
		tc.users[name] = id
	}
	return id
}
