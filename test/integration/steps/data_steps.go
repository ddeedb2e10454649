//go:build integration

package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/card-invoices/internal/integration/adapters"
	"github.com/finance-tracker/card-invoices/internal/integration/persistence/model"
)

// registerDataSteps registers fixture, clock, database and event steps.
func registerDataSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^I am authenticated as "([^"]*)"$`, iAmAuthenticatedAs)
	ctx.Step(`^I am not authenticated$`, iAmNotAuthenticated)
	ctx.Step(`^I am authenticated with an expired token$`, iAmAuthenticatedWithAnExpiredToken)
	ctx.Step(`^today is "([^"]*)"$`, todayIs)
	ctx.Step(`^"([^"]*)" has a credit card "([^"]*)" with billing anchor day (\d+)$`, userHasACreditCard)
	ctx.Step(`^"([^"]*)" has a debit card "([^"]*)"$`, userHasADebitCard)
	ctx.Step(`^the card "([^"]*)" has a transaction of "([^"]*)" on "([^"]*)"$`, theCardHasATransaction)
	ctx.Step(`^the cycle "([^"]*)" of card "([^"]*)" is marked paid$`, theCycleIsMarkedPaid)
	ctx.Step(`^the db should contain (\d+) objects? in "([^"]*)"$`, theDBShouldContain)
	ctx.Step(`^the db should contain (\d+) objects? in "([^"]*)" with the values:$`, theDBShouldContainWithValues)
	ctx.Step(`^(\d+) paid cycle events? should have been published$`, paidCycleEventsShouldHaveBeenPublished)
	ctx.Step(`^the last paid cycle event should mark "([^"]*)" of card "([^"]*)" as (paid|unpaid)$`, theLastPaidCycleEventShouldMark)
}

func iAmAuthenticatedAs(ctx context.Context, name string) (context.Context, error) {
	return authenticate(ctx, name, time.Hour)
}

func iAmAuthenticatedWithAnExpiredToken(ctx context.Context) (context.Context, error) {
	return authenticate(ctx, "expired", -time.Hour)
}

func authenticate(ctx context.Context, name string, duration time.Duration) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	token, err := adapters.SignAccessToken(testJWTSecret, tc.userID(name), name+"@example.com", duration)
	if err != nil {
		return ctx, fmt.Errorf("failed to sign token: %w", err)
	}
	tc.accessToken = token
	return SetTestContext(ctx, tc), nil
}

func iAmNotAuthenticated(ctx context.Context) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	tc.accessToken = ""
	return SetTestContext(ctx, tc), nil
}

func todayIs(ctx context.Context, value string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	today, err := parseFixtureDate(value)
	if err != nil {
		return err
	}
	tc.clock.SetCurrentTime(today)
	return nil
}

func userHasACreditCard(ctx context.Context, owner, name string, anchor int) error {
	return seedCard(ctx, owner, name, "credit", anchor)
}

func userHasADebitCard(ctx context.Context, owner, name string) error {
	return seedCard(ctx, owner, name, "debit", 0)
}

func seedCard(ctx context.Context, owner, name, cardType string, anchor int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	card := &model.CardModel{
		ID:               uuid.New(),
		OwnerID:          tc.userID(owner),
		Name:             name,
		Type:             cardType,
		BillingAnchorDay: anchor,
		PaidCycles:       []string{},
	}
	if err := tc.db.DbConn.Create(card).Error; err != nil {
		return fmt.Errorf("failed to seed card %q: %w", name, err)
	}
	tc.cards[name] = card.ID
	return nil
}

func theCardHasATransaction(ctx context.Context, cardName, amount, date string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	card, err := tc.findCard(cardName)
	if err != nil {
		return err
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	at, err := parseFixtureDate(date)
	if err != nil {
		return err
	}

	txn := &model.TransactionModel{
		ID:          uuid.New(),
		OwnerID:     card.OwnerID,
		CardID:      card.ID,
		Date:        at,
		Amount:      value,
		Description: "seeded purchase",
	}
	if err := tc.db.DbConn.Create(txn).Error; err != nil {
		return fmt.Errorf("failed to seed transaction: %w", err)
	}
	return nil
}

func theCycleIsMarkedPaid(ctx context.Context, cycleID, cardName string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	card, err := tc.findCard(cardName)
	if err != nil {
		return err
	}
	card.PaidCycles = append(card.PaidCycles, cycleID)
	return tc.db.DbConn.Save(card).Error
}

func (tc *TestContext) findCard(name string) (*model.CardModel, error) {
	id, ok := tc.cards[name]
	if !ok {
		return nil, fmt.Errorf("unknown card %q", name)
	}

	var card model.CardModel
	if err := tc.db.DbConn.First(&card, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to load card %q: %w", name, err)
	}
	return &card, nil
}

func theDBShouldContain(ctx context.Context, count int, table string) error {
	return countRows(ctx, count, table, nil)
}

func theDBShouldContainWithValues(ctx context.Context, count int, table string, body *godog.DocString) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	content, err := tc.expand(body.Content)
	if err != nil {
		return err
	}

	var criteria map[string]interface{}
	if err := json.Unmarshal([]byte(content), &criteria); err != nil {
		return fmt.Errorf("failed to parse criteria: %w", err)
	}
	return countRows(ctx, count, table, criteria)
}

func countRows(ctx context.Context, expected int, table string, criteria map[string]interface{}) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	m, ok := tc.db.GetModel(table)
	if !ok {
		return fmt.Errorf("model for table %s not found", table)
	}

	query := tc.db.DbConn.Model(m)
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count %s: %w", table, err)
	}
	if int(count) != expected {
		return fmt.Errorf("expected %d rows in %s, found %d", expected, table, count)
	}
	return nil
}

func paidCycleEventsShouldHaveBeenPublished(ctx context.Context, count int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if got := len(tc.publisher.Events()); got != count {
		return fmt.Errorf("expected %d published events, got %d", count, got)
	}
	return nil
}

func theLastPaidCycleEventShouldMark(ctx context.Context, cycleID, cardName, state string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	events := tc.publisher.Events()
	if len(events) == 0 {
		return fmt.Errorf("no events were published")
	}
	last := events[len(events)-1]

	if last.CardID != tc.cards[cardName] {
		return fmt.Errorf("event card %s does not match %q", last.CardID, cardName)
	}
	if last.CycleID.String() != cycleID {
		return fmt.Errorf("event cycle expected %s, got %s", cycleID, last.CycleID)
	}
	if last.IsPaid != (state == "paid") {
		return fmt.Errorf("event expected %s, got isPaid=%t", state, last.IsPaid)
	}
	return nil
}

// parseFixtureDate reads YYYY-MM-DD as noon UTC, or a full RFC 3339 timestamp.
func parseFixtureDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.Add(12 * time.Hour), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return t.UTC(), nil
}
