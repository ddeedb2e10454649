// Package invoice resolves which statement cycle a card transaction belongs to
// and aggregates transactions into per-cycle invoice summaries.
//
// Credit cycles are evaluated on UTC calendar fields of the transaction instant,
// debit cycles and reference dates on the configured local calendar. The two
// conventions differ on purpose and must not be unified here.
package invoice

import (
	"fmt"
	"time"

	"github.com/finance-tracker/card-invoices/internal/domain/entity"
	domainerror "github.com/finance-tracker/card-invoices/internal/domain/error"
	"github.com/finance-tracker/card-invoices/internal/domain/valueobject"
)

// Cycle identifies the statement period a transaction falls into.
type Cycle struct {
	ID            valueobject.CycleID
	ReferenceDate time.Time // Due date for credit, first of month for debit
}

// ResolveCycle maps a transaction date to its cycle for the given card configuration.
// loc is the local calendar used for debit months and reference dates; nil means time.Local.
func ResolveCycle(date time.Time, cardType entity.CardType, billingAnchorDay int, loc *time.Location) (Cycle, error) {
	if date.IsZero() {
		return Cycle{}, domainerror.ErrInvalidDate
	}
	if loc == nil {
		loc = time.Local
	}

	switch cardType {
	case entity.CardTypeDebit:
		return resolveDebitCycle(date, loc), nil
	case entity.CardTypeCredit:
		if billingAnchorDay < entity.MinBillingAnchorDay || billingAnchorDay > entity.MaxBillingAnchorDay {
			return Cycle{}, fmt.Errorf("%w: billing anchor day %d outside %d-%d",
				domainerror.ErrInvalidCardConfiguration, billingAnchorDay,
				entity.MinBillingAnchorDay, entity.MaxBillingAnchorDay)
		}
		return resolveCreditCycle(date, billingAnchorDay, loc), nil
	default:
		return Cycle{}, fmt.Errorf("%w: unknown card type %q", domainerror.ErrInvalidCardConfiguration, cardType)
	}
}

// resolveDebitCycle places the transaction in its own local calendar month.
func resolveDebitCycle(date time.Time, loc *time.Location) Cycle {
	local := date.In(loc)
	year, month := local.Year(), local.Month()

	return Cycle{
		ID:            valueobject.NewCycleID(year, month),
		ReferenceDate: time.Date(year, month, 1, 0, 0, 0, 0, loc),
	}
}

// resolveCreditCycle applies the rolling anchor window. The anchor day itself
// opens the next cycle, so a purchase on or after it rolls to next month's due date.
func resolveCreditCycle(date time.Time, anchorDay int, loc *time.Location) Cycle {
	utc := date.UTC()
	year, month, day := utc.Year(), utc.Month(), utc.Day()

	refYear, refMonth := year, month
	if day >= clampDay(year, month, anchorDay) {
		refMonth++
		if refMonth > time.December {
			refMonth = time.January
			refYear++
		}
	}

	return Cycle{
		ID:            valueobject.NewCycleID(refYear, refMonth),
		ReferenceDate: time.Date(refYear, refMonth, clampDay(refYear, refMonth, anchorDay), 0, 0, 0, 0, loc),
	}
}

// clampDay caps an anchor day at the last day of the given month.
func clampDay(year int, month time.Month, day int) int {
	if last := daysIn(year, month); day > last {
		return last
	}
	return day
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
