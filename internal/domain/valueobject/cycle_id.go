// Package valueobject contains domain value objects for the card invoice system.
package valueobject

import (
	"fmt"
	"regexp"
	"time"
)

// cycleIDLayout is the persisted "YYYY-MM" format of a cycle identifier.
const cycleIDLayout = "2006-01"

var cycleIDRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// CycleID identifies an invoice cycle by the year and month of its reference date.
// Paid-state membership is matched on the exact string, so the format never varies.
type CycleID string

// NewCycleID builds the identifier for the given reference year and month.
func NewCycleID(year int, month time.Month) CycleID {
	return CycleID(fmt.Sprintf("%04d-%02d", year, int(month)))
}

// ParseCycleID validates a "YYYY-MM" string.
func ParseCycleID(s string) (CycleID, error) {
	if !cycleIDRegex.MatchString(s) {
		return "", fmt.Errorf("cycle id %q must be in YYYY-MM format", s)
	}
	return CycleID(s), nil
}

// String returns the persisted representation.
func (c CycleID) String() string {
	return string(c)
}

// YearMonth returns the year and month encoded in the identifier.
func (c CycleID) YearMonth() (int, time.Month, error) {
	t, err := time.Parse(cycleIDLayout, string(c))
	if err != nil {
		return 0, 0, err
	}
	return t.Year(), t.Month(), nil
}
