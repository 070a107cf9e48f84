package subscription

import (
	"errors"
	"fmt"
	"time"
)

// DefaultWarnDays is how many days before expiry a vendor starts seeing a warning.
const DefaultWarnDays = 7

var ErrExpired = errors.New("subscription expired")

// Status classifies a subscription relative to today.
type Status int

const (
	StatusActive Status = iota
	StatusExpiringSoon
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusExpiringSoon:
		return "expiring soon"
	case StatusExpired:
		return "expired"
	}

	return "unknown"
}

// Verdict is the outcome of a single gate check.
type Verdict struct {
	Status   Status
	EndDate  time.Time
	DaysLeft int
}

// Blocked reports whether vendor operations must be refused.
func (v Verdict) Blocked() bool {
	return v.Status == StatusExpired
}

// Err returns ErrExpired for blocked verdicts.
func (v Verdict) Err() error {
	if v.Blocked() {
		return fmt.Errorf("%w on %s", ErrExpired, v.EndDate.Format(time.DateOnly))
	}

	return nil
}

// Warning is the non-blocking message shown to vendors close to expiry.
func (v Verdict) Warning() string {
	if v.Status != StatusExpiringSoon {
		return ""
	}

	return fmt.Sprintf("Your plan expires on %s", v.EndDate.Format("02-01-2006"))
}

// Gate compares subscription end dates to the current day.
// The zero value uses DefaultWarnDays and the wall clock.
type Gate struct {
	WarnDays int
	Now      func() time.Time
}

func NewGate(warnDays int) Gate {
	return Gate{WarnDays: warnDays}
}

// Check classifies the subscription ending on end. Access stops at the start of
// the end date; the warning covers the WarnDays days before it.
func (g Gate) Check(end time.Time) Verdict {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	warn := g.WarnDays
	if warn <= 0 {
		warn = DefaultWarnDays
	}

	days := DaysBetween(now(), end)

	v := Verdict{EndDate: end, DaysLeft: days}

	switch {
	case days <= 0:
		v.Status = StatusExpired
	case days <= warn:
		v.Status = StatusExpiringSoon
	default:
		v.Status = StatusActive
	}

	return v
}

// DaysBetween counts whole calendar days from the day of from to the day of to.
func DaysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)

	return int(b.Sub(a).Hours() / 24)
}
