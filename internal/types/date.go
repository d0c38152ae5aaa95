package types

import (
	"time"

	ierr "github.com/capsulebrew/capsulebrew/internal/errors"
)

// NextRenewalDate calculates the renewal date for a subscription starting at
// the given time. Monthly cycles add one month, annual cycles add one year.
// This uses clamped date arithmetic so a subscription started on Jan 31
// renews on Feb 28 (or 29), not Mar 3.
func NextRenewalDate(start time.Time, cycle BillingCycle) (time.Time, error) {
	switch cycle {
	case BillingCycleMonthly:
		return AddClampedDate(start, 0, 1, 0), nil
	case BillingCycleAnnual:
		return AddClampedDate(start, 1, 0, 0), nil
	default:
		return start, ierr.NewErrorf("invalid billing cycle: %s", cycle).
			WithHint("Billing cycle must be monthly or annual").
			Mark(ierr.ErrValidation)
	}
}

// CurrentMembershipPeriod returns the 1-year membership window anchored to
// the account's creation anniversary that contains asOf. The window is
// [start, end) with end exactly one anniversary year after start. Each
// candidate start is derived from the original creation date, not the
// previous window, so a Feb 29 anchor does not drift.
func CurrentMembershipPeriod(createdAt, asOf time.Time) (start, end time.Time) {
	createdAt = createdAt.UTC()
	asOf = asOf.UTC()

	years := 0
	start = createdAt
	for {
		next := AddClampedDate(createdAt, years+1, 0, 0)
		if next.After(asOf) {
			break
		}
		years++
		start = next
	}
	end = AddClampedDate(createdAt, years+1, 0, 0)
	return start, end
}

// AddClampedDate behaves like time.AddDate but clamps the day of month to
// the last valid day instead of rolling into the next month.
func AddClampedDate(t time.Time, years, months, days int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	newY := y + years
	newM := time.Month(int(m) + months)

	for newM > 12 {
		newM -= 12
		newY++
	}
	for newM < 1 {
		newM += 12
		newY--
	}

	// Find the last valid day of the target month
	firstOfNextMonth := time.Date(newY, newM+1, 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfNextMonth.Add(-24 * time.Hour).Day()

	newD := d + days
	if newD > lastDay {
		newD = lastDay
	}

	return time.Date(newY, newM, newD, h, min, sec, t.Nanosecond(), t.Location())
}
