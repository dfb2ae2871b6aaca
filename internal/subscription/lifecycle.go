package subscription

import (
	"errors"
	"time"

	"github.com/riowonder/SoloManager-Backend/internal/dates"
	"github.com/riowonder/SoloManager-Backend/internal/plan"
)

var (
	ErrNotFound        = errors.New("subscription not found")
	ErrOverlapConflict = errors.New("overlapping active/upcoming subscription exists")
	ErrInvalidDate     = errors.New("invalid subscription date")
	ErrEndBeforeStart  = errors.New("end_date must not precede start_date")
)

// DeriveStatus classifies a subscription relative to today. Boundaries are
// inclusive: a subscription starting or ending today is Active. The three
// outcomes partition the timeline, so any start <= end maps to exactly one.
func DeriveStatus(start, end, today time.Time) Status {
	t := dates.Normalize(today)
	if dates.Normalize(start).After(t) {
		return StatusUpcoming
	}
	if dates.Normalize(end).Before(t) {
		return StatusExpired
	}
	return StatusActive
}

// ComputeEndDate derives the last covered day from the start date and the
// plan duration. Day counting is inclusive: a 1-day duration starts and
// ends on the same day, so a 30-day plan starting Jan 1 ends Jan 30.
func ComputeEndDate(p plan.Plan, extraDays int, start time.Time) time.Time {
	return dates.AddDays(dates.Normalize(start), plan.TotalDuration(p, extraDays)-1)
}

// DaysLeftFromStart estimates remaining days from first principles: total
// plan duration minus whole days elapsed since the start. It reports false
// when the subscription has no start date or has not begun, and clamps at
// zero once the duration is used up.
//
// This is the creation/update-time snapshot. Display paths use
// DaysLeftFromEnd instead; the two round differently near boundaries and
// are deliberately not interchangeable.
func DaysLeftFromStart(p plan.Plan, extraDays int, start, today time.Time) (int, bool) {
	if start.IsZero() {
		return 0, false
	}
	s := dates.Normalize(start)
	t := dates.Normalize(today)
	if s.After(t) {
		return 0, false
	}

	left := plan.TotalDuration(p, extraDays) - dates.DaysBetween(s, t)
	if left < 0 {
		left = 0
	}
	return left, true
}

// DaysLeftFromEnd counts days remaining straight from the recorded end
// date, rounding up. Unlike DaysLeftFromStart it goes negative after
// expiry, which the roster views use to show how overdue a member is.
func DaysLeftFromEnd(sub *Subscription, today time.Time) (int, bool) {
	if sub == nil || sub.EndDate.IsZero() {
		return 0, false
	}
	return dates.CeilDaysUntil(sub.EndDate, today), true
}

// ValidateOverlap rejects a candidate period that intersects any of the
// member's existing Active or Upcoming subscriptions. Intervals are closed
// on both ends: sharing a single day is a conflict. Expired history never
// blocks a new subscription.
func ValidateOverlap(candidateStart, candidateEnd time.Time, existing []*Subscription) error {
	cs := dates.Normalize(candidateStart)
	ce := dates.Normalize(candidateEnd)

	for _, sub := range existing {
		if sub.Status != StatusActive && sub.Status != StatusUpcoming {
			continue
		}
		es := dates.Normalize(sub.StartDate)
		ee := dates.Normalize(sub.EndDate)
		if !cs.After(ee) && !ce.Before(es) {
			return ErrOverlapConflict
		}
	}
	return nil
}
