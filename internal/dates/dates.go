package dates

import "time"

const day = 24 * time.Hour

// Normalize truncates a timestamp to midnight in its own location.
// All subscription date comparisons operate on normalized dates.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of whole days from a to b after
// normalization. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(Normalize(b).Sub(Normalize(a)) / day)
}

// CeilDaysUntil returns the days remaining until end, rounding up from
// today's midnight. It goes negative once end has passed, which call sites
// use to show how overdue a subscription is. Kept separate from the
// floor-based elapsed-day count in the lifecycle package: the two round
// differently near boundaries and serve different consumers.
func CeilDaysUntil(end, today time.Time) int {
	diff := Normalize(end).Sub(Normalize(today))
	days := diff / day
	if diff%day > 0 {
		days++
	}
	return int(days)
}

// AddDays returns t shifted by n calendar days, preserving time of day.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Normalize(a).Equal(Normalize(b))
}

// DayWindow returns the inclusive [start, end] bounds of the calendar day
// n days after t: midnight and 23:59:59 of that day.
func DayWindow(t time.Time, n int) (time.Time, time.Time) {
	start := Normalize(t).AddDate(0, 0, n)
	end := start.Add(day - time.Second)
	return start, end
}
