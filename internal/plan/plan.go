package plan

import (
	"errors"
	"strconv"
)

type Plan string

const (
	OneMonth   Plan = "1 Month"
	ThreeMonth Plan = "3 Months"
	SixMonth   Plan = "6 Months"
	OneYear    Plan = "1 Year"
	Custom     Plan = "Custom"
)

var (
	ErrUnknownPlan = errors.New("unknown subscription plan")
	// ErrInvalidPlanDuration is returned when a Custom plan carries no
	// positive extra days, leaving it with zero total duration.
	ErrInvalidPlanDuration = errors.New("for Custom plan, extra_days must be a positive number")
)

var baseDays = map[Plan]int{
	OneMonth:   30,
	ThreeMonth: 90,
	SixMonth:   180,
	OneYear:    365,
	Custom:     0,
}

// Known reports whether p is one of the supported plans.
func Known(p Plan) bool {
	_, ok := baseDays[p]
	return ok
}

// DurationDays returns the base duration of a plan in days.
// Custom and unrecognized plans have no base duration.
func DurationDays(p Plan) int {
	return baseDays[p]
}

// TotalDuration returns the full duration of a subscription in days.
// For Custom plans the extra days are the entire duration rather than an
// addition to a base.
func TotalDuration(p Plan, extraDays int) int {
	if p == Custom {
		return extraDays
	}
	return DurationDays(p) + extraDays
}

// Validate checks plan/extra-days combinations before anything is persisted.
func Validate(p Plan, extraDays int) error {
	if !Known(p) {
		return ErrUnknownPlan
	}
	if extraDays < 0 {
		return ErrInvalidPlanDuration
	}
	if p == Custom && extraDays <= 0 {
		return ErrInvalidPlanDuration
	}
	return nil
}

// Label is the human-readable plan name used in notification templates.
// Custom plans surface their day count since the name alone says nothing.
func Label(p Plan, extraDays int) string {
	if p == Custom {
		return "Custom + " + strconv.Itoa(extraDays) + " days"
	}
	return string(p)
}
