package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDurationDays(t *testing.T) {
	assert.Equal(t, 30, DurationDays(OneMonth))
	assert.Equal(t, 90, DurationDays(ThreeMonth))
	assert.Equal(t, 180, DurationDays(SixMonth))
	assert.Equal(t, 365, DurationDays(OneYear))
	assert.Equal(t, 0, DurationDays(Custom))
	assert.Equal(t, 0, DurationDays(Plan("2 Weeks")))
}

func TestTotalDuration(t *testing.T) {
	assert.Equal(t, 30, TotalDuration(OneMonth, 0))
	assert.Equal(t, 35, TotalDuration(OneMonth, 5))
	assert.Equal(t, 365, TotalDuration(OneYear, 0))

	// Custom: extra days are the whole duration, not an addition to zero base.
	assert.Equal(t, 10, TotalDuration(Custom, 10))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(OneMonth, 0))
	assert.NoError(t, Validate(ThreeMonth, 7))
	assert.NoError(t, Validate(Custom, 1))

	assert.ErrorIs(t, Validate(Custom, 0), ErrInvalidPlanDuration)
	assert.ErrorIs(t, Validate(Custom, -3), ErrInvalidPlanDuration)
	assert.ErrorIs(t, Validate(OneMonth, -1), ErrInvalidPlanDuration)
	assert.ErrorIs(t, Validate(Plan("Weekly"), 0), ErrUnknownPlan)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "1 Month", Label(OneMonth, 0))
	assert.Equal(t, "1 Month", Label(OneMonth, 5))
	assert.Equal(t, "Custom + 15 days", Label(Custom, 15))
}

func TestKnown(t *testing.T) {
	assert.True(t, Known(Custom))
	assert.True(t, Known(SixMonth))
	assert.False(t, Known(Plan("custom")))
}
