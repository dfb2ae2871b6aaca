package subscription

import (
	"time"

	"github.com/riowonder/SoloManager-Backend/internal/plan"
)

type Status string

const (
	StatusUpcoming Status = "Upcoming"
	StatusActive   Status = "Active"
	StatusExpired  Status = "Expired"
)

// Subscription is one paid membership period for a member. Status and
// DaysLeft are cached projections of the date pair and get reconciled on
// read paths and by the daily sweep; the dates are the source of truth.
type Subscription struct {
	ID           string    `db:"id" json:"id"`
	MemberID     string    `db:"member_id" json:"member_id"`
	GymID        string    `db:"gym_id" json:"gym_id"`
	Plan         plan.Plan `db:"plan" json:"plan"`
	Status       Status    `db:"status" json:"status"`
	Amount       float64   `db:"amount" json:"amount"`
	ExtraDays    int       `db:"extra_days" json:"extra_days"`
	StartDate    time.Time `db:"start_date" json:"start_date"`
	EndDate      time.Time `db:"end_date" json:"end_date"`
	DaysLeft     int       `db:"days_left" json:"days_left"`
	ReminderSent bool      `db:"reminder_sent" json:"reminder_sent"`
	MessageSent  bool      `db:"message_sent" json:"message_sent"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type AddSubscriptionRequest struct {
	Plan      string  `json:"plan" binding:"required"`
	Amount    float64 `json:"amount"`
	ExtraDays int     `json:"extra_days"`
	StartDate string  `json:"start_date" binding:"required"`
	EndDate   string  `json:"end_date,omitempty"`
}

type UpdateSubscriptionRequest struct {
	Plan      string  `json:"plan" binding:"required"`
	Amount    float64 `json:"amount"`
	ExtraDays int     `json:"extra_days"`
	StartDate string  `json:"start_date" binding:"required"`
}

// ListFilter selects which slice of a member's history a listing returns.
type ListFilter string

const (
	FilterAll      ListFilter = "all"
	FilterCurrent  ListFilter = "current"
	FilterExpired  ListFilter = "expired"
	FilterUpcoming ListFilter = "upcoming"
)
