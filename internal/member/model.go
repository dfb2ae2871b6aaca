package member

import (
	"time"

	"github.com/riowonder/SoloManager-Backend/internal/subscription"
)

// Member is one person on a gym's roster. RollNo is the gym's own member
// number, unique per tenant.
type Member struct {
	ID          string    `db:"id" json:"id"`
	GymID       string    `db:"gym_id" json:"gym_id"`
	RollNo      string    `db:"roll_no" json:"roll_no"`
	Name        string    `db:"name" json:"name"`
	PhoneNumber string    `db:"phone_number" json:"phone_number"`
	Height      *float64  `db:"height" json:"height,omitempty"`
	Weight      *float64  `db:"weight" json:"weight,omitempty"`
	Age         *int      `db:"age" json:"age,omitempty"`
	Gender      string    `db:"gender" json:"gender"`
	Address     string    `db:"address" json:"address"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type AddMemberRequest struct {
	RollNo      string   `json:"roll_no" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	PhoneNumber string   `json:"phone_number"`
	Height      *float64 `json:"height"`
	Weight      *float64 `json:"weight"`
	Age         *int     `json:"age"`
	Gender      string   `json:"gender"`
	Address     string   `json:"address"`
}

type UpdateMemberRequest struct {
	RollNo      string   `json:"roll_no"`
	Name        string   `json:"name"`
	PhoneNumber string   `json:"phone_number"`
	Height      *float64 `json:"height"`
	Weight      *float64 `json:"weight"`
	Age         *int     `json:"age"`
	Gender      string   `json:"gender"`
	Address     string   `json:"address"`
}

// RosterEntry is a member decorated with subscription state for list and
// search views: the running subscription (if any), its plan, and a
// human-readable days-left figure.
type RosterEntry struct {
	Member
	Subscriptions      []*subscription.Subscription `json:"subscriptions"`
	ActiveSubscription *subscription.Subscription   `json:"active_subscription,omitempty"`
	SubscriptionPlan   string                       `json:"subscription_plan,omitempty"`
	DaysLeft           *int                         `json:"days_left,omitempty"`
	DaysLeftDisplay    string                       `json:"days_left_display"`
	HasUpcoming        bool                         `json:"has_upcoming"`
}

// StatusFilter narrows roster listings by subscription state.
type StatusFilter string

const (
	FilterAll      StatusFilter = "all"
	FilterActive   StatusFilter = "active"
	FilterInactive StatusFilter = "inactive"
)
