package finance

import "time"

// Record is a single income entry. Subscription payments carry the owning
// subscription's id so later edits and deletes touch the right row instead
// of matching on amount heuristics.
type Record struct {
	ID             string    `db:"id" json:"id"`
	GymID          string    `db:"gym_id" json:"gym_id"`
	MemberID       string    `db:"member_id" json:"member_id"`
	SubscriptionID *string   `db:"subscription_id" json:"subscription_id,omitempty"`
	Type           string    `db:"type" json:"type"`
	Amount         float64   `db:"amount" json:"amount"`
	Description    string    `db:"description" json:"description"`
	Plan           string    `db:"plan" json:"plan"`
	Category       string    `db:"category" json:"category"`
	Date           time.Time `db:"date" json:"date"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

const (
	TypeIncome           = "income"
	CategorySubscription = "subscription"
)
