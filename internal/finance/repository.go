package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/oklog/ulid/v2"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// RecordSubscriptionIncome writes the income row for a paid subscription.
func (r *Repository) RecordSubscriptionIncome(ctx context.Context, gymID, memberID, subscriptionID, planName string, amount float64) (*Record, error) {
	rec := &Record{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO finance_records (id, gym_id, member_id, subscription_id, type, amount, description, plan, category, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, gym_id, member_id, subscription_id, type, amount, description, plan, category, date, created_at, updated_at
	`, ulid.Make().String(), gymID, memberID, subscriptionID, TypeIncome, amount,
		fmt.Sprintf("Subscription payment for %s plan", planName), planName, CategorySubscription,
		time.Now()).StructScan(rec)
	if err != nil {
		return nil, fmt.Errorf("record subscription income: %w", err)
	}
	return rec, nil
}

// UpdateForSubscription syncs the linked income row after a subscription
// edit. Missing rows are not an error: zero-amount subscriptions never had
// one.
func (r *Repository) UpdateForSubscription(ctx context.Context, gymID, subscriptionID, planName string, amount float64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE finance_records
		SET amount = $1, plan = $2, description = $3, updated_at = NOW()
		WHERE subscription_id = $4 AND gym_id = $5 AND category = $6
	`, amount, planName, fmt.Sprintf("Subscription payment for %s plan", planName),
		subscriptionID, gymID, CategorySubscription)
	if err != nil {
		return fmt.Errorf("update finance record: %w", err)
	}
	return nil
}

// DeleteForSubscription removes the linked income row when a subscription
// is deleted.
func (r *Repository) DeleteForSubscription(ctx context.Context, gymID, subscriptionID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM finance_records
		WHERE subscription_id = $1 AND gym_id = $2 AND category = $3
	`, subscriptionID, gymID, CategorySubscription)
	if err != nil {
		return fmt.Errorf("delete finance record: %w", err)
	}
	return nil
}
