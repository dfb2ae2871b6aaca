package finance

import "context"

type Store interface {
	RecordSubscriptionIncome(ctx context.Context, gymID, memberID, subscriptionID, planName string, amount float64) (*Record, error)
	UpdateForSubscription(ctx context.Context, gymID, subscriptionID, planName string, amount float64) error
	DeleteForSubscription(ctx context.Context, gymID, subscriptionID string) error
}
