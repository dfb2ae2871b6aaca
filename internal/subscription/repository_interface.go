package subscription

import (
	"context"
	"time"
)

type Store interface {
	Insert(ctx context.Context, sub *Subscription) error
	Update(ctx context.Context, sub *Subscription) error
	Delete(ctx context.Context, gymID, id string) error
	FindByID(ctx context.Context, gymID, id string) (*Subscription, error)
	FindByMember(ctx context.Context, gymID, memberID string) ([]*Subscription, error)
	FindByMemberWindow(ctx context.Context, gymID, memberID string, filter ListFilter, now time.Time) ([]*Subscription, error)
	FindByGymAndStatusWindow(ctx context.Context, gymID string, statuses []Status, from, to time.Time) ([]*Subscription, error)
	CountByMember(ctx context.Context, gymID, memberID string) (int, error)
	UpdateStatus(ctx context.Context, gymID, id string, status Status) error
	FindExpiredUnnotified(ctx context.Context, now time.Time) ([]*Subscription, error)
	FindDueForReminder(ctx context.Context, from, to time.Time) ([]*Subscription, error)
	MarkExpired(ctx context.Context, id string) error
	MarkReminderSent(ctx context.Context, id string) error
}
