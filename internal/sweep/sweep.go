package sweep

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/riowonder/SoloManager-Backend/internal/dates"
	"github.com/riowonder/SoloManager-Backend/internal/logger"
	"github.com/riowonder/SoloManager-Backend/internal/metrics"
	"github.com/riowonder/SoloManager-Backend/internal/notify"
	"github.com/riowonder/SoloManager-Backend/internal/subscription"
)

// Store is the slice of the subscription store the sweep needs.
type Store interface {
	FindExpiredUnnotified(ctx context.Context, now time.Time) ([]*subscription.Subscription, error)
	FindDueForReminder(ctx context.Context, from, to time.Time) ([]*subscription.Subscription, error)
	MarkExpired(ctx context.Context, id string) error
	MarkReminderSent(ctx context.Context, id string) error
}

// Sweeper runs the daily subscription reconciliation: notify members whose
// subscription just lapsed and remind those expiring in two days. Both
// passes are idempotent — the message_sent/reminder_sent flags gate every
// dispatch, so re-running inside the same day sends nothing twice.
type Sweeper struct {
	store   Store
	gateway notify.Gateway
}

func New(store Store, gateway notify.Gateway) *Sweeper {
	return &Sweeper{store: store, gateway: gateway}
}

// Schedule registers the sweep on a cron scheduler and starts it. The
// expression is expected to fire once a day; the exact time is deployment
// configuration.
func (s *Sweeper) Schedule(cronExpr string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(cronExpr, func() {
		s.Run(context.Background(), time.Now())
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	logger.Infof("Subscription sweep scheduled (%s)", cronExpr)
	return c, nil
}

// Run executes both passes once. A failure on one subscription is logged
// and skipped; only a store-level failure (the candidate query itself)
// aborts a pass. Crashing mid-batch is safe: processed rows carry their
// flags, unprocessed ones are picked up on the next run.
func (s *Sweeper) Run(ctx context.Context, now time.Time) {
	metrics.RecordSweepRun()

	expired := s.runExpiryPass(ctx, now)
	reminded := s.runReminderPass(ctx, now)

	logger.Infof("Sweep complete: %d expiry notices, %d reminders", expired, reminded)
}

func (s *Sweeper) runExpiryPass(ctx context.Context, now time.Time) int {
	subs, err := s.store.FindExpiredUnnotified(ctx, now)
	if err != nil {
		logger.Errorf("Expiry pass aborted, store unavailable: %v", err)
		return 0
	}

	sent := 0
	for _, sub := range subs {
		err := s.gateway.SendExpiryNotice(ctx, sub.MemberID, sub.Plan, sub.ExtraDays, sub.EndDate, sub.GymID)
		if err != nil {
			metrics.RecordSweepItemError("expiry")
			logger.Errorf("Expiry notice failed for subscription %s (member %s): %v", sub.ID, sub.MemberID, err)
			continue
		}

		// Flags are latched only after a successful dispatch, so a failed
		// send is retried on the next run.
		if err := s.store.MarkExpired(ctx, sub.ID); err != nil {
			metrics.RecordSweepItemError("expiry")
			logger.Errorf("Failed to mark subscription %s expired (member %s): %v", sub.ID, sub.MemberID, err)
			continue
		}
		sent++
	}
	return sent
}

func (s *Sweeper) runReminderPass(ctx context.Context, now time.Time) int {
	// The full calendar day exactly two days out.
	from, to := dates.DayWindow(now, 2)

	subs, err := s.store.FindDueForReminder(ctx, from, to)
	if err != nil {
		logger.Errorf("Reminder pass aborted, store unavailable: %v", err)
		return 0
	}

	sent := 0
	for _, sub := range subs {
		err := s.gateway.SendReminderNotice(ctx, sub.MemberID, sub.Plan, sub.ExtraDays, sub.EndDate, sub.GymID)
		if err != nil {
			metrics.RecordSweepItemError("reminder")
			logger.Errorf("Reminder failed for subscription %s (member %s): %v", sub.ID, sub.MemberID, err)
			continue
		}

		if err := s.store.MarkReminderSent(ctx, sub.ID); err != nil {
			metrics.RecordSweepItemError("reminder")
			logger.Errorf("Failed to mark reminder sent for subscription %s (member %s): %v", sub.ID, sub.MemberID, err)
			continue
		}
		sent++
	}
	return sent
}
