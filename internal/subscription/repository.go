package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const columns = `id, member_id, gym_id, plan, status, amount, extra_days,
	start_date, end_date, days_left, reminder_sent, message_sent, created_at, updated_at`

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, sub *Subscription) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO subscriptions (id, member_id, gym_id, plan, status, amount, extra_days,
			start_date, end_date, days_left, reminder_sent, message_sent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false, false)
		RETURNING `+columns+`
	`, sub.ID, sub.MemberID, sub.GymID, sub.Plan, sub.Status, sub.Amount, sub.ExtraDays,
		sub.StartDate, sub.EndDate, sub.DaysLeft).StructScan(sub)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, sub *Subscription) error {
	err := r.db.QueryRowxContext(ctx, `
		UPDATE subscriptions
		SET plan = $1, amount = $2, extra_days = $3, start_date = $4, end_date = $5,
		    status = $6, days_left = $7, updated_at = NOW()
		WHERE id = $8 AND gym_id = $9
		RETURNING `+columns+`
	`, sub.Plan, sub.Amount, sub.ExtraDays, sub.StartDate, sub.EndDate,
		sub.Status, sub.DaysLeft, sub.ID, sub.GymID).StructScan(sub)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, gymID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM subscriptions WHERE id = $1 AND gym_id = $2
	`, id, gymID)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, gymID, id string) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `
		SELECT `+columns+`
		FROM subscriptions
		WHERE id = $1 AND gym_id = $2
	`, id, gymID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	return sub, nil
}

// FindByMember returns a member's full subscription history, newest period
// first.
func (r *Repository) FindByMember(ctx context.Context, gymID, memberID string) ([]*Subscription, error) {
	subs := []*Subscription{}
	err := r.db.SelectContext(ctx, &subs, `
		SELECT `+columns+`
		FROM subscriptions
		WHERE member_id = $1 AND gym_id = $2
		ORDER BY start_date DESC
	`, memberID, gymID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

// FindByMemberWindow narrows a member's history to the expired, current or
// upcoming slice relative to now. FilterAll returns everything.
func (r *Repository) FindByMemberWindow(ctx context.Context, gymID, memberID string, filter ListFilter, now time.Time) ([]*Subscription, error) {
	query := `
		SELECT ` + columns + `
		FROM subscriptions
		WHERE member_id = $1 AND gym_id = $2`
	args := []interface{}{memberID, gymID}

	switch filter {
	case FilterExpired:
		query += ` AND end_date < $3`
		args = append(args, now)
	case FilterCurrent:
		query += ` AND start_date <= $3 AND end_date >= $3`
		args = append(args, now)
	case FilterUpcoming:
		query += ` AND start_date > $3`
		args = append(args, now)
	}
	query += ` ORDER BY start_date DESC`

	subs := []*Subscription{}
	if err := r.db.SelectContext(ctx, &subs, query, args...); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

// FindByGymAndStatusWindow lists a gym's subscriptions carrying any of the
// given cached statuses whose end dates fall inside [from, to].
func (r *Repository) FindByGymAndStatusWindow(ctx context.Context, gymID string, statuses []Status, from, to time.Time) ([]*Subscription, error) {
	query, args, err := sqlx.In(`
		SELECT `+columns+`
		FROM subscriptions
		WHERE gym_id = ? AND status IN (?) AND end_date BETWEEN ? AND ?
		ORDER BY end_date ASC
	`, gymID, statuses, from, to)
	if err != nil {
		return nil, fmt.Errorf("build status window query: %w", err)
	}

	subs := []*Subscription{}
	if err := r.db.SelectContext(ctx, &subs, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list subscriptions by window: %w", err)
	}
	return subs, nil
}

func (r *Repository) CountByMember(ctx context.Context, gymID, memberID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM subscriptions WHERE member_id = $1 AND gym_id = $2
	`, memberID, gymID)
	if err != nil {
		return 0, fmt.Errorf("count subscriptions: %w", err)
	}
	return count, nil
}

// UpdateStatus persists a reconciled status. Read paths call this only when
// the derived status actually differs from the cached one.
func (r *Repository) UpdateStatus(ctx context.Context, gymID, id string, status Status) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions SET status = $1, updated_at = NOW()
		WHERE id = $2 AND gym_id = $3
	`, status, id, gymID)
	if err != nil {
		return fmt.Errorf("update subscription status: %w", err)
	}
	return nil
}

// FindExpiredUnnotified selects sweep candidates for the expiry pass:
// still marked Active, already past their end date, expiry notice not yet
// sent. The scan crosses tenants; each row keeps its own gym_id.
func (r *Repository) FindExpiredUnnotified(ctx context.Context, now time.Time) ([]*Subscription, error) {
	subs := []*Subscription{}
	err := r.db.SelectContext(ctx, &subs, `
		SELECT `+columns+`
		FROM subscriptions
		WHERE status = 'Active' AND end_date <= $1 AND message_sent = false
	`, now)
	if err != nil {
		return nil, fmt.Errorf("find expired subscriptions: %w", err)
	}
	return subs, nil
}

// FindDueForReminder selects sweep candidates for the reminder pass:
// Active subscriptions ending inside the given day window that have not
// been reminded yet.
func (r *Repository) FindDueForReminder(ctx context.Context, from, to time.Time) ([]*Subscription, error) {
	subs := []*Subscription{}
	err := r.db.SelectContext(ctx, &subs, `
		SELECT `+columns+`
		FROM subscriptions
		WHERE status = 'Active' AND end_date BETWEEN $1 AND $2 AND reminder_sent = false
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("find reminder subscriptions: %w", err)
	}
	return subs, nil
}

// MarkExpired records a successful expiry dispatch: the subscription flips
// to Expired and message_sent latches true so the sweep never sends twice.
func (r *Repository) MarkExpired(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET status = 'Expired', message_sent = true, updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("mark subscription expired: %w", err)
	}
	return nil
}

// MarkReminderSent latches reminder_sent after a successful dispatch.
func (r *Repository) MarkReminderSent(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET reminder_sent = true, updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	return nil
}
