package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/riowonder/SoloManager-Backend/internal/dates"
	"github.com/riowonder/SoloManager-Backend/internal/finance"
	"github.com/riowonder/SoloManager-Backend/internal/logger"
	"github.com/riowonder/SoloManager-Backend/internal/metrics"
	"github.com/riowonder/SoloManager-Backend/internal/plan"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrInvalidAmount  = errors.New("amount must not be negative")
)

// MemberChecker is the slice of the member roster the lifecycle needs:
// existence within the tenant.
type MemberChecker interface {
	Exists(ctx context.Context, gymID, memberID string) (bool, error)
}

// UpdateOptions control per-call policy on Update. The overlap check runs
// only when explicitly enforced: edits historically trusted the caller, and
// keeping that as a flag makes a future tightening a one-line change.
type UpdateOptions struct {
	EnforceOverlapCheck bool
}

type Service interface {
	Create(ctx context.Context, gymID, memberID string, req AddSubscriptionRequest) (*Subscription, error)
	ListForMember(ctx context.Context, gymID, memberID string, filter ListFilter) ([]*Subscription, error)
	Update(ctx context.Context, gymID, id string, req UpdateSubscriptionRequest, opts UpdateOptions) (*Subscription, error)
	Delete(ctx context.Context, gymID, id string) error
}

type service struct {
	store   Store
	members MemberChecker
	finance finance.Store
}

func NewService(store Store, members MemberChecker, financeStore finance.Store) Service {
	return &service{store: store, members: members, finance: financeStore}
}

func (s *service) Create(ctx context.Context, gymID, memberID string, req AddSubscriptionRequest) (*Subscription, error) {
	ok, err := s.members.Exists(ctx, gymID, memberID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrMemberNotFound
	}

	p := plan.Plan(req.Plan)
	if err := plan.Validate(p, req.ExtraDays); err != nil {
		return nil, err
	}
	if req.Amount < 0 {
		return nil, ErrInvalidAmount
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	var end time.Time
	if req.EndDate != "" {
		end, err = parseDate(req.EndDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
	} else {
		end = ComputeEndDate(p, req.ExtraDays, start)
	}
	if dates.Normalize(end).Before(dates.Normalize(start)) {
		return nil, ErrEndBeforeStart
	}

	now := time.Now()

	existing, err := s.store.FindByMember(ctx, gymID, memberID)
	if err != nil {
		return nil, err
	}
	if err := ValidateOverlap(start, end, existing); err != nil {
		return nil, err
	}

	daysLeft, _ := DaysLeftFromStart(p, req.ExtraDays, start, now)

	sub := &Subscription{
		ID:        ulid.Make().String(),
		MemberID:  memberID,
		GymID:     gymID,
		Plan:      p,
		Status:    DeriveStatus(start, end, now),
		Amount:    req.Amount,
		ExtraDays: req.ExtraDays,
		StartDate: dates.Normalize(start),
		EndDate:   dates.Normalize(end),
		DaysLeft:  daysLeft,
	}

	if err := s.store.Insert(ctx, sub); err != nil {
		return nil, err
	}
	metrics.RecordSubscriptionCreated(string(p))

	// No money collected means no income row.
	if sub.Amount > 0 {
		if _, err := s.finance.RecordSubscriptionIncome(ctx, gymID, memberID, sub.ID, string(p), sub.Amount); err != nil {
			logger.Errorf("Failed to record income for subscription %s: %v", sub.ID, err)
		}
	}

	return sub, nil
}

// ListForMember returns a filtered slice of the member's history and
// reconciles each cached status against the dates before answering.
// Statuses are persisted only when they actually changed.
func (s *service) ListForMember(ctx context.Context, gymID, memberID string, filter ListFilter) ([]*Subscription, error) {
	subs, err := s.store.FindByMemberWindow(ctx, gymID, memberID, filter, time.Now())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, sub := range subs {
		derived := DeriveStatus(sub.StartDate, sub.EndDate, now)
		if derived == sub.Status {
			continue
		}
		sub.Status = derived
		if err := s.store.UpdateStatus(ctx, gymID, sub.ID, derived); err != nil {
			// Serve the derived status anyway; the cache catches up later.
			logger.Errorf("Failed to reconcile status for subscription %s: %v", sub.ID, err)
		}
	}
	return subs, nil
}

func (s *service) Update(ctx context.Context, gymID, id string, req UpdateSubscriptionRequest, opts UpdateOptions) (*Subscription, error) {
	sub, err := s.store.FindByID(ctx, gymID, id)
	if err != nil {
		return nil, err
	}

	p := plan.Plan(req.Plan)
	if err := plan.Validate(p, req.ExtraDays); err != nil {
		return nil, err
	}
	if req.Amount < 0 {
		return nil, ErrInvalidAmount
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	now := time.Now()
	end := ComputeEndDate(p, req.ExtraDays, start)
	daysLeft, _ := DaysLeftFromStart(p, req.ExtraDays, start, now)

	if opts.EnforceOverlapCheck {
		existing, err := s.store.FindByMember(ctx, gymID, sub.MemberID)
		if err != nil {
			return nil, err
		}
		others := make([]*Subscription, 0, len(existing))
		for _, e := range existing {
			if e.ID != sub.ID {
				others = append(others, e)
			}
		}
		if err := ValidateOverlap(start, end, others); err != nil {
			return nil, err
		}
	}

	amountChanged := sub.Amount != req.Amount
	planChanged := sub.Plan != p

	sub.Plan = p
	sub.Amount = req.Amount
	sub.ExtraDays = req.ExtraDays
	sub.StartDate = dates.Normalize(start)
	sub.EndDate = end
	sub.Status = DeriveStatus(start, end, now)
	sub.DaysLeft = daysLeft

	if err := s.store.Update(ctx, sub); err != nil {
		return nil, err
	}

	if amountChanged || planChanged {
		if err := s.finance.UpdateForSubscription(ctx, gymID, sub.ID, string(p), sub.Amount); err != nil {
			logger.Errorf("Failed to sync finance record for subscription %s: %v", sub.ID, err)
		}
	}

	return sub, nil
}

func (s *service) Delete(ctx context.Context, gymID, id string) error {
	sub, err := s.store.FindByID(ctx, gymID, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, gymID, id); err != nil {
		return err
	}

	if err := s.finance.DeleteForSubscription(ctx, gymID, sub.ID); err != nil {
		logger.Errorf("Failed to delete finance record for subscription %s: %v", sub.ID, err)
	}
	return nil
}

// parseDate accepts bare dates and full timestamps; time of day is dropped
// either way.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return dates.Normalize(t), nil
}
