package member

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/riowonder/SoloManager-Backend/internal/logger"
	"github.com/riowonder/SoloManager-Backend/internal/metrics"
	"github.com/riowonder/SoloManager-Backend/internal/subscription"
)

type Service interface {
	Add(ctx context.Context, gymID string, req AddMemberRequest) (*Member, error)
	Get(ctx context.Context, gymID, id string) (*RosterEntry, error)
	Roster(ctx context.Context, gymID string, filter StatusFilter, page, limit int) ([]*RosterEntry, int, error)
	Search(ctx context.Context, gymID, q string, filter StatusFilter) ([]*RosterEntry, error)
	Update(ctx context.Context, gymID, id string, req UpdateMemberRequest) (*Member, error)
	Delete(ctx context.Context, gymID, id string) error
	Expired(ctx context.Context, gymID string) ([]*RosterEntry, error)
	ExpiringSoon(ctx context.Context, gymID string) ([]*RosterEntry, error)
}

type service struct {
	members Store
	subs    subscription.Store
}

func NewService(members Store, subs subscription.Store) Service {
	return &service{members: members, subs: subs}
}

func (s *service) Add(ctx context.Context, gymID string, req AddMemberRequest) (*Member, error) {
	m := &Member{
		ID:          ulid.Make().String(),
		GymID:       gymID,
		RollNo:      req.RollNo,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Height:      req.Height,
		Weight:      req.Weight,
		Age:         req.Age,
		Gender:      req.Gender,
		Address:     req.Address,
	}
	if err := s.members.Create(ctx, m); err != nil {
		return nil, err
	}
	metrics.RecordMemberCreated()
	return m, nil
}

func (s *service) Get(ctx context.Context, gymID, id string) (*RosterEntry, error) {
	m, err := s.members.FindByID(ctx, gymID, id)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, m, time.Now()), nil
}

// Roster lists members with subscription state attached. Statuses are
// reconciled against the calendar before the filter is applied, then the
// filtered set is paginated in memory, matching the interactive views'
// behavior.
func (s *service) Roster(ctx context.Context, gymID string, filter StatusFilter, page, limit int) ([]*RosterEntry, int, error) {
	members, err := s.members.List(ctx, gymID)
	if err != nil {
		return nil, 0, err
	}

	entries := s.decorateAll(ctx, members, filter)
	total := len(entries)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return entries[start:end], total, nil
}

func (s *service) Search(ctx context.Context, gymID, q string, filter StatusFilter) ([]*RosterEntry, error) {
	members, err := s.members.Search(ctx, gymID, q)
	if err != nil {
		return nil, err
	}
	return s.decorateAll(ctx, members, filter), nil
}

func (s *service) Update(ctx context.Context, gymID, id string, req UpdateMemberRequest) (*Member, error) {
	m, err := s.members.FindByID(ctx, gymID, id)
	if err != nil {
		return nil, err
	}

	if req.RollNo != "" {
		m.RollNo = req.RollNo
	}
	if req.Name != "" {
		m.Name = req.Name
	}
	if req.PhoneNumber != "" {
		m.PhoneNumber = req.PhoneNumber
	}
	if req.Height != nil {
		m.Height = req.Height
	}
	if req.Weight != nil {
		m.Weight = req.Weight
	}
	if req.Age != nil {
		m.Age = req.Age
	}
	if req.Gender != "" {
		m.Gender = req.Gender
	}
	if req.Address != "" {
		m.Address = req.Address
	}

	if err := s.members.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) Delete(ctx context.Context, gymID, id string) error {
	return s.members.Delete(ctx, gymID, id)
}

// Expired lists members whose most recent subscription has run out, newest
// expiry first.
func (s *service) Expired(ctx context.Context, gymID string) ([]*RosterEntry, error) {
	members, err := s.members.List(ctx, gymID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expired := []*RosterEntry{}
	for _, m := range members {
		entry := s.decorate(ctx, m, now)
		if len(entry.Subscriptions) == 0 {
			continue
		}
		latest := entry.Subscriptions[0]
		if latest.EndDate.Before(now) {
			expired = append(expired, entry)
		}
	}

	sort.Slice(expired, func(i, j int) bool {
		return expired[i].Subscriptions[0].EndDate.After(expired[j].Subscriptions[0].EndDate)
	})
	return expired, nil
}

// ExpiringSoon lists members whose most recent subscription has 0-10 days
// remaining, nearest expiry first.
func (s *service) ExpiringSoon(ctx context.Context, gymID string) ([]*RosterEntry, error) {
	members, err := s.members.List(ctx, gymID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	soon := []*RosterEntry{}
	for _, m := range members {
		entry := s.decorate(ctx, m, now)
		if len(entry.Subscriptions) == 0 {
			continue
		}
		latest := entry.Subscriptions[0]
		daysLeft, ok := subscription.DaysLeftFromEnd(latest, now)
		if !ok || daysLeft < 0 || daysLeft > 10 {
			continue
		}
		d := daysLeft
		entry.DaysLeft = &d
		entry.SubscriptionPlan = string(latest.Plan)
		soon = append(soon, entry)
	}

	sort.Slice(soon, func(i, j int) bool {
		return *soon[i].DaysLeft < *soon[j].DaysLeft
	})
	return soon, nil
}

func (s *service) decorateAll(ctx context.Context, members []*Member, filter StatusFilter) []*RosterEntry {
	now := time.Now()
	entries := []*RosterEntry{}
	for _, m := range members {
		entry := s.decorate(ctx, m, now)
		switch filter {
		case FilterActive:
			if entry.ActiveSubscription == nil && !entry.HasUpcoming {
				continue
			}
		case FilterInactive:
			if entry.ActiveSubscription != nil || entry.HasUpcoming {
				continue
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// decorate loads a member's subscriptions, reconciles cached statuses, and
// derives the roster display fields.
func (s *service) decorate(ctx context.Context, m *Member, now time.Time) *RosterEntry {
	entry := &RosterEntry{Member: *m, DaysLeftDisplay: "No active subscription"}

	subs, err := s.subs.FindByMember(ctx, m.GymID, m.ID)
	if err != nil {
		logger.Errorf("Failed to load subscriptions for member %s: %v", m.ID, err)
		return entry
	}
	entry.Subscriptions = subs

	for _, sub := range subs {
		derived := subscription.DeriveStatus(sub.StartDate, sub.EndDate, now)
		if derived != sub.Status {
			sub.Status = derived
			if err := s.subs.UpdateStatus(ctx, m.GymID, sub.ID, derived); err != nil {
				logger.Errorf("Failed to reconcile status for subscription %s: %v", sub.ID, err)
			}
		}

		switch derived {
		case subscription.StatusActive:
			if entry.ActiveSubscription == nil {
				entry.ActiveSubscription = sub
			}
		case subscription.StatusUpcoming:
			entry.HasUpcoming = true
		}
	}

	if entry.ActiveSubscription != nil {
		entry.SubscriptionPlan = string(entry.ActiveSubscription.Plan)
		if daysLeft, ok := subscription.DaysLeftFromEnd(entry.ActiveSubscription, now); ok {
			d := daysLeft
			entry.DaysLeft = &d
			entry.DaysLeftDisplay = fmt.Sprintf("%d %s left", daysLeft, pluralDays(daysLeft))
		}
	} else if entry.HasUpcoming {
		entry.DaysLeftDisplay = "Yet to start"
	}

	return entry
}

func pluralDays(n int) string {
	if n == 1 {
		return "Day"
	}
	return "Days"
}
