package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riowonder/SoloManager-Backend/internal/finance"
	"github.com/riowonder/SoloManager-Backend/internal/plan"
)

// Mock repositories
type MockStore struct{ mock.Mock }
type MockMembers struct{ mock.Mock }
type MockFinance struct{ mock.Mock }

func (m *MockStore) Insert(ctx context.Context, sub *Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *MockStore) Update(ctx context.Context, sub *Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *MockStore) Delete(ctx context.Context, gymID, id string) error {
	return m.Called(ctx, gymID, id).Error(0)
}

func (m *MockStore) FindByID(ctx context.Context, gymID, id string) (*Subscription, error) {
	args := m.Called(ctx, gymID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockStore) FindByMember(ctx context.Context, gymID, memberID string) ([]*Subscription, error) {
	args := m.Called(ctx, gymID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Subscription), args.Error(1)
}

func (m *MockStore) FindByMemberWindow(ctx context.Context, gymID, memberID string, filter ListFilter, now time.Time) ([]*Subscription, error) {
	args := m.Called(ctx, gymID, memberID, filter, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Subscription), args.Error(1)
}

func (m *MockStore) FindByGymAndStatusWindow(ctx context.Context, gymID string, statuses []Status, from, to time.Time) ([]*Subscription, error) {
	args := m.Called(ctx, gymID, statuses, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Subscription), args.Error(1)
}

func (m *MockStore) CountByMember(ctx context.Context, gymID, memberID string) (int, error) {
	args := m.Called(ctx, gymID, memberID)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) UpdateStatus(ctx context.Context, gymID, id string, status Status) error {
	return m.Called(ctx, gymID, id, status).Error(0)
}

func (m *MockStore) FindExpiredUnnotified(ctx context.Context, now time.Time) ([]*Subscription, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Subscription), args.Error(1)
}

func (m *MockStore) FindDueForReminder(ctx context.Context, from, to time.Time) ([]*Subscription, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Subscription), args.Error(1)
}

func (m *MockStore) MarkExpired(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) MarkReminderSent(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMembers) Exists(ctx context.Context, gymID, memberID string) (bool, error) {
	args := m.Called(ctx, gymID, memberID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFinance) RecordSubscriptionIncome(ctx context.Context, gymID, memberID, subscriptionID, planName string, amount float64) (*finance.Record, error) {
	args := m.Called(ctx, gymID, memberID, subscriptionID, planName, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Record), args.Error(1)
}

func (m *MockFinance) UpdateForSubscription(ctx context.Context, gymID, subscriptionID, planName string, amount float64) error {
	return m.Called(ctx, gymID, subscriptionID, planName, amount).Error(0)
}

func (m *MockFinance) DeleteForSubscription(ctx context.Context, gymID, subscriptionID string) error {
	return m.Called(ctx, gymID, subscriptionID).Error(0)
}

func newTestService() (Service, *MockStore, *MockMembers, *MockFinance) {
	store := new(MockStore)
	members := new(MockMembers)
	fin := new(MockFinance)
	return NewService(store, members, fin), store, members, fin
}

func TestCreateSubscription_Success(t *testing.T) {
	svc, store, members, fin := newTestService()
	ctx := context.Background()

	members.On("Exists", ctx, "gym-1", "mem-1").Return(true, nil)
	store.On("FindByMember", ctx, "gym-1", "mem-1").Return([]*Subscription{}, nil)
	store.On("Insert", ctx, mock.AnythingOfType("*subscription.Subscription")).Return(nil)
	fin.On("RecordSubscriptionIncome", ctx, "gym-1", "mem-1", mock.AnythingOfType("string"), "1 Month", 1500.0).
		Return(&finance.Record{}, nil)

	sub, err := svc.Create(ctx, "gym-1", "mem-1", AddSubscriptionRequest{
		Plan:      "1 Month",
		Amount:    1500,
		StartDate: "2024-01-01",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, plan.OneMonth, sub.Plan)
	// Inclusive end date: 30 covered days starting Jan 1 end on Jan 30.
	assert.Equal(t, date(2024, 1, 30), sub.EndDate)
	assert.Equal(t, StatusExpired, sub.Status)
	assert.False(t, sub.MessageSent)
	assert.False(t, sub.ReminderSent)

	store.AssertExpectations(t)
	fin.AssertExpectations(t)
}

func TestCreateSubscription_MemberMissing(t *testing.T) {
	svc, store, members, _ := newTestService()
	ctx := context.Background()

	members.On("Exists", ctx, "gym-1", "ghost").Return(false, nil)

	_, err := svc.Create(ctx, "gym-1", "ghost", AddSubscriptionRequest{
		Plan:      "1 Month",
		StartDate: "2024-01-01",
	})
	assert.ErrorIs(t, err, ErrMemberNotFound)
	store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateSubscription_CustomRequiresExtraDays(t *testing.T) {
	svc, _, members, _ := newTestService()
	ctx := context.Background()

	members.On("Exists", ctx, "gym-1", "mem-1").Return(true, nil)

	_, err := svc.Create(ctx, "gym-1", "mem-1", AddSubscriptionRequest{
		Plan:      "Custom",
		StartDate: "2024-01-01",
	})
	assert.ErrorIs(t, err, plan.ErrInvalidPlanDuration)
}

func TestCreateSubscription_UnknownPlan(t *testing.T) {
	svc, _, members, _ := newTestService()
	ctx := context.Background()

	members.On("Exists", ctx, "gym-1", "mem-1").Return(true, nil)

	_, err := svc.Create(ctx, "gym-1", "mem-1", AddSubscriptionRequest{
		Plan:      "2 Weeks",
		StartDate: "2024-01-01",
	})
	assert.ErrorIs(t, err, plan.ErrUnknownPlan)
}

func TestCreateSubscription_OverlapRejected(t *testing.T) {
	svc, store, members, _ := newTestService()
	ctx := context.Background()

	start := time.Now().AddDate(0, 0, 1)
	existing := &Subscription{
		ID:        "sub-existing",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 29),
		Status:    StatusUpcoming,
	}

	members.On("Exists", ctx, "gym-1", "mem-1").Return(true, nil)
	store.On("FindByMember", ctx, "gym-1", "mem-1").Return([]*Subscription{existing}, nil)

	_, err := svc.Create(ctx, "gym-1", "mem-1", AddSubscriptionRequest{
		Plan:      "1 Month",
		StartDate: start.Format("2006-01-02"),
	})
	assert.ErrorIs(t, err, ErrOverlapConflict)
	store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateSubscription_ExpiredHistoryDoesNotBlock(t *testing.T) {
	svc, store, members, _ := newTestService()
	ctx := context.Background()

	old := &Subscription{
		ID:        "sub-old",
		StartDate: date(2023, 1, 1),
		EndDate:   date(2023, 1, 30),
		Status:    StatusExpired,
	}

	members.On("Exists", ctx, "gym-1", "mem-1").Return(true, nil)
	store.On("FindByMember", ctx, "gym-1", "mem-1").Return([]*Subscription{old}, nil)
	store.On("Insert", ctx, mock.AnythingOfType("*subscription.Subscription")).Return(nil)

	sub, err := svc.Create(ctx, "gym-1", "mem-1", AddSubscriptionRequest{
		Plan:      "3 Months",
		StartDate: "2023-01-15",
	})
	require.NoError(t, err)
	assert.Equal(t, plan.ThreeMonth, sub.Plan)
}

func TestCreateSubscription_ZeroAmountSkipsFinance(t *testing.T) {
	svc, store, members, fin := newTestService()
	ctx := context.Background()

	members.On("Exists", ctx, "gym-1", "mem-1").Return(true, nil)
	store.On("FindByMember", ctx, "gym-1", "mem-1").Return([]*Subscription{}, nil)
	store.On("Insert", ctx, mock.AnythingOfType("*subscription.Subscription")).Return(nil)

	_, err := svc.Create(ctx, "gym-1", "mem-1", AddSubscriptionRequest{
		Plan:      "1 Month",
		Amount:    0,
		StartDate: "2024-01-01",
	})
	require.NoError(t, err)
	fin.AssertNotCalled(t, "RecordSubscriptionIncome",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateSubscription_EndBeforeStart(t *testing.T) {
	svc, _, members, _ := newTestService()
	ctx := context.Background()

	members.On("Exists", ctx, "gym-1", "mem-1").Return(true, nil)

	_, err := svc.Create(ctx, "gym-1", "mem-1", AddSubscriptionRequest{
		Plan:      "1 Month",
		StartDate: "2024-02-01",
		EndDate:   "2024-01-01",
	})
	assert.ErrorIs(t, err, ErrEndBeforeStart)
}

func TestListForMember_ReconcilesStaleStatus(t *testing.T) {
	svc, store, _, _ := newTestService()
	ctx := context.Background()

	stale := &Subscription{
		ID:        "sub-1",
		StartDate: date(2023, 1, 1),
		EndDate:   date(2023, 1, 30),
		Status:    StatusActive, // long past its end date
	}
	fresh := &Subscription{
		ID:        "sub-2",
		StartDate: time.Now().AddDate(0, 0, -1),
		EndDate:   time.Now().AddDate(0, 0, 28),
		Status:    StatusActive,
	}

	store.On("FindByMemberWindow", ctx, "gym-1", "mem-1", FilterAll, mock.AnythingOfType("time.Time")).
		Return([]*Subscription{stale, fresh}, nil)
	store.On("UpdateStatus", ctx, "gym-1", "sub-1", StatusExpired).Return(nil)

	subs, err := svc.ListForMember(ctx, "gym-1", "mem-1", FilterAll)
	require.NoError(t, err)
	require.Len(t, subs, 2)

	assert.Equal(t, StatusExpired, subs[0].Status)
	assert.Equal(t, StatusActive, subs[1].Status)
	// Only the stale row is written back.
	store.AssertNumberOfCalls(t, "UpdateStatus", 1)
}

func TestUpdateSubscription_SkipsOverlapByDefault(t *testing.T) {
	svc, store, _, fin := newTestService()
	ctx := context.Background()

	current := &Subscription{
		ID:       "sub-1",
		MemberID: "mem-1",
		GymID:    "gym-1",
		Plan:     plan.OneMonth,
		Amount:   1500,
	}

	store.On("FindByID", ctx, "gym-1", "sub-1").Return(current, nil)
	store.On("Update", ctx, mock.AnythingOfType("*subscription.Subscription")).Return(nil)
	fin.On("UpdateForSubscription", ctx, "gym-1", "sub-1", "3 Months", 4000.0).Return(nil)

	sub, err := svc.Update(ctx, "gym-1", "sub-1", UpdateSubscriptionRequest{
		Plan:      "3 Months",
		Amount:    4000,
		StartDate: "2024-01-01",
	}, UpdateOptions{})
	require.NoError(t, err)

	assert.Equal(t, plan.ThreeMonth, sub.Plan)
	assert.Equal(t, date(2024, 3, 30), sub.EndDate)
	// Overlap lookup never runs without the flag.
	store.AssertNotCalled(t, "FindByMember", mock.Anything, mock.Anything, mock.Anything)
	fin.AssertExpectations(t)
}

func TestUpdateSubscription_UnchangedAmountSkipsFinance(t *testing.T) {
	svc, store, _, fin := newTestService()
	ctx := context.Background()

	current := &Subscription{
		ID:       "sub-1",
		MemberID: "mem-1",
		GymID:    "gym-1",
		Plan:     plan.OneMonth,
		Amount:   1500,
	}

	store.On("FindByID", ctx, "gym-1", "sub-1").Return(current, nil)
	store.On("Update", ctx, mock.AnythingOfType("*subscription.Subscription")).Return(nil)

	_, err := svc.Update(ctx, "gym-1", "sub-1", UpdateSubscriptionRequest{
		Plan:      "1 Month",
		Amount:    1500,
		StartDate: "2024-01-01",
	}, UpdateOptions{})
	require.NoError(t, err)
	fin.AssertNotCalled(t, "UpdateForSubscription",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteSubscription_CascadesFinance(t *testing.T) {
	svc, store, _, fin := newTestService()
	ctx := context.Background()

	store.On("FindByID", ctx, "gym-1", "sub-1").
		Return(&Subscription{ID: "sub-1", GymID: "gym-1"}, nil)
	store.On("Delete", ctx, "gym-1", "sub-1").Return(nil)
	fin.On("DeleteForSubscription", ctx, "gym-1", "sub-1").Return(nil)

	err := svc.Delete(ctx, "gym-1", "sub-1")
	require.NoError(t, err)
	fin.AssertExpectations(t)
}

func TestDeleteSubscription_NotFound(t *testing.T) {
	svc, store, _, fin := newTestService()
	ctx := context.Background()

	store.On("FindByID", ctx, "gym-1", "missing").Return(nil, ErrNotFound)

	err := svc.Delete(ctx, "gym-1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	fin.AssertNotCalled(t, "DeleteForSubscription", mock.Anything, mock.Anything, mock.Anything)
}
