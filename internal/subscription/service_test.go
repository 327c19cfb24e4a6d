package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"cosysta-be/internal/notify"
	"cosysta-be/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetActiveByUser(ctx context.Context, userID uint) (*Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockRepository) GetLatestByUser(ctx context.Context, userID uint) (*Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, sub *Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockRepository) Extend(ctx context.Context, id uuid.UUID, amount float64, durationDays int32) (*Subscription, error) {
	args := m.Called(ctx, id, amount, durationDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockRepository) ExpireOverdue(ctx context.Context, now time.Time) ([]uint, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendShopOrderEmail(ctx context.Context, shopEmail string, data notify.OrderEmailData) error {
	args := m.Called(ctx, shopEmail, data)
	return args.Error(0)
}

func (m *MockNotifier) NotifyShopOwner(ctx context.Context, ownerID uint, title, body string, data map[string]any) error {
	args := m.Called(ctx, ownerID, title, body, data)
	return args.Error(0)
}

func (m *MockNotifier) NotifyUser(ctx context.Context, userID uint, title, body, typ string, data map[string]any) error {
	args := m.Called(ctx, userID, title, body, typ, data)
	return args.Error(0)
}

func (m *MockNotifier) Broadcast(ctx context.Context, recipientIDs []uint, title, body string, data map[string]any) error {
	args := m.Called(ctx, recipientIDs, title, body, data)
	return args.Error(0)
}

func (m *MockNotifier) ListUnread(ctx context.Context, userID uint) ([]*notify.UserNotification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notify.UserNotification), args.Error(1)
}

func (m *MockNotifier) MarkRead(ctx context.Context, notificationID uuid.UUID, userID uint, isRead bool) error {
	args := m.Called(ctx, notificationID, userID, isRead)
	return args.Error(0)
}

func (m *MockNotifier) RemoveForUser(ctx context.Context, notificationID uuid.UUID, userID uint) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *MockNotifier) Delete(ctx context.Context, notificationID uuid.UUID) error {
	args := m.Called(ctx, notificationID)
	return args.Error(0)
}

// --- Tests ---

func fixedService(repo Repository, notifier notify.Service, now time.Time) Service {
	svc := NewService(repo, notifier).(*service)
	svc.now = func() time.Time { return now }
	return svc
}

func TestService_StartOrExtend(t *testing.T) {
	userID := uint(7)
	ctx := utils.SetUserContext(context.Background(), userID, "buyer@example.com", "USER")
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	t.Run("Unauthenticated", func(t *testing.T) {
		svc := fixedService(new(MockRepository), new(MockNotifier), now)

		_, err := svc.StartOrExtend(context.Background(), StartInput{PlanName: "monthly", Amount: 99, DurationDays: 30})

		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		svc := fixedService(new(MockRepository), new(MockNotifier), now)

		_, err := svc.StartOrExtend(ctx, StartInput{PlanName: "monthly", Amount: 99, DurationDays: 0})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("NoActiveCreates", func(t *testing.T) {
		repo := new(MockRepository)
		notifier := new(MockNotifier)
		svc := fixedService(repo, notifier, now)

		repo.On("GetActiveByUser", ctx, userID).Return(nil, ErrNotFound)
		repo.On("Create", ctx, mock.MatchedBy(func(sub *Subscription) bool {
			return sub.UserID == userID &&
				sub.Status == StatusActive &&
				sub.StartDate.Equal(now) &&
				sub.EndDate.Equal(now.AddDate(0, 0, 30))
		})).Return(nil)
		notifier.On("NotifyUser", ctx, userID, "Subscription Activated", mock.Anything,
			notify.TypeSubscriptionActivated, mock.Anything).Return(nil)

		sub, err := svc.StartOrExtend(ctx, StartInput{PlanName: "monthly", Amount: 99, DurationDays: 30})

		assert.NoError(t, err)
		assert.Equal(t, StatusActive, sub.Status)
		repo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("ActiveExtendsInsteadOfCreating", func(t *testing.T) {
		repo := new(MockRepository)
		notifier := new(MockNotifier)
		svc := fixedService(repo, notifier, now)

		existing := &Subscription{
			ID:           uuid.New(),
			UserID:       userID,
			PlanName:     "monthly",
			Amount:       99,
			DurationDays: 30,
			Status:       StatusActive,
			StartDate:    now.AddDate(0, 0, -10),
			EndDate:      now.AddDate(0, 0, 20),
		}
		merged := &Subscription{
			ID:           existing.ID,
			UserID:       userID,
			PlanName:     "monthly",
			Amount:       198,
			DurationDays: 60,
			Status:       StatusActive,
			StartDate:    existing.StartDate,
			EndDate:      existing.EndDate.AddDate(0, 0, 30),
		}

		repo.On("GetActiveByUser", ctx, userID).Return(existing, nil)
		repo.On("Extend", ctx, existing.ID, 99.0, int32(30)).Return(merged, nil)
		notifier.On("NotifyUser", ctx, userID, "Subscription Extended", mock.Anything,
			notify.TypeSubscriptionActivated, mock.Anything).Return(nil)

		sub, err := svc.StartOrExtend(ctx, StartInput{PlanName: "monthly", Amount: 99, DurationDays: 30})

		assert.NoError(t, err)
		assert.Equal(t, 198.0, sub.Amount)
		assert.Equal(t, int32(60), sub.DurationDays)
		assert.Equal(t, existing.EndDate.AddDate(0, 0, 30), sub.EndDate)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("LapsedActiveRowCreatesFresh", func(t *testing.T) {
		repo := new(MockRepository)
		notifier := new(MockNotifier)
		svc := fixedService(repo, notifier, now)

		// Row still flagged active but past its end date: the sweep has
		// not run yet. Read-time comparison wins and a new record starts.
		lapsed := &Subscription{
			ID:      uuid.New(),
			UserID:  userID,
			Status:  StatusActive,
			EndDate: now.AddDate(0, 0, -1),
		}

		repo.On("GetActiveByUser", ctx, userID).Return(lapsed, nil)
		repo.On("Create", ctx, mock.Anything).Return(nil)
		notifier.On("NotifyUser", ctx, userID, "Subscription Activated", mock.Anything,
			notify.TypeSubscriptionActivated, mock.Anything).Return(nil)

		_, err := svc.StartOrExtend(ctx, StartInput{PlanName: "monthly", Amount: 99, DurationDays: 30})

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "Extend", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NotificationFailureDoesNotFail", func(t *testing.T) {
		repo := new(MockRepository)
		notifier := new(MockNotifier)
		svc := fixedService(repo, notifier, now)

		repo.On("GetActiveByUser", ctx, userID).Return(nil, ErrNotFound)
		repo.On("Create", ctx, mock.Anything).Return(nil)
		notifier.On("NotifyUser", ctx, userID, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything).Return(errors.New("amqp down"))

		sub, err := svc.StartOrExtend(ctx, StartInput{PlanName: "monthly", Amount: 99, DurationDays: 30})

		assert.NoError(t, err)
		assert.NotNil(t, sub)
	})
}

func TestService_GetCurrent(t *testing.T) {
	userID := uint(7)
	ctx := utils.SetUserContext(context.Background(), userID, "buyer@example.com", "USER")
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	t.Run("ActiveWithinWindow", func(t *testing.T) {
		repo := new(MockRepository)
		svc := fixedService(repo, new(MockNotifier), now)

		repo.On("GetLatestByUser", ctx, userID).Return(&Subscription{
			Status:  StatusActive,
			EndDate: now.AddDate(0, 0, 5),
		}, nil)

		sub, err := svc.GetCurrent(ctx)

		assert.NoError(t, err)
		assert.Equal(t, StatusActive, sub.Status)
	})

	t.Run("LapsedReadsAsExpiredBeforeSweep", func(t *testing.T) {
		repo := new(MockRepository)
		svc := fixedService(repo, new(MockNotifier), now)

		repo.On("GetLatestByUser", ctx, userID).Return(&Subscription{
			Status:  StatusActive,
			EndDate: now.AddDate(0, 0, -1),
		}, nil)

		sub, err := svc.GetCurrent(ctx)

		assert.NoError(t, err)
		assert.Equal(t, StatusExpired, sub.Status)
	})

	t.Run("None", func(t *testing.T) {
		repo := new(MockRepository)
		svc := fixedService(repo, new(MockNotifier), now)

		repo.On("GetLatestByUser", ctx, userID).Return(nil, ErrNotFound)

		_, err := svc.GetCurrent(ctx)

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_ExpireOverdue(t *testing.T) {
	now := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("NotifiesEachExpiredUser", func(t *testing.T) {
		repo := new(MockRepository)
		notifier := new(MockNotifier)
		svc := fixedService(repo, notifier, now)

		repo.On("ExpireOverdue", ctx, now).Return([]uint{3, 9}, nil)
		notifier.On("NotifyUser", ctx, uint(3), "Subscription Expired", mock.Anything,
			notify.TypeSubscriptionExpired, mock.Anything).Return(nil)
		notifier.On("NotifyUser", ctx, uint(9), "Subscription Expired", mock.Anything,
			notify.TypeSubscriptionExpired, mock.Anything).Return(nil)

		count, err := svc.ExpireOverdue(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 2, count)
		notifier.AssertNumberOfCalls(t, "NotifyUser", 2)
	})

	t.Run("NoneOverdue", func(t *testing.T) {
		repo := new(MockRepository)
		notifier := new(MockNotifier)
		svc := fixedService(repo, notifier, now)

		repo.On("ExpireOverdue", ctx, now).Return([]uint{}, nil)

		count, err := svc.ExpireOverdue(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 0, count)
		notifier.AssertNotCalled(t, "NotifyUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSubscription_Expired(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	assert.False(t, (&Subscription{EndDate: now}).Expired(now))
	assert.False(t, (&Subscription{EndDate: now.Add(time.Minute)}).Expired(now))
	assert.True(t, (&Subscription{EndDate: now.Add(-time.Minute)}).Expired(now))
}
