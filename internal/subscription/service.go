package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cosysta-be/internal/logger"
	"cosysta-be/internal/notify"
	"cosysta-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	// StartOrExtend merges a new purchase into the user's active
	// subscription, or creates a fresh one when none is active.
	StartOrExtend(ctx context.Context, input StartInput) (*Subscription, error)

	// GetCurrent returns the user's latest record with its status settled
	// against the clock, so a read between sweeps never reports a lapsed
	// subscription as active.
	GetCurrent(ctx context.Context) (*Subscription, error)

	// ExpireOverdue runs one sweep pass and notifies affected users.
	ExpireOverdue(ctx context.Context) (int, error)
}

type service struct {
	repo     Repository
	notifier notify.Service
	now      func() time.Time
}

func NewService(repo Repository, notifier notify.Service) Service {
	return &service{repo: repo, notifier: notifier, now: time.Now}
}

func (s *service) StartOrExtend(ctx context.Context, input StartInput) (*Subscription, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "StartOrExtend"),
		zap.String("plan", input.PlanName),
	)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	if input.DurationDays <= 0 || input.Amount < 0 {
		return nil, ErrInvalidInput
	}

	active, err := s.repo.GetActiveByUser(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	var sub *Subscription
	extended := false

	if active != nil && !active.Expired(s.now()) {
		sub, err = s.repo.Extend(ctx, active.ID, input.Amount, input.DurationDays)
		if err != nil {
			log.Error("failed to extend subscription", zap.Error(err))
			return nil, err
		}
		extended = true
	} else {
		now := s.now()
		sub = &Subscription{
			ID:           uuid.New(),
			UserID:       userID,
			PlanName:     input.PlanName,
			Amount:       input.Amount,
			DurationDays: input.DurationDays,
			Status:       StatusActive,
			StartDate:    now,
			EndDate:      now.AddDate(0, 0, int(input.DurationDays)),
		}
		if err := s.repo.Create(ctx, sub); err != nil {
			log.Error("failed to create subscription", zap.Error(err))
			return nil, err
		}
	}

	title := "Subscription Activated"
	body := fmt.Sprintf("Your %s subscription is active until %s.",
		sub.PlanName, sub.EndDate.Format("2 Jan 2006"))
	if extended {
		title = "Subscription Extended"
	}

	// Best-effort: the purchase stands even if the notification fails.
	if err := s.notifier.NotifyUser(ctx, userID, title, body, notify.TypeSubscriptionActivated, map[string]any{
		"subscription_id": sub.ID.String(),
		"end_date":        sub.EndDate.Format(time.RFC3339),
	}); err != nil {
		log.Warn("failed to notify subscriber", zap.Error(err))
	}

	log.Info("subscription settled",
		zap.Bool("extended", extended),
		zap.Time("end_date", sub.EndDate),
	)
	return sub, nil
}

func (s *service) GetCurrent(ctx context.Context) (*Subscription, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	sub, err := s.repo.GetLatestByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Same comparison the sweep uses; a record past its end date reads as
	// expired even if the daily pass has not flipped it yet.
	if sub.Status == StatusActive && sub.Expired(s.now()) {
		sub.Status = StatusExpired
	}
	return sub, nil
}

func (s *service) ExpireOverdue(ctx context.Context) (int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ExpireOverdue"),
	)

	userIDs, err := s.repo.ExpireOverdue(ctx, s.now())
	if err != nil {
		return 0, err
	}

	for _, userID := range userIDs {
		err := s.notifier.NotifyUser(ctx, userID,
			"Subscription Expired",
			"Your subscription has ended. Renew to keep your benefits.",
			notify.TypeSubscriptionExpired, nil,
		)
		if err != nil {
			log.Warn("failed to notify expired subscriber",
				zap.Uint("user_id", userID),
				zap.Error(err),
			)
		}
	}

	return len(userIDs), nil
}
