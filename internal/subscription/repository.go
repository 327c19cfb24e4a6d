package subscription

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cosysta-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	// GetActiveByUser returns the user's active record, or ErrNotFound.
	GetActiveByUser(ctx context.Context, userID uint) (*Subscription, error)

	GetLatestByUser(ctx context.Context, userID uint) (*Subscription, error)
	Create(ctx context.Context, sub *Subscription) error

	// Extend accumulates another purchase onto an existing active record.
	Extend(ctx context.Context, id uuid.UUID, amount float64, durationDays int32) (*Subscription, error)

	// ExpireOverdue flips every active record whose end date has passed and
	// returns the affected user ids so the caller can notify them.
	ExpireOverdue(ctx context.Context, now time.Time) ([]uint, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const subscriptionColumns = `
	id, user_id, plan_name, amount, duration_days,
	status, start_date, end_date, created_at, updated_at
`

func (r *repository) scanOne(row *sql.Row) (*Subscription, error) {
	var s Subscription
	err := row.Scan(
		&s.ID, &s.UserID, &s.PlanName, &s.Amount, &s.DurationDays,
		&s.Status, &s.StartDate, &s.EndDate, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) GetActiveByUser(ctx context.Context, userID uint) (*Subscription, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE user_id = $1 AND status = $2
		ORDER BY end_date DESC
		LIMIT 1
	`, userID, StatusActive))
}

func (r *repository) GetLatestByUser(ctx context.Context, userID uint) (*Subscription, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY end_date DESC
		LIMIT 1
	`, userID))
}

func (r *repository) Create(ctx context.Context, sub *Subscription) error {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Subscription"),
		zap.String("method", "Create"),
		zap.Uint("user_id", sub.UserID),
	)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (
			id, user_id, plan_name, amount, duration_days,
			status, start_date, end_date
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		sub.ID, sub.UserID, sub.PlanName, sub.Amount, sub.DurationDays,
		sub.Status, sub.StartDate, sub.EndDate,
	)
	if err != nil {
		log.Error("failed to insert subscription", zap.Error(err))
		return err
	}

	log.Info("subscription created", zap.String("subscription_id", sub.ID.String()))
	return nil
}

func (r *repository) Extend(
	ctx context.Context,
	id uuid.UUID,
	amount float64,
	durationDays int32,
) (*Subscription, error) {

	// One write accumulates everything: the paid window, the running
	// amount, and the cumulative day count.
	return r.scanOne(r.db.QueryRowContext(ctx, `
		UPDATE subscriptions
		SET end_date = end_date + make_interval(days => $1),
		    amount = amount + $2,
		    duration_days = duration_days + $1,
		    updated_at = NOW()
		WHERE id = $3
		RETURNING `+subscriptionColumns+`
	`, durationDays, amount, id))
}

func (r *repository) ExpireOverdue(ctx context.Context, now time.Time) ([]uint, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Subscription"),
		zap.String("method", "ExpireOverdue"),
	)

	rows, err := r.db.QueryContext(ctx, `
		UPDATE subscriptions
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND end_date < $3
		RETURNING user_id
	`, StatusExpired, StatusActive, now)
	if err != nil {
		log.Error("failed to expire subscriptions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var userIDs []uint
	for rows.Next() {
		var id uint
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(userIDs) > 0 {
		log.Info("subscriptions expired", zap.Int("count", len(userIDs)))
	}
	return userIDs, nil
}
