package subscription

import (
	"context"
	"time"

	"cosysta-be/internal/logger"
	"cosysta-be/internal/metrics"

	"go.uber.org/zap"
)

// Sweeper runs the expiry pass on a fixed interval, once daily in
// production. It is single-threaded relative to request handling: one
// goroutine, one pass at a time.
type Sweeper struct {
	svc      Service
	interval time.Duration
}

func NewSweeper(svc Service, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Sweeper{svc: svc, interval: interval}
}

// Run blocks until ctx is canceled. An immediate pass runs at startup so a
// restarted server does not wait a full interval to catch up.
func (s *Sweeper) Run(ctx context.Context) {
	log := logger.L().With(zap.String("worker", "subscription_sweeper"))
	log.Info("sweeper started", zap.Duration("interval", s.interval))

	s.sweep(ctx, log)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx, log)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context, log *zap.Logger) {
	expired, err := s.svc.ExpireOverdue(ctx)
	if err != nil {
		log.Error("expiry sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		metrics.SubscriptionsExpired.Add(float64(expired))
		log.Info("expiry sweep completed", zap.Int("expired", expired))
	}
}
