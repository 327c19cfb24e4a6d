package subscription

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// Subscription is one customer's cumulative subscription record. Starting a
// plan while one is active extends the same row; Amount and DurationDays
// accumulate across extensions.
type Subscription struct {
	ID     uuid.UUID
	UserID uint

	PlanName     string
	Amount       float64
	DurationDays int32

	Status    Status
	StartDate time.Time
	EndDate   time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the record's paid window has passed. The sweeper
// and read-time checks both use this comparison so they cannot disagree.
func (s *Subscription) Expired(now time.Time) bool {
	return now.After(s.EndDate)
}

type StartInput struct {
	PlanName     string  `json:"plan_name"`
	Amount       float64 `json:"amount"`
	DurationDays int32   `json:"duration_days"`
}
