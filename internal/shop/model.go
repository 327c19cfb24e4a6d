package shop

import (
	"time"

	"github.com/google/uuid"
)

type Shop struct {
	ID      uuid.UUID
	OwnerID uint

	Name  string
	Email string
	Phone *string

	City    *string
	Address *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
