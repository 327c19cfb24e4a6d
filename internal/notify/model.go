package notify

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeOrder                 = "order"
	TypeSubscriptionActivated = "subscription_activated"
	TypeSubscriptionExpired   = "subscription_expired"
	TypeAnnouncement          = "announcement"
)

type Recipient struct {
	UserID uint `json:"user_id"`
	IsRead bool `json:"is_read"`
}

type Notification struct {
	ID         uuid.UUID
	Title      string
	Body       string
	Type       string
	Recipients []Recipient
	Data       map[string]any
	SentAt     time.Time
	CreatedAt  time.Time
}

// UserNotification is a notification narrowed to a single recipient's view,
// used by the unread listing so the full recipient fan-out never leaves the
// server.
type UserNotification struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}

// PushMessage is the payload handed to the push transport. Delivery to
// device tokens happens downstream of the exchange.
type PushMessage struct {
	Tokens []string          `json:"tokens"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}
