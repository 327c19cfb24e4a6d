package notify

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrRecipientNotFound    = errors.New("notification or recipient not found")
)
