package subscription

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("subscription not found")
	ErrInvalidInput    = errors.New("invalid subscription input")
)
