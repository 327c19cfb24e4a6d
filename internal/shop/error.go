package shop

import "errors"

var (
	ErrShopNotFound    = errors.New("shop not found")
	ErrNotOwner        = errors.New("shop does not belong to user")
	ErrInvalidInput    = errors.New("invalid shop input")
	ErrUnauthenticated = errors.New("user not authenticated")
)
