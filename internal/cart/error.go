package cart

import "errors"

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrItemNotFound      = errors.New("cart item not found")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInsufficientStock = errors.New("insufficient stock")
)
