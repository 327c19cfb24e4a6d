package order

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnauthorized    = errors.New("unauthorized: cannot access others' orders")

	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyCart     = errors.New("order has no items")

	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrTotalMismatch        = errors.New("total amount mismatch")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)
