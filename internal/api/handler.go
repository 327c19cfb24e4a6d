// Package api is the REST surface: thin gin handlers that bind JSON, call
// the domain services, and map sentinel errors onto HTTP statuses.
package api

import (
	"errors"
	"net/http"

	"cosysta-be/internal/address"
	"cosysta-be/internal/cart"
	"cosysta-be/internal/notify"
	"cosysta-be/internal/order"
	"cosysta-be/internal/product"
	"cosysta-be/internal/shop"
	"cosysta-be/internal/subscription"
	"cosysta-be/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	Users         user.Service
	Products      product.Service
	Shops         shop.Service
	Addresses     address.Service
	Carts         cart.Service
	Orders        order.Service
	Notifications notify.Service
	Subscriptions subscription.Service
}

func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrUnauthenticated),
		errors.Is(err, address.ErrUnauthenticated),
		errors.Is(err, cart.ErrUnauthenticated),
		errors.Is(err, subscription.ErrUnauthenticated),
		errors.Is(err, shop.ErrUnauthenticated),
		errors.Is(err, user.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})

	case errors.Is(err, order.ErrUnauthorized),
		errors.Is(err, shop.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})

	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, shop.ErrShopNotFound),
		errors.Is(err, address.ErrAddressNotFound),
		errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, notify.ErrNotificationNotFound),
		errors.Is(err, notify.ErrRecipientNotFound),
		errors.Is(err, subscription.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})

	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, order.ErrTotalMismatch),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrInvalidPaymentStatus),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInsufficientStock),
		errors.Is(err, product.ErrInvalidInput),
		errors.Is(err, shop.ErrInvalidInput),
		errors.Is(err, subscription.ErrInvalidInput),
		errors.Is(err, user.ErrEmailExists):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
