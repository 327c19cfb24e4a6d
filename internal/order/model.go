package order

import (
	"time"

	"cosysta-be/internal/address"
	"cosysta-be/internal/product"
	"cosysta-be/internal/shop"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCanceled  Status = "canceled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// LineItem is one purchased product, snapshotted at order time. Name,
// UnitPrice and UnitPolicy are copies so later catalog edits do not change
// historical orders, and a cancellation inverts the exact arithmetic that
// was applied at placement.
type LineItem struct {
	ProductID uuid.UUID
	ShopID    uuid.UUID

	Name      string
	UnitPrice float64

	Quantity int32

	// WeightGrams is the customer-declared grams per purchased unit,
	// present only for weight-priced products.
	WeightGrams *float64

	UnitPolicy product.UnitPolicy

	LineTotal float64
}

type Order struct {
	ID     uuid.UUID
	UserID uint

	Items []LineItem

	// Address is a deep snapshot of the chosen delivery address, not a
	// reference.
	Address address.Snapshot

	TotalCartAmount float64

	Status        Status
	PaymentStatus PaymentStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResolvedItem pairs a line item with its owning shop's contact snapshot,
// the grouper's input shape.
type ResolvedItem struct {
	LineItem
	Shop shop.Shop
}

// ShopGroup is the subset of one order's line items belonging to a single
// shop, used to scope the email summary and the owner notification.
type ShopGroup struct {
	Shop  shop.Shop
	Items []LineItem
}

// Subtotal is the per-shop order amount.
func (g ShopGroup) Subtotal() float64 {
	var sum float64
	for _, item := range g.Items {
		sum += item.LineTotal
	}
	return sum
}

type CheckoutItemInput struct {
	ProductID   uuid.UUID `json:"product_id"`
	Quantity    int32     `json:"quantity"`
	WeightGrams *float64  `json:"weight_grams,omitempty"`
}

type CheckoutInput struct {
	AddressID       uuid.UUID           `json:"address_id"`
	Items           []CheckoutItemInput `json:"items"`
	TotalCartAmount float64             `json:"total_cart_amount"`
}

type FilterInput struct {
	UserID        *uint
	Status        *Status
	PaymentStatus *PaymentStatus
	MinTotal      *float64
	MaxTotal      *float64
	DateFrom      *time.Time
	DateTo        *time.Time
}

type SortField string

const (
	SortFieldCreatedAt SortField = "CREATED_AT"
	SortFieldTotal     SortField = "TOTAL"
)

type SortInput struct {
	Field     SortField
	Direction string
}
