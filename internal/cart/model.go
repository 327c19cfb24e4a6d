package cart

import (
	"time"

	"cosysta-be/internal/product"

	"github.com/google/uuid"
)

type Item struct {
	ID     uuid.UUID
	UserID uint

	ProductID uuid.UUID
	Quantity  int32

	// WeightGrams carries the chosen gram amount per unit for
	// weight-priced products, so checkout reuses the exact selection.
	WeightGrams *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Row is a cart item joined with the catalog fields the storefront lists.
type Row struct {
	Item
	ProductName  string
	ProductPrice float64
	ProductType  string
	Stock        float64
	ShopID       uuid.UUID
	ShopName     string
}

// UnitPolicy exposes the joined product's unit policy for display pricing.
func (r Row) UnitPolicy() product.UnitPolicy {
	return product.NormalizeUnitPolicy(r.ProductType)
}

type AddItemInput struct {
	ProductID   uuid.UUID `json:"product_id"`
	Quantity    int32     `json:"quantity"`
	WeightGrams *float64  `json:"weight_grams,omitempty"`
}

type UpdateQuantityInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int32     `json:"quantity"`
}
