package product

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UnitPolicy classifies how a product's stock is counted. Sellers enter
// ProductType as free text ("kg", "piece", "pack", "dozen", ...); only
// kilogram-priced goods get weight arithmetic, everything else is discrete.
type UnitPolicy string

const (
	UnitPerWeight   UnitPolicy = "PER_WEIGHT"
	UnitPerDiscrete UnitPolicy = "PER_DISCRETE"
)

// NormalizeUnitPolicy maps the seller-entered product type onto a unit policy.
func NormalizeUnitPolicy(productType string) UnitPolicy {
	switch strings.ToLower(strings.TrimSpace(productType)) {
	case "kg", "per kg":
		return UnitPerWeight
	default:
		return UnitPerDiscrete
	}
}

type Product struct {
	ID     uuid.UUID
	ShopID uuid.UUID

	Name        string
	Description *string
	Category    string
	ImageURL    *string

	Price float64

	// Quantity is current stock: kilograms for weight-priced goods,
	// unit count otherwise. Never negative.
	Quantity float64

	// Sold is the cumulative analytics counter, in the same unit as Quantity.
	Sold float64

	ProductType    string
	EstimatedTime  *string
	DeliveryOption string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Product) UnitPolicy() UnitPolicy {
	return NormalizeUnitPolicy(p.ProductType)
}

type CreateProductInput struct {
	ShopID         uuid.UUID
	Name           string
	Description    *string
	Category       string
	ImageURL       *string
	Price          float64
	Quantity       float64
	ProductType    string
	DeliveryOption string
}

type FilterInput struct {
	Search   *string
	Category *string
	MinPrice *float64
	MaxPrice *float64
	InStock  *bool
	MinSold  *float64
	ShopID   *uuid.UUID
}

type SortField string

const (
	SortFieldCreatedAt  SortField = "CREATED_AT"
	SortFieldPrice      SortField = "PRICE"
	SortFieldPopularity SortField = "POPULARITY"
)

type SortInput struct {
	Field     SortField
	Direction string
}
