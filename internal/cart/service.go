package cart

import (
	"context"

	"cosysta-be/internal/logger"
	"cosysta-be/internal/product"
	"cosysta-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	AddItem(ctx context.Context, input AddItemInput) (*Item, error)
	GetCart(ctx context.Context) ([]Row, error)
	UpdateQuantity(ctx context.Context, input UpdateQuantityInput) error
	RemoveItem(ctx context.Context, productID uuid.UUID) error
	Clear(ctx context.Context) error
}

type service struct {
	repo     Repository
	products product.Repository
}

func NewService(repo Repository, products product.Repository) Service {
	return &service{repo: repo, products: products}
}

// AddItem merges into an existing row for the same product instead of
// creating a duplicate. Stock is validated against the merged quantity for
// discrete goods; weight-priced goods are checked at checkout where the
// gram arithmetic runs.
func (s *service) AddItem(ctx context.Context, input AddItemInput) (*Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.String("product_id", input.ProductID.String()),
	)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.products.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUserAndProduct(ctx, userID, input.ProductID)
	if err != nil {
		return nil, err
	}

	finalQty := input.Quantity
	if existing != nil {
		finalQty += existing.Quantity
	}

	if p.UnitPolicy() == product.UnitPerDiscrete && float64(finalQty) > p.Quantity {
		log.Warn("insufficient stock for cart merge",
			zap.Int32("requested", finalQty),
			zap.Float64("stock", p.Quantity),
		)
		return nil, ErrInsufficientStock
	}

	if existing == nil {
		return s.repo.Create(ctx, &Item{
			UserID:      userID,
			ProductID:   input.ProductID,
			Quantity:    input.Quantity,
			WeightGrams: input.WeightGrams,
		})
	}

	if err := s.repo.UpdateQuantity(ctx, userID, input.ProductID, finalQty); err != nil {
		return nil, err
	}
	existing.Quantity = finalQty
	return existing, nil
}

func (s *service) GetCart(ctx context.Context) ([]Row, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return s.repo.GetRows(ctx, userID)
}

// UpdateQuantity sets an absolute quantity; zero or below removes the row.
func (s *service) UpdateQuantity(ctx context.Context, input UpdateQuantityInput) error {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	if input.Quantity <= 0 {
		return s.repo.Remove(ctx, userID, input.ProductID)
	}
	return s.repo.UpdateQuantity(ctx, userID, input.ProductID, input.Quantity)
}

func (s *service) RemoveItem(ctx context.Context, productID uuid.UUID) error {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	return s.repo.Remove(ctx, userID, productID)
}

func (s *service) Clear(ctx context.Context) error {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	return s.repo.Clear(ctx, userID)
}
