package product

import (
	"context"
	"time"

	"cosysta-be/internal/logger"
	"cosysta-be/internal/shop"
	"cosysta-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error)
	GetProducts(ctx context.Context, filter *FilterInput, sort *SortInput, limit, page int32) ([]*Product, int64, error)
}

type service struct {
	repo  Repository
	shops shop.Repository
}

func NewService(repo Repository, shops shop.Repository) Service {
	return &service{repo: repo, shops: shops}
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
		zap.String("name", input.Name),
	)

	if input.Name == "" || input.Price < 0 || input.Quantity < 0 || input.ProductType == "" {
		log.Warn("invalid product input")
		return nil, ErrInvalidInput
	}

	// Only the shop's owner may list products under it.
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, shop.ErrUnauthenticated
	}
	sh, err := s.shops.GetByID(ctx, input.ShopID)
	if err != nil {
		return nil, err
	}
	if sh.OwnerID != userID {
		log.Warn("shop not owned by caller",
			zap.String("shop_id", sh.ID.String()),
			zap.Uint("owner_id", sh.OwnerID),
		)
		return nil, shop.ErrNotOwner
	}

	p := &Product{
		ID:             uuid.New(),
		ShopID:         input.ShopID,
		Name:           input.Name,
		Description:    input.Description,
		Category:       input.Category,
		ImageURL:       input.ImageURL,
		Price:          input.Price,
		Quantity:       input.Quantity,
		Sold:           0,
		ProductType:    input.ProductType,
		DeliveryOption: input.DeliveryOption,
		CreatedAt:      time.Now(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created",
		zap.String("product_id", p.ID.String()),
		zap.String("unit_policy", string(p.UnitPolicy())),
	)
	return p, nil
}

func (s *service) GetProducts(
	ctx context.Context,
	filter *FilterInput,
	sort *SortInput,
	limit, page int32,
) ([]*Product, int64, error) {

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}

	return s.repo.List(ctx, filter, sort, limit, page)
}
