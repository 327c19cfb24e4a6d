package shop

import (
	"context"

	"cosysta-be/internal/logger"
	"cosysta-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateShopInput struct {
	Name    string
	Email   string
	Phone   *string
	City    *string
	Address *string
}

type Service interface {
	// CreateShop registers a shop owned by the calling user.
	CreateShop(ctx context.Context, input CreateShopInput) (*Shop, error)

	GetShop(ctx context.Context, id uuid.UUID) (*Shop, error)

	// GetMyShops lists the shops owned by the calling user.
	GetMyShops(ctx context.Context) ([]*Shop, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateShop(ctx context.Context, input CreateShopInput) (*Shop, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateShop"),
		zap.Uint("owner_id", userID),
	)

	if input.Name == "" || input.Email == "" {
		log.Warn("invalid shop input")
		return nil, ErrInvalidInput
	}

	sh := &Shop{
		ID:      uuid.New(),
		OwnerID: userID,
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		City:    input.City,
		Address: input.Address,
	}
	if err := s.repo.Create(ctx, sh); err != nil {
		log.Error("failed to create shop", zap.Error(err))
		return nil, err
	}

	log.Info("shop created", zap.String("shop_id", sh.ID.String()))
	return sh, nil
}

func (s *service) GetShop(ctx context.Context, id uuid.UUID) (*Shop, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetMyShops(ctx context.Context) ([]*Shop, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return s.repo.GetByOwner(ctx, userID)
}
