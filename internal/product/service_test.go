package product

import (
	"context"
	"testing"

	"cosysta-be/internal/shop"
	"cosysta-be/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) GetForCheckout(ctx context.Context, id uuid.UUID) (*Product, *shop.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*Product), args.Get(1).(*shop.Shop), args.Error(2)
}

func (m *MockRepository) Create(ctx context.Context, p *Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context, filter *FilterInput, sort *SortInput, limit, page int32) ([]*Product, int64, error) {
	args := m.Called(ctx, filter, sort, limit, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ApplyAdjustment(ctx context.Context, id uuid.UUID, stockDelta, soldDelta float64) (float64, error) {
	args := m.Called(ctx, id, stockDelta, soldDelta)
	return args.Get(0).(float64), args.Error(1)
}

type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) Create(ctx context.Context, s *shop.Shop) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShopRepository) GetByID(ctx context.Context, id uuid.UUID) (*shop.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shop.Shop), args.Error(1)
}

func (m *MockShopRepository) GetByOwner(ctx context.Context, ownerID uint) ([]*shop.Shop, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shop.Shop), args.Error(1)
}

func TestService_CreateProduct(t *testing.T) {
	shopID := uuid.New()
	ownerCtx := utils.SetUserContext(context.Background(), 11, "owner@example.com", "USER")

	input := CreateProductInput{
		ShopID:      shopID,
		Name:        "Tomato",
		Category:    "vegetables",
		Price:       40,
		Quantity:    10,
		ProductType: "kg",
	}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		shops := new(MockShopRepository)
		svc := NewService(repo, shops)

		shops.On("GetByID", ownerCtx, shopID).
			Return(&shop.Shop{ID: shopID, OwnerID: 11}, nil)
		repo.On("Create", ownerCtx, mock.MatchedBy(func(p *Product) bool {
			return p.ShopID == shopID && p.Sold == 0 && p.UnitPolicy() == UnitPerWeight
		})).Return(nil)

		p, err := svc.CreateProduct(ownerCtx, input)
		require.NoError(t, err)
		assert.Equal(t, "Tomato", p.Name)
		repo.AssertExpectations(t)
	})

	t.Run("ShopOwnedBySomeoneElse", func(t *testing.T) {
		repo := new(MockRepository)
		shops := new(MockShopRepository)
		svc := NewService(repo, shops)

		shops.On("GetByID", ownerCtx, shopID).
			Return(&shop.Shop{ID: shopID, OwnerID: 99}, nil)

		_, err := svc.CreateProduct(ownerCtx, input)
		assert.ErrorIs(t, err, shop.ErrNotOwner)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("ShopMissing", func(t *testing.T) {
		repo := new(MockRepository)
		shops := new(MockShopRepository)
		svc := NewService(repo, shops)

		shops.On("GetByID", ownerCtx, shopID).Return(nil, shop.ErrShopNotFound)

		_, err := svc.CreateProduct(ownerCtx, input)
		assert.ErrorIs(t, err, shop.ErrShopNotFound)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockShopRepository))

		_, err := svc.CreateProduct(context.Background(), input)
		assert.ErrorIs(t, err, shop.ErrUnauthenticated)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockShopRepository))

		bad := input
		bad.Name = ""
		_, err := svc.CreateProduct(ownerCtx, bad)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_GetProducts(t *testing.T) {
	t.Run("LimitClampedTo100", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockShopRepository))

		repo.On("List", mock.Anything, (*FilterInput)(nil), (*SortInput)(nil), int32(100), int32(1)).
			Return([]*Product{}, int64(0), nil)

		_, _, err := svc.GetProducts(context.Background(), nil, nil, 500, 0)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
