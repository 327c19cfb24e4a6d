package cart

import (
	"context"
	"database/sql"
	"errors"

	"cosysta-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	GetByUserAndProduct(ctx context.Context, userID uint, productID uuid.UUID) (*Item, error)
	Create(ctx context.Context, item *Item) (*Item, error)
	UpdateQuantity(ctx context.Context, userID uint, productID uuid.UUID, quantity int32) error
	Remove(ctx context.Context, userID uint, productID uuid.UUID) error
	Clear(ctx context.Context, userID uint) error
	GetRows(ctx context.Context, userID uint) ([]Row, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUserAndProduct(
	ctx context.Context,
	userID uint,
	productID uuid.UUID,
) (*Item, error) {

	var item Item
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, product_id, quantity, weight_grams, created_at, updated_at
		FROM carts
		WHERE user_id = $1 AND product_id = $2
	`, userID, productID).Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.Quantity,
		&item.WeightGrams, &item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) Create(ctx context.Context, item *Item) (*Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Cart"),
		zap.String("method", "Create"),
		zap.Uint("user_id", item.UserID),
		zap.String("product_id", item.ProductID.String()),
	)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO carts (id, user_id, product_id, quantity, weight_grams)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, product_id, quantity, weight_grams, created_at, updated_at
	`,
		uuid.New(), item.UserID, item.ProductID, item.Quantity, item.WeightGrams,
	).Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.Quantity,
		&item.WeightGrams, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create cart item", zap.Error(err))
		return nil, err
	}

	log.Info("cart item created", zap.String("cart_item_id", item.ID.String()))
	return item, nil
}

func (r *repository) UpdateQuantity(
	ctx context.Context,
	userID uint,
	productID uuid.UUID,
	quantity int32,
) error {

	res, err := r.db.ExecContext(ctx, `
		UPDATE carts
		SET quantity = $1, updated_at = NOW()
		WHERE user_id = $2 AND product_id = $3
	`, quantity, userID, productID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repository) Remove(ctx context.Context, userID uint, productID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM carts
		WHERE user_id = $1 AND product_id = $2
	`, userID, productID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repository) Clear(ctx context.Context, userID uint) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	return err
}

func (r *repository) GetRows(ctx context.Context, userID uint) ([]Row, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Cart"),
		zap.String("method", "GetRows"),
		zap.Uint("user_id", userID),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			c.id, c.user_id, c.product_id, c.quantity, c.weight_grams,
			c.created_at, c.updated_at,
			p.name, p.price, p.product_type, p.quantity,
			s.id, s.name
		FROM carts c
		JOIN products p ON c.product_id = p.id
		JOIN shops s ON p.shop_id = s.id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC
	`, userID)
	if err != nil {
		log.Error("failed to query cart rows", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []Row{}
	for rows.Next() {
		var row Row
		if err := rows.Scan(
			&row.ID, &row.UserID, &row.ProductID, &row.Quantity, &row.WeightGrams,
			&row.CreatedAt, &row.UpdatedAt,
			&row.ProductName, &row.ProductPrice, &row.ProductType, &row.Stock,
			&row.ShopID, &row.ShopName,
		); err != nil {
			log.Error("failed to scan cart row", zap.Error(err))
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
