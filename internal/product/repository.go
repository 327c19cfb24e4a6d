package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"cosysta-be/internal/logger"
	"cosysta-be/internal/shop"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// GetForCheckout resolves a product together with its owning shop's
	// contact snapshot in one round trip.
	GetForCheckout(ctx context.Context, id uuid.UUID) (*Product, *shop.Shop, error)

	Create(ctx context.Context, p *Product) error
	List(ctx context.Context, filter *FilterInput, sort *SortInput, limit, page int32) ([]*Product, int64, error)

	// ApplyAdjustment applies a stock delta and a sold delta in one atomic
	// write. Stock clamps at zero instead of going negative. Returns the
	// post-write stock level.
	ApplyAdjustment(ctx context.Context, id uuid.UUID, stockDelta, soldDelta float64) (float64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	id, shop_id, name, description, category, image_url,
	price, quantity, sold, product_type, estimated_time, delivery_option,
	created_at, updated_at
`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.ShopID, &p.Name, &p.Description, &p.Category, &p.ImageURL,
		&p.Price, &p.Quantity, &p.Sold, &p.ProductType, &p.EstimatedTime, &p.DeliveryOption,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query product",
			zap.String("product_id", id.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return p, nil
}

func (r *repository) GetForCheckout(
	ctx context.Context,
	id uuid.UUID,
) (*Product, *shop.Shop, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Product"),
		zap.String("method", "GetForCheckout"),
		zap.String("product_id", id.String()),
	)

	const q = `
		SELECT
			p.id, p.shop_id, p.name, p.price, p.quantity, p.sold, p.product_type,
			s.id, s.owner_id, s.name, s.email
		FROM products p
		JOIN shops s ON s.id = p.shop_id
		WHERE p.id = $1
	`

	var p Product
	var s shop.Shop

	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.ShopID, &p.Name, &p.Price, &p.Quantity, &p.Sold, &p.ProductType,
		&s.ID, &s.OwnerID, &s.Name, &s.Email,
	)
	if errors.Is(err, sql.ErrNoRows) {
		log.Warn("product not found for checkout")
		return nil, nil, ErrProductNotFound
	}
	if err != nil {
		log.Error("failed to query product for checkout", zap.Error(err))
		return nil, nil, err
	}

	return &p, &s, nil
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	const q = `
		INSERT INTO products (
			id, shop_id, name, description, category, image_url,
			price, quantity, sold, product_type, delivery_option
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`

	_, err := r.db.ExecContext(ctx, q,
		p.ID, p.ShopID, p.Name, p.Description, p.Category, p.ImageURL,
		p.Price, p.Quantity, p.Sold, p.ProductType, p.DeliveryOption,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to insert product",
			zap.String("product_id", p.ID.String()),
			zap.Error(err),
		)
	}
	return err
}

func (r *repository) List(
	ctx context.Context,
	filter *FilterInput,
	sort *SortInput,
	limit, page int32,
) ([]*Product, int64, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Product"),
		zap.String("method", "List"),
		zap.Int32("limit", limit),
		zap.Int32("page", page),
	)

	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM products WHERE 1=1`

	args := []any{}
	argIndex := 1

	addCond := func(cond string, val any) {
		clause := fmt.Sprintf(cond, argIndex)
		query += clause
		countQuery += clause
		args = append(args, val)
		argIndex++
	}

	if filter != nil {
		if filter.Search != nil && *filter.Search != "" {
			addCond(" AND (name ILIKE $%[1]d OR description ILIKE $%[1]d OR category ILIKE $%[1]d)", "%"+*filter.Search+"%")
		}
		if filter.Category != nil && *filter.Category != "" {
			addCond(" AND category ILIKE $%d", *filter.Category)
		}
		if filter.MinPrice != nil {
			addCond(" AND price >= $%d", *filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			addCond(" AND price <= $%d", *filter.MaxPrice)
		}
		if filter.InStock != nil {
			if *filter.InStock {
				query += " AND quantity > 0"
				countQuery += " AND quantity > 0"
			} else {
				query += " AND quantity <= 0"
				countQuery += " AND quantity <= 0"
			}
		}
		if filter.MinSold != nil {
			addCond(" AND sold >= $%d", *filter.MinSold)
		}
		if filter.ShopID != nil {
			addCond(" AND shop_id = $%d", *filter.ShopID)
		}
	}

	orderBy := "created_at DESC"
	if sort != nil {
		dir := strings.ToUpper(sort.Direction)
		if dir != "ASC" && dir != "DESC" {
			dir = "DESC"
		}
		switch sort.Field {
		case SortFieldPrice:
			orderBy = "price " + dir
		case SortFieldPopularity:
			orderBy = "sold " + dir
		case SortFieldCreatedAt:
			orderBy = "created_at " + dir
		}
	}
	query += " ORDER BY " + orderBy

	offset := (page - 1) * limit
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)

	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("failed to scan product row", zap.Error(err))
			return nil, 0, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count products", zap.Error(err))
		return nil, 0, err
	}

	return products, total, nil
}

func (r *repository) ApplyAdjustment(
	ctx context.Context,
	id uuid.UUID,
	stockDelta, soldDelta float64,
) (float64, error) {

	// Single write per line item: stock and sold move together, and the
	// GREATEST clamp keeps concurrent checkouts from driving stock negative.
	const q = `
		UPDATE products
		SET quantity = GREATEST(quantity + $1, 0),
		    sold = sold + $2,
		    updated_at = NOW()
		WHERE id = $3
		RETURNING quantity
	`

	var newQuantity float64
	err := r.db.QueryRowContext(ctx, q, stockDelta, soldDelta, id).Scan(&newQuantity)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to apply inventory adjustment",
			zap.String("product_id", id.String()),
			zap.Float64("stock_delta", stockDelta),
			zap.Float64("sold_delta", soldDelta),
			zap.Error(err),
		)
		return 0, err
	}

	return newQuantity, nil
}
