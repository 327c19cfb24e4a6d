package shop

import (
	"context"
	"database/sql"
	"errors"

	"cosysta-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, s *Shop) error
	GetByID(ctx context.Context, id uuid.UUID) (*Shop, error)
	GetByOwner(ctx context.Context, ownerID uint) ([]*Shop, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Shop) error {
	const q = `
		INSERT INTO shops (id, owner_id, name, email, phone, city, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, q,
		s.ID, s.OwnerID, s.Name, s.Email, s.Phone, s.City, s.Address,
	).Scan(&s.CreatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to insert shop",
			zap.String("shop_id", s.ID.String()),
			zap.Error(err),
		)
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Shop, error) {
	const q = `
		SELECT id, owner_id, name, email, phone, city, address, created_at, updated_at
		FROM shops
		WHERE id = $1
	`

	var s Shop
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.OwnerID, &s.Name, &s.Email, &s.Phone,
		&s.City, &s.Address, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShopNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query shop",
			zap.String("shop_id", id.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return &s, nil
}

func (r *repository) GetByOwner(ctx context.Context, ownerID uint) ([]*Shop, error) {
	const q = `
		SELECT id, owner_id, name, email, phone, city, address, created_at, updated_at
		FROM shops
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Shop
	for rows.Next() {
		var s Shop
		if err := rows.Scan(
			&s.ID, &s.OwnerID, &s.Name, &s.Email, &s.Phone,
			&s.City, &s.Address, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, &s)
	}

	return res, rows.Err()
}
