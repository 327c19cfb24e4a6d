package address

import (
	"context"
	"database/sql"
	"errors"

	"cosysta-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID uint) ([]*Address, error)

	// GetForUser resolves one address within the customer's saved set.
	GetForUser(ctx context.Context, userID uint, addressID uuid.UUID) (*Address, error)

	Create(ctx context.Context, addr *Address) error
	Delete(ctx context.Context, userID uint, addressID uuid.UUID) error

	ClearDefault(ctx context.Context, userID uint) error
	SetDefault(ctx context.Context, userID uint, addressID uuid.UUID) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const addressColumns = `
	id, user_id,
	country, state, town, area, landmark, pincode, house_no,
	is_default, created_at, updated_at
`

func (r *repository) GetByUserID(
	ctx context.Context,
	userID uint,
) ([]*Address, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Address"),
		zap.String("method", "GetByUserID"),
		zap.Uint("user_id", userID),
	)

	q := `
		SELECT ` + addressColumns + `
		FROM delivery_addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var res []*Address
	for rows.Next() {
		var a Address
		if err := rows.Scan(
			&a.ID, &a.UserID,
			&a.Country, &a.State, &a.Town, &a.Area, &a.Landmark, &a.Pincode, &a.HouseNo,
			&a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			log.Error("scan failed", zap.Error(err))
			return nil, err
		}
		res = append(res, &a)
	}

	return res, rows.Err()
}

func (r *repository) GetForUser(
	ctx context.Context,
	userID uint,
	addressID uuid.UUID,
) (*Address, error) {

	q := `
		SELECT ` + addressColumns + `
		FROM delivery_addresses
		WHERE id = $1 AND user_id = $2
		LIMIT 1
	`

	var a Address
	err := r.db.QueryRowContext(ctx, q, addressID, userID).Scan(
		&a.ID, &a.UserID,
		&a.Country, &a.State, &a.Town, &a.Area, &a.Landmark, &a.Pincode, &a.HouseNo,
		&a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query address",
			zap.String("address_id", addressID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return &a, nil
}

func (r *repository) Create(ctx context.Context, addr *Address) error {
	const q = `
		INSERT INTO delivery_addresses (
			id, user_id,
			country, state, town, area, landmark, pincode, house_no,
			is_default
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`

	_, err := r.db.ExecContext(ctx, q,
		addr.ID, addr.UserID,
		addr.Country, addr.State, addr.Town, addr.Area, addr.Landmark, addr.Pincode, addr.HouseNo,
		addr.IsDefault,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to insert address",
			zap.String("address_id", addr.ID.String()),
			zap.Error(err),
		)
	}
	return err
}

func (r *repository) Delete(ctx context.Context, userID uint, addressID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM delivery_addresses
		WHERE id = $1 AND user_id = $2
	`, addressID, userID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (r *repository) ClearDefault(ctx context.Context, userID uint) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE delivery_addresses
		SET is_default = false
		WHERE user_id = $1
		  AND is_default = true
	`, userID)
	return err
}

func (r *repository) SetDefault(ctx context.Context, userID uint, addressID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE delivery_addresses
		SET is_default = true
		WHERE id = $1 AND user_id = $2
	`, addressID, userID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrAddressNotFound
	}
	return nil
}
