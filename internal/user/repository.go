package user

import (
	"context"
	"database/sql"
	"errors"

	"cosysta-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, input RegisterInput, hashedPassword string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uint) (*User, error)

	// Push token bookkeeping for broad announcements.
	AddPushToken(ctx context.Context, userID uint, token string) error
	GetPushTokens(ctx context.Context, userID uint) ([]string, error)
	GetAllPushTokens(ctx context.Context) ([]string, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, input RegisterInput, hashedPassword string) (*User, error) {
	u := &User{
		Name:         input.Name,
		Email:        input.Email,
		MobileNumber: input.MobileNumber,
		Role:         RoleUser,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, mobile_number, password, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, input.Name, input.Email, input.MobileNumber, hashedPassword, RoleUser).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to insert user",
			zap.String("email", input.Email),
			zap.Error(err),
		)
		return nil, err
	}

	return u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	const q = `
		SELECT id, name, email, mobile_number, password, role, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	var u User
	err := r.db.QueryRowContext(ctx, q, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.MobileNumber, &u.Password, &u.Role,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*User, error) {
	const q = `
		SELECT id, name, email, mobile_number, password, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u User
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.MobileNumber, &u.Password, &u.Role,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query user",
			zap.Uint("user_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	return &u, nil
}

func (r *repository) AddPushToken(ctx context.Context, userID uint, token string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO push_tokens (user_id, token)
		VALUES ($1, $2)
		ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id
	`, userID, token)
	return err
}

func (r *repository) GetPushTokens(ctx context.Context, userID uint) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT token FROM push_tokens WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTokens(rows)
}

func (r *repository) GetAllPushTokens(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT token FROM push_tokens`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTokens(rows)
}

func collectTokens(rows *sql.Rows) ([]string, error) {
	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
