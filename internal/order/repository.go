package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cosysta-be/internal/address"
	"cosysta-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID uuid.UUID) (*Order, error)
	List(ctx context.Context, filter *FilterInput, sort *SortInput, limit, page int32) ([]*Order, int64, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status Status) error
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status PaymentStatus) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Order"),
		zap.String("method", "Create"),
		zap.String("order_id", o.ID.String()),
		zap.Int("item_count", len(o.Items)),
	)

	addrJSON, err := json.Marshal(o.Address)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, user_id, address, total_cart_amount,
			status, payment_status, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		o.ID, o.UserID, addrJSON, o.TotalCartAmount,
		o.Status, o.PaymentStatus, o.CreatedAt,
	)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for i, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, product_id, shop_id, name,
				unit_price, quantity, weight_grams, unit_policy, line_total
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`,
			o.ID, item.ProductID, item.ShopID, item.Name,
			item.UnitPrice, item.Quantity, item.WeightGrams, item.UnitPolicy, item.LineTotal,
		)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int("item_index", i),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err),
			)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("order persisted")
	return nil
}

func (r *repository) GetByID(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	var o Order
	var addrJSON []byte

	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, address, total_cart_amount,
		       status, payment_status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, orderID).Scan(
		&o.ID, &o.UserID, &addrJSON, &o.TotalCartAmount,
		&o.Status, &o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if len(addrJSON) > 0 {
		var snap address.Snapshot
		if err := json.Unmarshal(addrJSON, &snap); err != nil {
			return nil, err
		}
		o.Address = snap
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, shop_id, name,
		       unit_price, quantity, weight_grams, unit_policy, line_total
		FROM order_items
		WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item LineItem
		if err := rows.Scan(
			&item.ProductID, &item.ShopID, &item.Name,
			&item.UnitPrice, &item.Quantity, &item.WeightGrams, &item.UnitPolicy, &item.LineTotal,
		); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *repository) List(
	ctx context.Context,
	filter *FilterInput,
	sort *SortInput,
	limit, page int32,
) ([]*Order, int64, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Order"),
		zap.String("method", "List"),
		zap.Int32("limit", limit),
		zap.Int32("page", page),
	)

	query := `
		SELECT id, user_id, total_cart_amount, status, payment_status, created_at, updated_at
		FROM orders
		WHERE 1=1
	`
	countQuery := `SELECT COUNT(*) FROM orders WHERE 1=1`

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
		if filter.UserID != nil {
			addCond(" AND user_id = $%d", *filter.UserID)
		}
		if filter.Status != nil {
			addCond(" AND status = $%d", *filter.Status)
		}
		if filter.PaymentStatus != nil {
			addCond(" AND payment_status = $%d", *filter.PaymentStatus)
		}
		if filter.MinTotal != nil {
			addCond(" AND total_cart_amount >= $%d", *filter.MinTotal)
		}
		if filter.MaxTotal != nil {
			addCond(" AND total_cart_amount <= $%d", *filter.MaxTotal)
		}
		if filter.DateFrom != nil {
			addCond(" AND created_at >= $%d", *filter.DateFrom)
		}
		if filter.DateTo != nil {
			addCond(" AND created_at <= $%d", *filter.DateTo)
		}
	}

	orderBy := "created_at DESC"
	if sort != nil {
		dir := strings.ToUpper(sort.Direction)
		if dir != "ASC" && dir != "DESC" {
			dir = "DESC"
		}
		switch sort.Field {
		case SortFieldTotal:
			orderBy = "total_cart_amount " + dir
		case SortFieldCreatedAt:
			orderBy = "created_at " + dir
		}
	}
	query += " ORDER BY " + orderBy

	offset := (page - 1) * limit
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)

	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.TotalCartAmount, &o.Status, &o.PaymentStatus,
			&o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, 0, err
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count orders", zap.Error(err))
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, orderID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status PaymentStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET payment_status = $1, updated_at = NOW() WHERE id = $2
	`, status, orderID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
