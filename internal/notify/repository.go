package notify

import (
	"context"
	"database/sql"
	"encoding/json"

	"cosysta-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListUnreadForUser(ctx context.Context, userID uint) ([]*UserNotification, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID, userID uint, isRead bool) error
	RemoveRecipient(ctx context.Context, notificationID uuid.UUID, userID uint) error
	Delete(ctx context.Context, notificationID uuid.UUID) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Notification"),
		zap.String("method", "Create"),
		zap.String("notification_id", n.ID.String()),
		zap.Int("recipient_count", len(n.Recipients)),
	)

	data, err := json.Marshal(n.Data)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO notifications (id, title, body, type, data, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, n.ID, n.Title, n.Body, n.Type, data, n.SentAt)
	if err != nil {
		log.Error("failed to insert notification", zap.Error(err))
		return err
	}

	for _, rec := range n.Recipients {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO notification_recipients (notification_id, user_id, is_read)
			VALUES ($1, $2, $3)
		`, n.ID, rec.UserID, rec.IsRead)
		if err != nil {
			log.Error("failed to insert notification recipient",
				zap.Uint("user_id", rec.UserID),
				zap.Error(err),
			)
			return err
		}
	}

	return tx.Commit()
}

// ListUnreadForUser returns the caller's unread notifications with only
// their own recipient entry attached; read ones are not sent again.
func (r *repository) ListUnreadForUser(
	ctx context.Context,
	userID uint,
) ([]*UserNotification, error) {

	const q = `
		SELECT n.id, n.title, n.body, n.type, n.data, nr.is_read, n.created_at
		FROM notifications n
		JOIN notification_recipients nr ON nr.notification_id = n.id
		WHERE nr.user_id = $1
		  AND nr.is_read = false
		ORDER BY n.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query notifications",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	var res []*UserNotification
	for rows.Next() {
		var n UserNotification
		var data []byte
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.Type, &data, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &n.Data); err != nil {
				return nil, err
			}
		}
		res = append(res, &n)
	}

	return res, rows.Err()
}

func (r *repository) MarkRead(
	ctx context.Context,
	notificationID uuid.UUID,
	userID uint,
	isRead bool,
) error {

	res, err := r.db.ExecContext(ctx, `
		UPDATE notification_recipients
		SET is_read = $1
		WHERE notification_id = $2 AND user_id = $3
	`, isRead, notificationID, userID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrRecipientNotFound
	}
	return nil
}

func (r *repository) RemoveRecipient(
	ctx context.Context,
	notificationID uuid.UUID,
	userID uint,
) error {

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM notification_recipients
		WHERE notification_id = $1 AND user_id = $2
	`, notificationID, userID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrRecipientNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, notificationID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM notifications WHERE id = $1
	`, notificationID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
