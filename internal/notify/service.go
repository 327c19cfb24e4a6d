package notify

import (
	"context"
	"strconv"
	"time"

	"cosysta-be/internal/logger"
	"cosysta-be/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenSource exposes the stored push-capable device tokens.
type TokenSource interface {
	GetPushTokens(ctx context.Context, userID uint) ([]string, error)
	GetAllPushTokens(ctx context.Context) ([]string, error)
}

type Service interface {
	// SendShopOrderEmail renders and sends the per-shop order summary.
	// Fire-and-forget: the caller only logs a failure.
	SendShopOrderEmail(ctx context.Context, shopEmail string, data OrderEmailData) error

	// NotifyShopOwner persists an order alert for exactly the owning
	// shop's user.
	NotifyShopOwner(ctx context.Context, ownerID uint, title, body string, data map[string]any) error

	// NotifyUser persists a notification for one user and pushes it to
	// that user's devices.
	NotifyUser(ctx context.Context, userID uint, title, body, typ string, data map[string]any) error

	// Broadcast persists a marketplace-wide announcement for the given
	// recipients and pushes it to every stored push-capable token.
	Broadcast(ctx context.Context, recipientIDs []uint, title, body string, data map[string]any) error

	ListUnread(ctx context.Context, userID uint) ([]*UserNotification, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID, userID uint, isRead bool) error
	RemoveForUser(ctx context.Context, notificationID uuid.UUID, userID uint) error
	Delete(ctx context.Context, notificationID uuid.UUID) error
}

type service struct {
	repo   Repository
	mailer Mailer
	push   PushPublisher
	tokens TokenSource
}

func NewService(repo Repository, mailer Mailer, push PushPublisher, tokens TokenSource) Service {
	return &service{
		repo:   repo,
		mailer: mailer,
		push:   push,
		tokens: tokens,
	}
}

func (s *service) SendShopOrderEmail(
	ctx context.Context,
	shopEmail string,
	data OrderEmailData,
) error {

	body, err := RenderOrderEmail(data)
	if err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, shopEmail, OrderEmailSubject, body); err != nil {
		metrics.NotifyFailures.WithLabelValues("email").Inc()
		return err
	}
	return nil
}

func (s *service) NotifyShopOwner(
	ctx context.Context,
	ownerID uint,
	title, body string,
	data map[string]any,
) error {

	n := &Notification{
		ID:         uuid.New(),
		Title:      title,
		Body:       body,
		Type:       TypeOrder,
		Recipients: []Recipient{{UserID: ownerID}},
		Data:       data,
		SentAt:     time.Now(),
	}
	return s.repo.Create(ctx, n)
}

func (s *service) NotifyUser(
	ctx context.Context,
	userID uint,
	title, body, typ string,
	data map[string]any,
) error {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "NotifyUser"),
		zap.Uint("user_id", userID),
	)

	n := &Notification{
		ID:         uuid.New(),
		Title:      title,
		Body:       body,
		Type:       typ,
		Recipients: []Recipient{{UserID: userID}},
		Data:       data,
		SentAt:     time.Now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	tokens, err := s.tokens.GetPushTokens(ctx, userID)
	if err != nil {
		log.Warn("failed to load push tokens", zap.Error(err))
		return nil
	}
	if len(tokens) == 0 {
		log.Debug("no push tokens for user, push not sent")
		return nil
	}

	s.publish(ctx, PushMessage{
		Tokens: tokens,
		Title:  title,
		Body:   body,
		Data:   stringify(data),
	})
	return nil
}

func (s *service) Broadcast(
	ctx context.Context,
	recipientIDs []uint,
	title, body string,
	data map[string]any,
) error {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Broadcast"),
		zap.Int("recipient_count", len(recipientIDs)),
	)

	recipients := make([]Recipient, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		recipients = append(recipients, Recipient{UserID: id})
	}

	n := &Notification{
		ID:         uuid.New(),
		Title:      title,
		Body:       body,
		Type:       TypeAnnouncement,
		Recipients: recipients,
		Data:       data,
		SentAt:     time.Now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	tokens, err := s.tokens.GetAllPushTokens(ctx)
	if err != nil {
		log.Warn("failed to load push tokens", zap.Error(err))
		return nil
	}
	if len(tokens) == 0 {
		return nil
	}

	s.publish(ctx, PushMessage{
		Tokens: tokens,
		Title:  title,
		Body:   body,
		Data:   stringify(data),
	})
	return nil
}

// publish is best-effort: push transport failures are logged and counted,
// never propagated.
func (s *service) publish(ctx context.Context, msg PushMessage) {
	if s.push == nil {
		return
	}
	if err := s.push.Publish(ctx, msg); err != nil {
		metrics.NotifyFailures.WithLabelValues("push").Inc()
		logger.FromCtx(ctx).Warn("failed to publish push message",
			zap.Int("token_count", len(msg.Tokens)),
			zap.Error(err),
		)
	}
}

func (s *service) ListUnread(ctx context.Context, userID uint) ([]*UserNotification, error) {
	return s.repo.ListUnreadForUser(ctx, userID)
}

func (s *service) MarkRead(ctx context.Context, notificationID uuid.UUID, userID uint, isRead bool) error {
	return s.repo.MarkRead(ctx, notificationID, userID, isRead)
}

func (s *service) RemoveForUser(ctx context.Context, notificationID uuid.UUID, userID uint) error {
	return s.repo.RemoveRecipient(ctx, notificationID, userID)
}

func (s *service) Delete(ctx context.Context, notificationID uuid.UUID) error {
	return s.repo.Delete(ctx, notificationID)
}

func stringify(data map[string]any) map[string]string {
	if len(data) == 0 {
		return nil
	}
	out := make(map[string]string, len(data))
	for k, v := range data {
		switch t := v.(type) {
		case string:
			out[k] = t
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case int:
			out[k] = strconv.Itoa(t)
		case uint:
			out[k] = strconv.FormatUint(uint64(t), 10)
		default:
			out[k] = ""
		}
	}
	return out
}
