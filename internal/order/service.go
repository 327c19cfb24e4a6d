package order

import (
	"context"
	"fmt"
	"math"
	"time"

	"cosysta-be/internal/address"
	"cosysta-be/internal/inventory"
	"cosysta-be/internal/logger"
	"cosysta-be/internal/metrics"
	"cosysta-be/internal/notify"
	"cosysta-be/internal/product"
	"cosysta-be/internal/user"
	"cosysta-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// totalTolerance is the maximum accepted drift between the client-declared
// cart total and the server-side recomputation.
const totalTolerance = 0.01

type Service interface {
	// PlaceOrder runs one checkout: resolve, group, notify, record, adjust.
	PlaceOrder(ctx context.Context, input CheckoutInput) (*Order, error)

	GetOrders(ctx context.Context, filter *FilterInput, sort *SortInput, limit, page int32) ([]*Order, int64, error)
	GetOrderDetail(ctx context.Context, orderID uuid.UUID) (*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status Status) (*Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status PaymentStatus) error
}

type service struct {
	repo      Repository
	users     user.Repository
	addresses address.Repository
	products  product.Repository
	adjuster  *inventory.Adjuster
	notifier  notify.Service
}

func NewService(
	repo Repository,
	users user.Repository,
	addresses address.Repository,
	products product.Repository,
	adjuster *inventory.Adjuster,
	notifier notify.Service,
) Service {
	return &service{
		repo:      repo,
		users:     users,
		addresses: addresses,
		products:  products,
		adjuster:  adjuster,
		notifier:  notifier,
	}
}

// PlaceOrder is the fulfillment engine. The resolve phase (customer,
// address, products) is fatal on any miss and performs no writes; from the
// email stage on, every step is best-effort or independently committed —
// there is no rollback and no idempotency, so a retried call decrements
// stock again.
func (s *service) PlaceOrder(ctx context.Context, input CheckoutInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceOrder"),
		zap.Int("item_count", len(input.Items)),
	)

	log.Info("checkout started")

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	if len(input.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// 1. Resolve customer.
	customer, err := s.users.GetByID(ctx, userID)
	if err != nil {
		log.Warn("customer not found", zap.Uint("user_id", userID))
		return nil, err
	}

	// 2. Resolve the delivery address within the customer's saved set.
	addr, err := s.addresses.GetForUser(ctx, userID, input.AddressID)
	if err != nil {
		log.Warn("address not found",
			zap.String("address_id", input.AddressID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	// 3. Resolve every product and its owning shop. A miss here rejects
	// the whole checkout, unlike the per-item leniency of the later
	// adjustment loop.
	resolved := make([]ResolvedItem, 0, len(input.Items))
	var serverTotal float64

	for i, item := range input.Items {
		if item.Quantity <= 0 {
			log.Warn("invalid quantity", zap.Int("index", i))
			return nil, ErrInvalidQuantity
		}

		p, sh, err := s.products.GetForCheckout(ctx, item.ProductID)
		if err != nil {
			log.Warn("failed to resolve product",
				zap.Int("index", i),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err),
			)
			return nil, err
		}

		policy := p.UnitPolicy()
		lineTotal := lineTotalFor(p.Price, policy, item.Quantity, item.WeightGrams)
		serverTotal += lineTotal

		resolved = append(resolved, ResolvedItem{
			LineItem: LineItem{
				ProductID:   p.ID,
				ShopID:      p.ShopID,
				Name:        p.Name,
				UnitPrice:   p.Price,
				Quantity:    item.Quantity,
				WeightGrams: item.WeightGrams,
				UnitPolicy:  policy,
				LineTotal:   lineTotal,
			},
			Shop: *sh,
		})
	}

	// The declared total is validated against the server-side
	// recomputation, never trusted.
	if math.Abs(serverTotal-input.TotalCartAmount) > totalTolerance {
		log.Warn("cart total mismatch",
			zap.Float64("declared", input.TotalCartAmount),
			zap.Float64("computed", serverTotal),
		)
		return nil, fmt.Errorf("%w: expected %.2f", ErrTotalMismatch, serverTotal)
	}

	// 4. Partition by shop.
	groups := GroupByShop(resolved)

	// 5. Per-shop email summaries. Failures are logged, never abort.
	for _, g := range groups {
		data := notify.OrderEmailData{
			CustomerName:   customer.Name,
			CustomerEmail:  customer.Email,
			CustomerMobile: customer.MobileNumber,
			Address:        addr.Snapshot(),
			Items:          emailLines(g.Items),
			Subtotal:       g.Subtotal(),
		}
		if err := s.notifier.SendShopOrderEmail(ctx, g.Shop.Email, data); err != nil {
			log.Warn("failed to send shop order email",
				zap.String("shop_id", g.Shop.ID.String()),
				zap.Error(err),
			)
		}
	}

	// 6. Persist the order document.
	o := &Order{
		ID:              uuid.New(),
		UserID:          userID,
		Items:           items(resolved),
		Address:         addr.Snapshot(),
		TotalCartAmount: serverTotal,
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		CreatedAt:       time.Now(),
	}
	if err := s.repo.Create(ctx, o); err != nil {
		log.Error("failed to persist order", zap.Error(err))
		return nil, err
	}

	// 7+8. Stock decrement and sold increment, one combined write per
	// line item. Lines whose product vanished are skipped.
	if skipped := s.adjuster.Apply(ctx, inventoryLines(o.Items)); skipped > 0 {
		log.Warn("some line items skipped stock adjustment", zap.Int("skipped", skipped))
	}

	// 9. One persisted notification per affected shop, addressed to its
	// owner only. Best-effort.
	for _, g := range groups {
		body := fmt.Sprintf("%s ordered %d item(s) totaling ₹%.2f from your shop.",
			customer.Name, len(g.Items), g.Subtotal())
		err := s.notifier.NotifyShopOwner(ctx, g.Shop.OwnerID, "New Order Received", body, map[string]any{
			"order_id": o.ID.String(),
			"shop_id":  g.Shop.ID.String(),
		})
		if err != nil {
			log.Warn("failed to persist shop notification",
				zap.String("shop_id", g.Shop.ID.String()),
				zap.Error(err),
			)
		}
	}

	metrics.OrdersPlaced.Inc()
	log.Info("checkout completed",
		zap.String("order_id", o.ID.String()),
		zap.Int("shop_count", len(groups)),
		zap.Float64("total", serverTotal),
	)

	return o, nil
}

func (s *service) GetOrders(
	ctx context.Context,
	filter *FilterInput,
	sort *SortInput,
	limit, page int32,
) ([]*Order, int64, error) {

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, 0, ErrUnauthenticated
	}

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}

	// Non-admins only ever see their own orders.
	if utils.GetUserRoleFromContext(ctx) != "ADMIN" {
		if filter == nil {
			filter = &FilterInput{}
		}
		filter.UserID = &userID
	}

	return s.repo.List(ctx, filter, sort, limit, page)
}

func (s *service) GetOrderDetail(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	isAdmin := utils.GetUserRoleFromContext(ctx) == "ADMIN"
	if !isAdmin && o.UserID != userID {
		return nil, ErrUnauthorized
	}

	return o, nil
}

// UpdateOrderStatus transitions an order. Canceling a not-yet-canceled
// order restores stock and rolls back the sold counters using the same
// snapshotted arithmetic that was applied at placement.
func (s *service) UpdateOrderStatus(
	ctx context.Context,
	orderID uuid.UUID,
	status Status,
) (*Order, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrderStatus"),
		zap.String("order_id", orderID.String()),
		zap.String("status", string(status)),
	)

	switch status {
	case StatusPending, StatusShipped, StatusDelivered, StatusCanceled:
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if status == StatusCanceled && o.Status != StatusCanceled {
		if skipped := s.adjuster.Revert(ctx, inventoryLines(o.Items)); skipped > 0 {
			log.Warn("some line items skipped stock restoration", zap.Int("skipped", skipped))
		}
		metrics.OrdersCanceled.Inc()
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	o.Status = status
	log.Info("order status updated")
	return o, nil
}

func (s *service) UpdatePaymentStatus(
	ctx context.Context,
	orderID uuid.UUID,
	status PaymentStatus,
) error {

	switch status {
	case PaymentPending, PaymentPaid, PaymentFailed:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidPaymentStatus, status)
	}

	return s.repo.UpdatePaymentStatus(ctx, orderID, status)
}

// lineTotalFor recomputes one line's total from the catalog price. For
// weight-priced goods the price is per kilogram, so an explicit gram
// amount scales it; a bare quantity counts as whole kilograms.
func lineTotalFor(price float64, policy product.UnitPolicy, quantity int32, weightGrams *float64) float64 {
	if policy == product.UnitPerWeight && weightGrams != nil {
		return price * (*weightGrams * float64(quantity)) / 1000
	}
	return price * float64(quantity)
}

func items(resolved []ResolvedItem) []LineItem {
	out := make([]LineItem, 0, len(resolved))
	for _, r := range resolved {
		out = append(out, r.LineItem)
	}
	return out
}

func inventoryLines(items []LineItem) []inventory.Line {
	lines := make([]inventory.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, inventory.Line{
			ProductID:   item.ProductID,
			UnitPolicy:  item.UnitPolicy,
			Quantity:    item.Quantity,
			WeightGrams: item.WeightGrams,
		})
	}
	return lines
}

func emailLines(items []LineItem) []notify.EmailLine {
	lines := make([]notify.EmailLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, notify.EmailLine{
			Name:        item.Name,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			WeightGrams: item.WeightGrams,
			LineTotal:   item.LineTotal,
		})
	}
	return lines
}
