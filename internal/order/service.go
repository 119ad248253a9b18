package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopfront/internal/cache"
	"shopfront/internal/coupon"
	"shopfront/internal/events"
	"shopfront/internal/model"
	"shopfront/internal/pricing"
	"shopfront/internal/repository"
	"shopfront/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PlaceOrderInput carries everything needed to convert a cart into an order.
// Any client-supplied totals are ignored; the breakdown is recomputed from
// the cart's current lines before the order is persisted.
type PlaceOrderInput struct {
	OwnerID       string
	Address       model.Address
	PaymentMethod string
	CouponCode    string
}

// Service defines operations for order management.
type Service interface {
	// PlaceOrder converts the owner's cart into an immutable order and
	// clears the cart as one atomic unit. Retrying after a network failure
	// is safe: placement from an unchanged cart revision returns the
	// already-created order instead of a duplicate.
	PlaceOrder(ctx context.Context, in PlaceOrderInput) (*model.Order, error)

	// UpdateStatus moves an order along its lifecycle state machine.
	UpdateStatus(ctx context.Context, orderID string, next model.OrderStatus) (*model.Order, error)

	// GetByID retrieves a single order.
	GetByID(ctx context.Context, orderID string) (*model.Order, error)

	// ListByOwner retrieves the owner's orders, newest first.
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]model.Order, error)
}

// orderService implements Service.
type orderService struct {
	orders    repository.OrderRepository
	carts     repository.CartRepository
	cartCache cache.CartCache
	coupons   *coupon.Table
	shipping  pricing.ShippingPolicy
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewService creates a new order service.
func NewService(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	cartCache cache.CartCache,
	coupons *coupon.Table,
	shipping pricing.ShippingPolicy,
	publisher events.Publisher,
	logger zerolog.Logger,
) Service {
	return &orderService{
		orders:    orders,
		carts:     carts,
		cartCache: cartCache,
		coupons:   coupons,
		shipping:  shipping,
		publisher: publisher,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*model.Order, error) {
	cart, err := s.carts.Get(ctx, in.OwnerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, model.ErrEmptyCart
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	// Anonymous carts have no account owner; they must be merged into an
	// authenticated account before checkout.
	if cart.Anonymous || cart.OwnerID != in.OwnerID {
		s.logger.Warn().Str("owner_id", in.OwnerID).Msg("cart ownership check failed")
		return nil, model.ErrUnauthorised
	}
	if cart.IsEmpty() {
		return nil, model.ErrEmptyCart
	}
	if !in.Address.Complete() {
		return nil, model.ErrInvalidAddress
	}

	discount, err := s.coupons.Policy(in.CouponCode)
	if err != nil {
		s.logger.Warn().Str("coupon_code", in.CouponCode).Msg("invalid coupon code")
		return nil, err
	}

	// The cart revision is the idempotency token: a retry of a placement
	// that already committed finds the existing order instead of creating
	// a second one.
	existing, err := s.orders.FindByCartVersion(ctx, in.OwnerID, cart.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing order: %w", err)
	}
	if existing != nil {
		s.logger.Info().
			Str("order_id", existing.ID).
			Int64("cart_version", cart.Version).
			Msg("order already placed from this cart revision")
		return existing, nil
	}

	now := time.Now()
	order := &model.Order{
		ID:            uuid.NewString(),
		OwnerID:       in.OwnerID,
		Lines:         freezeLines(cart.Lines),
		Address:       in.Address,
		PaymentMethod: in.PaymentMethod,
		CouponCode:    in.CouponCode,
		Breakdown:     pricing.Compute(cart.Lines, discount, s.shipping),
		Status:        model.StatusPending,
		CartVersion:   cart.Version,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.orders.CreateAndClearCart(ctx, order, cart.OwnerID); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.cartCache.Delete(ctx, cart.OwnerID); err != nil {
		s.logger.Warn().Err(err).Str("owner_id", cart.OwnerID).Msg("failed to invalidate cached cart")
	}

	s.publisher.OrderCreated(order)

	s.logger.Info().
		Str("order_id", order.ID).
		Str("owner_id", order.OwnerID).
		Int("line_count", len(order.Lines)).
		Int64("total", order.Breakdown.Total).
		Msg("order placed")

	return order, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID string, next model.OrderStatus) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if !model.CanTransition(order.Status, next) {
		s.logger.Warn().
			Str("order_id", orderID).
			Str("from", string(order.Status)).
			Str("to", string(next)).
			Msg("invalid status transition")
		return nil, model.ErrInvalidTransition
	}

	previous := order.Status
	order.Status = next
	order.UpdatedAt = time.Now()

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.publisher.OrderStatusChanged(order, previous)

	s.logger.Info().
		Str("order_id", orderID).
		Str("from", string(previous)).
		Str("to", string(next)).
		Msg("order status updated")

	return order, nil
}

func (s *orderService) GetByID(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (s *orderService) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]model.Order, error) {
	orders, err := s.orders.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// freezeLines deep-copies cart lines into order lines, fixing each unit
// price at its cart value. Later catalogue price changes never reach a
// placed order.
func freezeLines(lines []model.CartLine) []model.OrderLine {
	frozen := make([]model.OrderLine, len(lines))
	for i, line := range lines {
		frozen[i] = model.OrderLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			ImageRef:  line.ImageRef,
			Quantity:  line.Quantity,
		}
	}
	return frozen
}
