package repository

import (
	"context"
	"fmt"

	"shopfront/internal/model"
	"shopfront/internal/store"

	"github.com/rs/zerolog"
)

// orderRepository implements OrderRepository over the document store.
type orderRepository struct {
	store  store.Store
	logger zerolog.Logger
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(s store.Store, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		store:  s,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

func (r *orderRepository) GetByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	if err := r.store.Get(ctx, CollectionOrders, orderID, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Save(ctx context.Context, order *model.Order) error {
	return r.store.Set(ctx, CollectionOrders, order.ID, order)
}

func (r *orderRepository) CreateAndClearCart(ctx context.Context, order *model.Order, cartOwnerID string) error {
	r.logger.Debug().
		Str("order_id", order.ID).
		Str("cart_owner_id", cartOwnerID).
		Msg("creating order and clearing cart atomically")

	return r.store.AtomicBatch(ctx, []store.Write{
		store.SetWrite(CollectionOrders, order.ID, order),
		store.DeleteWrite(CollectionCarts, cartOwnerID),
	})
}

func (r *orderRepository) FindByCartVersion(ctx context.Context, ownerID string, cartVersion int64) (*model.Order, error) {
	var orders []model.Order
	filter := map[string]any{
		"owner_id":     ownerID,
		"cart_version": cartVersion,
	}
	if err := r.store.Query(ctx, CollectionOrders, filter, store.QueryOptions{Limit: 1}, &orders); err != nil {
		return nil, fmt.Errorf("failed to look up order by cart version: %w", err)
	}
	if len(orders) == 0 {
		return nil, nil
	}
	return &orders[0], nil
}

func (r *orderRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]model.Order, error) {
	var orders []model.Order
	opts := store.QueryOptions{
		Sort:   map[string]int{"created_at": -1},
		Limit:  int64(limit),
		Offset: int64(offset),
	}
	if err := r.store.Query(ctx, CollectionOrders, map[string]any{"owner_id": ownerID}, opts, &orders); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
