package repository

import (
	"context"

	"shopfront/internal/model"
	"shopfront/internal/store"

	"github.com/rs/zerolog"
)

// cartRepository implements CartRepository over the document store.
type cartRepository struct {
	store  store.Store
	logger zerolog.Logger
}

// NewCartRepository creates a new cart repository.
func NewCartRepository(s store.Store, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		store:  s,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

func (r *cartRepository) Get(ctx context.Context, ownerID string) (*model.Cart, error) {
	var cart model.Cart
	if err := r.store.Get(ctx, CollectionCarts, ownerID, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) Save(ctx context.Context, cart *model.Cart) error {
	return r.store.Set(ctx, CollectionCarts, cart.OwnerID, cart)
}

func (r *cartRepository) Delete(ctx context.Context, ownerID string) error {
	return r.store.Delete(ctx, CollectionCarts, ownerID)
}

func (r *cartRepository) SaveAndDelete(ctx context.Context, merged *model.Cart, staleOwnerID string) error {
	r.logger.Debug().
		Str("owner_id", merged.OwnerID).
		Str("stale_owner_id", staleOwnerID).
		Msg("replacing cart and deleting stale cart atomically")

	return r.store.AtomicBatch(ctx, []store.Write{
		store.SetWrite(CollectionCarts, merged.OwnerID, merged),
		store.DeleteWrite(CollectionCarts, staleOwnerID),
	})
}
