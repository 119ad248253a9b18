package repository

import (
	"context"

	"shopfront/internal/model"
	"shopfront/internal/store"

	"github.com/rs/zerolog"
)

// wishlistRepository implements WishlistRepository over the document store.
type wishlistRepository struct {
	store  store.Store
	logger zerolog.Logger
}

// NewWishlistRepository creates a new wishlist repository.
func NewWishlistRepository(s store.Store, logger zerolog.Logger) WishlistRepository {
	return &wishlistRepository{
		store:  s,
		logger: logger.With().Str("repository", "wishlist").Logger(),
	}
}

func (r *wishlistRepository) Get(ctx context.Context, ownerID string) (*model.Wishlist, error) {
	var list model.Wishlist
	if err := r.store.Get(ctx, CollectionWishlists, ownerID, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *wishlistRepository) Save(ctx context.Context, list *model.Wishlist) error {
	return r.store.Set(ctx, CollectionWishlists, list.OwnerID, list)
}
