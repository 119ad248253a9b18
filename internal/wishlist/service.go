package wishlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopfront/internal/model"
	"shopfront/internal/repository"
	"shopfront/internal/store"

	"github.com/rs/zerolog"
)

// Service defines wishlist operations.
type Service interface {
	// Toggle flips the product's membership on the owner's wishlist and
	// reports which way it went. Membership is read from the store on
	// every call, so rapid repeated toggles stay consistent with the
	// most recently persisted state.
	Toggle(ctx context.Context, ownerID, productID string) (model.WishlistAction, error)

	// Get retrieves the owner's wishlist, or an empty one if none exists.
	Get(ctx context.Context, ownerID string) (*model.Wishlist, error)
}

// wishlistService implements Service.
type wishlistService struct {
	repo   repository.WishlistRepository
	logger zerolog.Logger
}

// NewService creates a new wishlist service.
func NewService(repo repository.WishlistRepository, logger zerolog.Logger) Service {
	return &wishlistService{
		repo:   repo,
		logger: logger.With().Str("service", "wishlist").Logger(),
	}
}

func (s *wishlistService) Toggle(ctx context.Context, ownerID, productID string) (model.WishlistAction, error) {
	list, err := s.Get(ctx, ownerID)
	if err != nil {
		return "", err
	}

	action := model.WishlistAdded
	if list.Contains(productID) {
		action = model.WishlistRemoved
		ids := list.ProductIDs[:0]
		for _, id := range list.ProductIDs {
			if id != productID {
				ids = append(ids, id)
			}
		}
		list.ProductIDs = ids
	} else {
		list.ProductIDs = append(list.ProductIDs, productID)
	}

	list.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, list); err != nil {
		return "", fmt.Errorf("failed to save wishlist: %w", err)
	}

	s.logger.Debug().
		Str("owner_id", ownerID).
		Str("product_id", productID).
		Str("action", string(action)).
		Msg("wishlist toggled")

	return action, nil
}

func (s *wishlistService) Get(ctx context.Context, ownerID string) (*model.Wishlist, error) {
	list, err := s.repo.Get(ctx, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		return &model.Wishlist{OwnerID: ownerID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}
	return list, nil
}
