package repository

import (
	"context"

	"shopfront/internal/model"
)

// Document store collection names.
const (
	CollectionCarts     = "carts"
	CollectionOrders    = "orders"
	CollectionProducts  = "products"
	CollectionWishlists = "wishlists"
)

// CartRepository defines the interface for cart data access operations.
type CartRepository interface {
	// Get retrieves the cart owned by ownerID.
	// Returns store.ErrNotFound when no cart exists.
	Get(ctx context.Context, ownerID string) (*model.Cart, error)

	// Save upserts the cart under its owner key.
	Save(ctx context.Context, cart *model.Cart) error

	// Delete removes the cart owned by ownerID; absent carts are not an error.
	Delete(ctx context.Context, ownerID string) error

	// SaveAndDelete writes the merged cart and deletes the cart under
	// staleOwnerID as one atomic unit.
	SaveAndDelete(ctx context.Context, merged *model.Cart, staleOwnerID string) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// GetByID retrieves an order by its ID.
	// Returns store.ErrNotFound when no order exists.
	GetByID(ctx context.Context, orderID string) (*model.Order, error)

	// Save upserts the order under its ID.
	Save(ctx context.Context, order *model.Order) error

	// CreateAndClearCart creates the order and deletes the source cart as
	// one atomic unit.
	CreateAndClearCart(ctx context.Context, order *model.Order, cartOwnerID string) error

	// FindByCartVersion looks up an order previously placed from the same
	// cart revision, used to suppress duplicate placement on retry.
	// Returns nil with no error when none exists.
	FindByCartVersion(ctx context.Context, ownerID string, cartVersion int64) (*model.Order, error)

	// ListByOwner retrieves the owner's orders, newest first.
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]model.Order, error)
}

// ProductRepository defines the interface for catalogue data access operations.
type ProductRepository interface {
	// GetAll retrieves products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	// Returns store.ErrNotFound when no product exists.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)
}

// WishlistRepository defines the interface for wishlist data access operations.
type WishlistRepository interface {
	// Get retrieves the wishlist owned by ownerID.
	// Returns store.ErrNotFound when none exists.
	Get(ctx context.Context, ownerID string) (*model.Wishlist, error)

	// Save upserts the wishlist under its owner key.
	Save(ctx context.Context, list *model.Wishlist) error
}
