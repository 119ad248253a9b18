package model

import "time"

// Wishlist holds the product IDs an account has saved for later.
type Wishlist struct {
	OwnerID    string    `json:"ownerId" bson:"owner_id"`
	ProductIDs []string  `json:"productIds" bson:"product_ids"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updated_at"`
}

// Contains reports whether the product is on the wishlist.
func (w *Wishlist) Contains(productID string) bool {
	for _, id := range w.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// WishlistAction is the outcome of a wishlist toggle.
type WishlistAction string

const (
	WishlistAdded   WishlistAction = "added"
	WishlistRemoved WishlistAction = "removed"
)
