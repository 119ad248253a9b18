package cache

import (
	"context"
	"errors"

	"shopfront/internal/model"
)

// ErrCacheMiss is returned when no cart is cached for the owner.
var ErrCacheMiss = errors.New("cache miss")

// CartCache is a read-through cache for carts. It is an optimisation only;
// the document store remains the system of record.
type CartCache interface {
	Get(ctx context.Context, ownerID string) (*model.Cart, error)
	Set(ctx context.Context, ownerID string, cart *model.Cart) error
	Delete(ctx context.Context, ownerID string) error
}

// Noop satisfies CartCache without caching anything; used when Redis is
// disabled.
type Noop struct{}

func (Noop) Get(context.Context, string) (*model.Cart, error)     { return nil, ErrCacheMiss }
func (Noop) Set(context.Context, string, *model.Cart) error       { return nil }
func (Noop) Delete(context.Context, string) error                 { return nil }
