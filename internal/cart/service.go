package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopfront/internal/cache"
	"shopfront/internal/coupon"
	"shopfront/internal/model"
	"shopfront/internal/pricing"
	"shopfront/internal/repository"
	"shopfront/internal/store"

	"github.com/rs/zerolog"
)

// Service defines the cart engine operations exposed to the presentation
// layer. Every operation reads current state from the document store,
// computes a new state, and writes it back; concurrent writers to the same
// cart are last-writer-wins.
type Service interface {
	// Get retrieves the owner's cart, or an empty cart if none exists yet.
	Get(ctx context.Context, ownerID string) (*model.Cart, error)

	// Summary retrieves the cart together with its price breakdown,
	// optionally applying a coupon code.
	Summary(ctx context.Context, ownerID, couponCode string) (*model.CartSummary, error)

	// AddItem increments the line for product by quantityDelta, creating
	// the line (and the cart) when absent.
	AddItem(ctx context.Context, ownerID string, anonymous bool, product *model.Product, quantityDelta int) (*model.Cart, error)

	// SetQuantity sets the absolute quantity of an existing line, clamped
	// to a minimum of one. Removal is a distinct operation.
	SetQuantity(ctx context.Context, ownerID, productID string, quantity int) (*model.Cart, error)

	// RemoveItem deletes the line for product; removing an absent line is
	// not an error.
	RemoveItem(ctx context.Context, ownerID, productID string) (*model.Cart, error)

	// Clear removes all lines from the cart.
	Clear(ctx context.Context, ownerID string) error

	// Merge folds the anonymous session cart into the account cart and
	// deletes the session cart, as one atomic store write. Callers trigger
	// this exactly once, at successful authentication.
	Merge(ctx context.Context, sessionID, accountID string) (*model.Cart, error)
}

// cartService implements Service.
type cartService struct {
	repo     repository.CartRepository
	cache    cache.CartCache
	coupons  *coupon.Table
	shipping pricing.ShippingPolicy
	logger   zerolog.Logger
}

// NewService creates a new cart service.
func NewService(
	repo repository.CartRepository,
	cartCache cache.CartCache,
	coupons *coupon.Table,
	shipping pricing.ShippingPolicy,
	logger zerolog.Logger,
) Service {
	return &cartService{
		repo:     repo,
		cache:    cartCache,
		coupons:  coupons,
		shipping: shipping,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) Get(ctx context.Context, ownerID string) (*model.Cart, error) {
	if cached, err := s.cache.Get(ctx, ownerID); err == nil {
		return cached, nil
	}

	cart, err := s.repo.Get(ctx, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		return emptyCart(ownerID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if err := s.cache.Set(ctx, ownerID, cart); err != nil {
		s.logger.Warn().Err(err).Str("owner_id", ownerID).Msg("failed to cache cart")
	}
	return cart, nil
}

func (s *cartService) Summary(ctx context.Context, ownerID, couponCode string) (*model.CartSummary, error) {
	cart, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	discount, err := s.coupons.Policy(couponCode)
	if err != nil {
		s.logger.Warn().Str("coupon_code", couponCode).Msg("invalid coupon code")
		return nil, err
	}

	return &model.CartSummary{
		Cart:      cart,
		Breakdown: pricing.Compute(cart.Lines, discount, s.shipping),
	}, nil
}

func (s *cartService) AddItem(ctx context.Context, ownerID string, anonymous bool, product *model.Product, quantityDelta int) (*model.Cart, error) {
	if quantityDelta < 1 {
		return nil, model.ErrInvalidQuantity
	}

	cart, err := s.loadOrCreate(ctx, ownerID, anonymous)
	if err != nil {
		return nil, err
	}

	if line := cart.Line(product.ID); line != nil {
		// Re-adding refreshes line metadata to the current catalogue
		// values, same as the merge policy treats the latest intent.
		quantity := line.Quantity + quantityDelta
		*line = lineFromProduct(product, quantity)
	} else {
		cart.Lines = append(cart.Lines, lineFromProduct(product, quantityDelta))
	}

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("owner_id", ownerID).
		Str("product_id", product.ID).
		Int("quantity_delta", quantityDelta).
		Msg("item added to cart")

	return cart, nil
}

func (s *cartService) SetQuantity(ctx context.Context, ownerID, productID string, quantity int) (*model.Cart, error) {
	cart, err := s.repo.Get(ctx, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, model.ErrLineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	line := cart.Line(productID)
	if line == nil {
		return nil, model.ErrLineNotFound
	}

	// Quantities never drop below one here; removal is a distinct operation.
	if quantity < 1 {
		quantity = 1
	}
	line.Quantity = quantity

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) RemoveItem(ctx context.Context, ownerID, productID string) (*model.Cart, error) {
	cart, err := s.repo.Get(ctx, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		return emptyCart(ownerID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if cart.Line(productID) == nil {
		return cart, nil
	}

	lines := cart.Lines[:0]
	for _, line := range cart.Lines {
		if line.ProductID != productID {
			lines = append(lines, line)
		}
	}
	cart.Lines = lines

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) Clear(ctx context.Context, ownerID string) error {
	cart, err := s.repo.Get(ctx, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get cart: %w", err)
	}

	cart.Lines = nil
	return s.persist(ctx, cart)
}

func (s *cartService) Merge(ctx context.Context, sessionID, accountID string) (*model.Cart, error) {
	anon, err := s.repo.Get(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		// Nothing to merge; the account cart stands as-is.
		return s.Get(ctx, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session cart: %w", err)
	}

	account, err := s.repo.Get(ctx, accountID)
	if errors.Is(err, store.ErrNotFound) {
		account = emptyCart(accountID)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get account cart: %w", err)
	}

	now := time.Now()
	account.Lines = MergeLines(anon.Lines, account.Lines)
	account.Anonymous = false
	account.Version++
	account.UpdatedAt = now
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}

	// The merge is computed in memory and applied as one atomic store
	// write, so a failure leaves both carts untouched.
	if err := s.repo.SaveAndDelete(ctx, account, sessionID); err != nil {
		return nil, fmt.Errorf("failed to persist merged cart: %w", err)
	}

	s.invalidate(ctx, sessionID)
	s.invalidate(ctx, accountID)

	s.logger.Info().
		Str("session_id", sessionID).
		Str("account_id", accountID).
		Int("line_count", len(account.Lines)).
		Msg("session cart merged into account cart")

	return account, nil
}

// loadOrCreate fetches the owner's cart, creating an unpersisted empty cart
// when none exists yet.
func (s *cartService) loadOrCreate(ctx context.Context, ownerID string, anonymous bool) (*model.Cart, error) {
	cart, err := s.repo.Get(ctx, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		cart = emptyCart(ownerID)
		cart.Anonymous = anonymous
		return cart, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return cart, nil
}

// persist bumps the cart revision, saves it, and drops any cached copy.
func (s *cartService) persist(ctx context.Context, cart *model.Cart) error {
	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
	cart.Version++

	if err := s.repo.Save(ctx, cart); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	s.invalidate(ctx, cart.OwnerID)
	return nil
}

func (s *cartService) invalidate(ctx context.Context, ownerID string) {
	if err := s.cache.Delete(ctx, ownerID); err != nil {
		s.logger.Warn().Err(err).Str("owner_id", ownerID).Msg("failed to invalidate cached cart")
	}
}

func emptyCart(ownerID string) *model.Cart {
	return &model.Cart{OwnerID: ownerID}
}

func lineFromProduct(p *model.Product, quantity int) model.CartLine {
	return model.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		ImageRef:  p.ImageRef,
		Quantity:  quantity,
	}
}
