package repository

import (
	"context"
	"fmt"

	"shopfront/internal/model"
	"shopfront/internal/store"

	"github.com/rs/zerolog"
)

// productRepository implements ProductRepository over the document store.
type productRepository struct {
	store  store.Store
	logger zerolog.Logger
}

// NewProductRepository creates a new product repository.
func NewProductRepository(s store.Store, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		store:  s,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	var products []model.Product
	opts := store.QueryOptions{
		Sort:   map[string]int{"product_id": 1},
		Limit:  int64(limit),
		Offset: int64(offset),
	}
	if err := r.store.Query(ctx, CollectionProducts, nil, opts, &products); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := r.store.Get(ctx, CollectionProducts, id, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var products []model.Product
	filter := map[string]any{"product_id": map[string]any{"$in": ids}}
	if err := r.store.Query(ctx, CollectionProducts, filter, store.QueryOptions{}, &products); err != nil {
		return nil, fmt.Errorf("failed to get products by IDs: %w", err)
	}
	return products, nil
}
