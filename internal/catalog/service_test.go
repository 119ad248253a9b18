package catalog

import (
	"context"
	"errors"
	"testing"

	"shopfront/internal/model"
	"shopfront/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func TestCatalogService_GetAll(t *testing.T) {
	ctx := context.Background()

	testProducts := []model.Product{
		{ID: "p1", Name: "Widget", Price: 1000, Category: "tools"},
		{ID: "p2", Name: "Gadget", Price: 550, Category: "tools"},
	}

	repo := new(MockProductRepository)
	repo.On("GetAll", ctx, 10, 0).Return(testProducts, nil)

	svc := NewService(repo, zerolog.Nop())

	products, err := svc.GetAll(ctx, 10, 0)

	require.NoError(t, err)
	assert.Len(t, products, 2)
	repo.AssertExpectations(t)
}

func TestCatalogService_GetAll_NormalisesPagination(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{"zero limit defaults to ten", 0, 0, 10, 0},
		{"negative limit defaults to ten", -5, 0, 10, 0},
		{"limit above cap clamps to hundred", 500, 0, 100, 0},
		{"negative offset clamps to zero", 10, -3, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockProductRepository)
			repo.On("GetAll", ctx, tt.wantLimit, tt.wantOffset).Return([]model.Product{}, nil)

			svc := NewService(repo, zerolog.Nop())

			_, err := svc.GetAll(ctx, tt.limit, tt.offset)

			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("GetByID", ctx, "p1").Return(&model.Product{ID: "p1", Name: "Widget"}, nil)

		svc := NewService(repo, zerolog.Nop())

		product, err := svc.GetByID(ctx, "p1")

		require.NoError(t, err)
		assert.Equal(t, "Widget", product.Name)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("GetByID", ctx, "p9").Return(nil, store.ErrNotFound)

		svc := NewService(repo, zerolog.Nop())

		_, err := svc.GetByID(ctx, "p9")

		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		repo := new(MockProductRepository)

		svc := NewService(repo, zerolog.Nop())

		_, err := svc.GetByID(ctx, "")

		assert.ErrorIs(t, err, model.ErrProductNotFound)
		repo.AssertNotCalled(t, "GetByID")
	})

	t.Run("store failure", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("GetByID", ctx, "p1").Return(nil, errors.New("connection reset"))

		svc := NewService(repo, zerolog.Nop())

		_, err := svc.GetByID(ctx, "p1")

		require.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrProductNotFound)
	})
}

func TestCatalogService_GetByIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("empty input short-circuits", func(t *testing.T) {
		repo := new(MockProductRepository)

		svc := NewService(repo, zerolog.Nop())

		products, err := svc.GetByIDs(ctx, nil)

		require.NoError(t, err)
		assert.Empty(t, products)
		repo.AssertNotCalled(t, "GetByIDs")
	})

	t.Run("fetches all requested", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("GetByIDs", ctx, []string{"p1", "p2"}).Return([]model.Product{{ID: "p1"}, {ID: "p2"}}, nil)

		svc := NewService(repo, zerolog.Nop())

		products, err := svc.GetByIDs(ctx, []string{"p1", "p2"})

		require.NoError(t, err)
		assert.Len(t, products, 2)
	})
}
