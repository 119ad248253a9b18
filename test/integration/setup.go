package integration

import (
	"context"
	"testing"
	"time"

	"shopfront/internal/model"
	"shopfront/internal/repository"
	"shopfront/internal/store"

	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// TestStore wraps a MongoDB test container and a connected document store.
type TestStore struct {
	Container *mongodb.MongoDBContainer
	Store     store.Store
}

// SetupTestStore starts a single-node replica set container and connects a
// document store to it. The replica set is required for transactional
// batches.
func SetupTestStore(t *testing.T) *TestStore {
	t.Helper()

	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7", mongodb.WithReplicaSet("rs0"))
	if err != nil {
		t.Fatalf("failed to start mongodb container: %v", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	docStore, err := store.Connect(ctx, uri, "shopfront_test", zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to connect to document store: %v", err)
	}

	t.Cleanup(func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := docStore.Close(closeCtx); err != nil {
			t.Logf("failed to close document store: %v", err)
		}
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestStore{
		Container: container,
		Store:     docStore,
	}
}

// SeedProducts writes a small catalogue for tests to work against.
func SeedProducts(t *testing.T, s store.Store) {
	t.Helper()

	ctx := context.Background()
	products := []model.Product{
		{ID: "p1", Name: "Widget", Price: 1000, Category: "tools", CreatedAt: time.Now()},
		{ID: "p2", Name: "Gadget", Price: 550, Category: "tools", CreatedAt: time.Now()},
		{ID: "p3", Name: "Gizmo", Price: 7500, Category: "electronics", CreatedAt: time.Now()},
	}
	for _, p := range products {
		if err := s.Set(ctx, repository.CollectionProducts, p.ID, p); err != nil {
			t.Fatalf("failed to seed product %s: %v", p.ID, err)
		}
	}
}
