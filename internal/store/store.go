package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no record exists under the requested key.
var ErrNotFound = errors.New("record not found")

// WriteOp identifies the kind of operation inside an atomic batch.
type WriteOp string

const (
	OpSet    WriteOp = "set"
	OpDelete WriteOp = "delete"
)

// Write is a single operation within an atomic batch.
type Write struct {
	Op         WriteOp
	Collection string
	Key        string
	Record     any
}

// SetWrite builds an upsert write for an atomic batch.
func SetWrite(collection, key string, record any) Write {
	return Write{Op: OpSet, Collection: collection, Key: key, Record: record}
}

// DeleteWrite builds a delete write for an atomic batch.
func DeleteWrite(collection, key string) Write {
	return Write{Op: OpDelete, Collection: collection, Key: key}
}

// QueryOptions bounds and orders a Query result set.
type QueryOptions struct {
	// Sort maps field names to 1 (ascending) or -1 (descending).
	Sort   map[string]int
	Limit  int64
	Offset int64
}

// Store is the document store collaborator. The engine holds no durable
// state of its own; every operation reads current state, computes, and
// writes back. Records are keyed per collection; Set is a full replace.
type Store interface {
	// Get decodes the record stored under key into out.
	// Returns ErrNotFound when the key is absent.
	Get(ctx context.Context, collection, key string, out any) error

	// Set upserts the record under key, replacing any previous value.
	Set(ctx context.Context, collection, key string, record any) error

	// Delete removes the record under key. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, collection, key string) error

	// Close releases the underlying connections.
	Close(ctx context.Context) error

	// Query decodes all records matching filter into out (a pointer to a
	// slice).
	Query(ctx context.Context, collection string, filter map[string]any, opts QueryOptions, out any) error

	// AtomicBatch applies all writes as a single unit: either every write
	// is applied or none is.
	AtomicBatch(ctx context.Context, writes []Write) error
}
