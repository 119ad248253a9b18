package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoStore implements Store on top of a MongoDB database. Documents are
// keyed by _id; AtomicBatch runs inside a server-side transaction.
type mongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	logger zerolog.Logger
}

// Connect establishes a MongoDB connection and verifies it with a ping.
func Connect(ctx context.Context, uri, database string, logger zerolog.Logger) (Store, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info().Str("database", database).Msg("connected to document store")

	return &mongoStore{
		client: client,
		db:     client.Database(database),
		logger: logger.With().Str("component", "store").Logger(),
	}, nil
}

func (s *mongoStore) Get(ctx context.Context, collection, key string, out any) error {
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": key}).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *mongoStore) Set(ctx context.Context, collection, key string, record any) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": key}, record, opts)
	if err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *mongoStore) Delete(ctx context.Context, collection, key string) error {
	_, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *mongoStore) Query(ctx context.Context, collection string, filter map[string]any, opts QueryOptions, out any) error {
	findOpts := options.Find()
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if opts.Offset > 0 {
		findOpts.SetSkip(opts.Offset)
	}
	if len(opts.Sort) > 0 {
		sort := bson.D{}
		for field, dir := range opts.Sort {
			sort = append(sort, bson.E{Key: field, Value: dir})
		}
		findOpts.SetSort(sort)
	}

	mongoFilter := bson.M{}
	for k, v := range filter {
		mongoFilter[k] = v
	}

	cursor, err := s.db.Collection(collection).Find(ctx, mongoFilter, findOpts)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode %s query results: %w", collection, err)
	}
	return nil
}

func (s *mongoStore) AtomicBatch(ctx context.Context, writes []Write) error {
	if len(writes) == 0 {
		return nil
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		for _, w := range writes {
			switch w.Op {
			case OpSet:
				opts := options.Replace().SetUpsert(true)
				if _, err := s.db.Collection(w.Collection).ReplaceOne(sc, bson.M{"_id": w.Key}, w.Record, opts); err != nil {
					return nil, fmt.Errorf("batch set %s/%s: %w", w.Collection, w.Key, err)
				}
			case OpDelete:
				if _, err := s.db.Collection(w.Collection).DeleteOne(sc, bson.M{"_id": w.Key}); err != nil {
					return nil, fmt.Errorf("batch delete %s/%s: %w", w.Collection, w.Key, err)
				}
			default:
				return nil, fmt.Errorf("unknown batch op %q", w.Op)
			}
		}
		return nil, nil
	})
	if err != nil {
		s.logger.Error().Err(err).Int("write_count", len(writes)).Msg("atomic batch failed")
		return fmt.Errorf("atomic batch failed: %w", err)
	}
	return nil
}

func (s *mongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
