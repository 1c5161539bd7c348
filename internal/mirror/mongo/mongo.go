// Package mongo provides a MongoDB-backed implementation of the
// mirror.DocumentStore interface.
package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/kaustubhshukla9586/FinBuddy/internal/mirror"
)

// DefaultTimeout bounds every call against the secondary store so a slow or
// unreachable cluster cannot stall the primary write path.
const DefaultTimeout = 5 * time.Second

// Ensure Store implements mirror.DocumentStore
var _ mirror.DocumentStore = (*Store)(nil)

// Store implements mirror.DocumentStore against a MongoDB database.
type Store struct {
	client  *mongodrv.Client
	db      *mongodrv.Database
	timeout time.Duration
}

// Connect dials the cluster and verifies connectivity with a ping. The
// timeout applies to the connection attempt and to every subsequent call;
// zero means DefaultTimeout.
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongodrv.Connect(dialCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{
		client:  client,
		db:      client.Database(database),
		timeout: timeout,
	}, nil
}

// Upsert replaces the document matching the business key, inserting it if
// absent.
func (s *Store) Upsert(ctx context.Context, collection string, doc mirror.Document) error {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	filter := bson.M{doc.KeyField(): doc.Key()}
	_, err := s.db.Collection(collection).ReplaceOne(opCtx, filter, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert %s into %s: %w", doc.Key(), collection, err)
	}
	return nil
}

// Delete removes the document whose keyField equals key. A missing document
// is not an error.
func (s *Store) Delete(ctx context.Context, collection, keyField, key string) error {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.db.Collection(collection).DeleteOne(opCtx, bson.M{keyField: key})
	if err != nil {
		return fmt.Errorf("failed to delete %s from %s: %w", key, collection, err)
	}
	return nil
}

// BulkUpsert writes a batch of replace-with-upsert models in one round trip.
func (s *Store) BulkUpsert(ctx context.Context, collection string, docs []mirror.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	writes := make([]mongodrv.WriteModel, len(docs))
	for i, doc := range docs {
		writes[i] = mongodrv.NewReplaceOneModel().
			SetFilter(bson.M{doc.KeyField(): doc.Key()}).
			SetReplacement(doc).
			SetUpsert(true)
	}

	_, err := s.db.Collection(collection).BulkWrite(opCtx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("failed to bulk upsert %d docs into %s: %w", len(docs), collection, err)
	}
	return len(docs), nil
}

// DeleteByKeyPrefix removes all documents whose keyField begins with prefix.
func (s *Store) DeleteByKeyPrefix(ctx context.Context, collection, keyField, prefix string) (int, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	filter := bson.M{keyField: bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}
	res, err := s.db.Collection(collection).DeleteMany(opCtx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s* from %s: %w", prefix, collection, err)
	}
	return int(res.DeletedCount), nil
}

// Ping verifies connectivity to the cluster.
func (s *Store) Ping(ctx context.Context) error {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Ping(opCtx, readpref.Primary())
}

// Close disconnects from the cluster.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
