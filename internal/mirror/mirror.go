// Package mirror defines the secondary-store side of the dual-store engine:
// the document schemas mirrored from the primary ledger, the deterministic
// business-key derivation, and the DocumentStore abstraction the propagator
// and exporter write through.
//
// Mirrored documents are a read replica for downstream consumers. They are
// regenerated from primary rows and never edited by any user-facing path.
package mirror

import "context"

// Document is a mirrored document addressable by its derived business key.
// KeyField names the document field holding the key; all writes are upserts
// filtered on that field so re-delivery never duplicates.
type Document interface {
	Key() string
	KeyField() string
}

// DocumentStore is the write surface of the secondary store.
// Implementations must make Upsert and BulkUpsert idempotent with respect to
// the document key.
type DocumentStore interface {
	// Upsert inserts or replaces the document with the same business key.
	Upsert(ctx context.Context, collection string, doc Document) error

	// Delete removes the document whose keyField equals key. Deleting a
	// missing document is not an error.
	Delete(ctx context.Context, collection, keyField, key string) error

	// BulkUpsert upserts a batch of documents and returns how many writes
	// were applied.
	BulkUpsert(ctx context.Context, collection string, docs []Document) (int, error)

	// DeleteByKeyPrefix removes every document whose keyField starts with
	// prefix, returning how many were removed. The reconciliation exporter
	// uses this to regenerate derived payment documents, whose keys share
	// the prefix of the item they were synthesized from.
	DeleteByKeyPrefix(ctx context.Context, collection, keyField, prefix string) (int, error)

	// Ping verifies connectivity to the store.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}
