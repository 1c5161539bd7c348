package mirror

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore is an in-memory DocumentStore used in tests and local
// development runs where no document database is configured.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]Document
}

var _ DocumentStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory document store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Document)}
}

// Upsert inserts or replaces the document under its business key.
func (m *MemoryStore) Upsert(_ context.Context, collection string, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coll(collection)[doc.Key()] = doc
	return nil
}

// Delete removes the document with the given key. The keyField is ignored;
// the in-memory store indexes by key directly.
func (m *MemoryStore) Delete(_ context.Context, collection, _, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.coll(collection), key)
	return nil
}

// BulkUpsert upserts every document in the batch.
func (m *MemoryStore) BulkUpsert(_ context.Context, collection string, docs []Document) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.coll(collection)
	for _, d := range docs {
		c[d.Key()] = d
	}
	return len(docs), nil
}

// DeleteByKeyPrefix removes all documents whose key begins with prefix.
func (m *MemoryStore) DeleteByKeyPrefix(_ context.Context, collection, _, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.coll(collection)
	removed := 0
	for key := range c {
		if strings.HasPrefix(key, prefix) {
			delete(c, key)
			removed++
		}
	}
	return removed, nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (m *MemoryStore) Close(context.Context) error { return nil }

// Count returns how many documents a collection holds.
func (m *MemoryStore) Count(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.collections[collection])
}

// Get returns the document stored under key, if any.
func (m *MemoryStore) Get(collection, key string) (Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.collections[collection][key]
	return d, ok
}

func (m *MemoryStore) coll(name string) map[string]Document {
	c, ok := m.collections[name]
	if !ok {
		c = make(map[string]Document)
		m.collections[name] = c
	}
	return c
}
