package store

import (
	"context"
	"sync"
)

type counterKey struct {
	namespace string
	key       string
	field     string
}

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory Store implementation.
// It is safe for concurrent use. Counters are lost on process restart.
type MemoryStore struct {
	namespace string

	mu       sync.Mutex
	counters map[counterKey]int64
}

// NewMemoryStore creates a new in-memory store. The namespace keeps
// counters of different services apart when they share a process.
func NewMemoryStore(namespace string) *MemoryStore {
	return &MemoryStore{
		namespace: namespace,
		counters:  make(map[counterKey]int64),
	}
}

// Increment atomically adds one to field under key.
func (m *MemoryStore) Increment(_ context.Context, key, field string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := counterKey{namespace: m.namespace, key: key, field: field}
	m.counters[k]++
	return m.counters[k], nil
}

// Get returns the current value of field under key.
func (m *MemoryStore) Get(_ context.Context, key, field string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.counters[counterKey{namespace: m.namespace, key: key, field: field}], nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
