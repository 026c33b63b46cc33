// internal/kv/kv.go
//
// Named integer counters grouped by namespace.
// Statistics and settings are both stored this way: one namespace per owner
// (e.g. "stats:<owner>"), one integer per counter name.
//
// Implementations:
//   - memory (this file): map-backed, for tests and ephemeral runs.
//   - SQLStore (sql.go): SQLite-backed table `counters`.

package kv

import (
	"context"
	"sync"
)

// Store is a namespaced key → int64 store with get/set semantics.
type Store interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, ns, key string) (int64, bool, error)
	Set(ctx context.Context, ns, key string, v int64) error
	// Incr adds delta (creating the key at 0) and returns the new value.
	Incr(ctx context.Context, ns, key string, delta int64) (int64, error)
	// All returns every key in ns.
	All(ctx context.Context, ns string) (map[string]int64, error)
	// Clear removes every key in ns.
	Clear(ctx context.Context, ns string) error
}

type memory struct {
	mu   sync.RWMutex
	data map[string]map[string]int64
}

// NewMemoryStore constructs an in-memory Store.
func NewMemoryStore() Store {
	return &memory{data: make(map[string]map[string]int64)}
}

func (m *memory) Get(_ context.Context, ns, key string) (int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[ns][key]
	return v, ok, nil
}

func (m *memory) Set(_ context.Context, ns, key string, v int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bucket(ns)[key] = v
	return nil
}

func (m *memory) Incr(_ context.Context, ns, key string, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.bucket(ns)
	b[key] += delta
	return b[key], nil
}

func (m *memory) All(_ context.Context, ns string) (map[string]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int64, len(m.data[ns]))
	for k, v := range m.data[ns] {
		out[k] = v
	}
	return out, nil
}

func (m *memory) Clear(_ context.Context, ns string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, ns)
	return nil
}

// bucket must be called with mu held for writing.
func (m *memory) bucket(ns string) map[string]int64 {
	b, ok := m.data[ns]
	if !ok {
		b = make(map[string]int64)
		m.data[ns] = b
	}
	return b
}
