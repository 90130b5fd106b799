package store

import (
	"context"
	"sync"
)

// MemoryStore keeps preferences in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, owner, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[owner][key]
	return v, ok, nil
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, owner, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[owner] == nil {
		m.data[owner] = make(map[string]string)
	}
	m.data[owner][key] = value
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }

// SetMany implements Batcher.
func (m *MemoryStore) SetMany(_ context.Context, owner string, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[owner] == nil {
		m.data[owner] = make(map[string]string, len(values))
	}
	for k, v := range values {
		m.data[owner][k] = v
	}
	return nil
}
