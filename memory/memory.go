package memory

import (
	"context"
	"sync"
)

// Memory is a key/value scratchpad shared across assistant calls.
type Memory interface {
	// Store saves value under key, replacing any previous value.
	Store(ctx context.Context, key string, value any) error

	// Retrieve returns the value under key. ok is false when the key is
	// absent.
	Retrieve(ctx context.Context, key string) (value any, ok bool, err error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every key.
	Clear(ctx context.Context) error
}

// InMemory keeps values in a process-local map.
type InMemory struct {
	mu      sync.RWMutex
	storage map[string]any
}

var _ Memory = (*InMemory)(nil)

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{storage: make(map[string]any)}
}

func (m *InMemory) Store(_ context.Context, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storage[key] = value
	return nil
}

func (m *InMemory) Retrieve(_ context.Context, key string) (any, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.storage[key]
	return v, ok, nil
}

func (m *InMemory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.storage, key)
	return nil
}

func (m *InMemory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.storage)
	return nil
}
