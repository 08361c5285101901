package sessionctx

import (
	"context"
	"sync"
)

// MemoryStore is the in-process Store implementation. Suitable for
// single-process runs and tests; bindings vanish on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	bindings map[string]Context
}

// NewMemoryStore creates an empty in-memory context store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bindings: make(map[string]Context)}
}

// Get returns the session's binding, or nil if none is set.
func (s *MemoryStore) Get(_ context.Context, sessionID string) (*Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	binding, ok := s.bindings[sessionID]
	if !ok {
		return nil, nil
	}
	return &binding, nil
}

// Set replaces the session's binding.
func (s *MemoryStore) Set(_ context.Context, sessionID string, binding Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bindings[sessionID] = binding
	return nil
}

// Delete removes the session's binding, if any.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.bindings, sessionID)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
