package session

import (
	"context"
	"sync"
)

// NewMemoryStore returns a Store backed by process memory. Useful for tests
// and for flows that must not touch disk.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// MemoryStore implements Store without durability.
type MemoryStore struct {
	mu  sync.RWMutex
	rec Record
	set bool
}

// Save replaces the stored session record.
func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	s.rec = rec
	s.set = true
	s.mu.Unlock()
	return nil
}

// Load returns the stored record, reporting absence when nothing was saved.
func (s *MemoryStore) Load(_ context.Context) (Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return Record{}, false, nil
	}
	return s.rec, true, nil
}

// Clear removes the stored record.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.rec = Record{}
	s.set = false
	s.mu.Unlock()
	return nil
}
