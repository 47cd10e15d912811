// Package optimistic implements speculative local mutation with rollback.
// An entity is Committed when local state matches the last known server
// state, and Pending while a speculative change is awaiting its response.
// Success overwrites local state with the server payload; any failure
// restores the snapshot captured when the mutation began.
package optimistic

import (
	"errors"
	"sync"
)

// ErrPending indicates the entity already has this kind of mutation in
// flight; the new action is refused to prevent double-toggle races.
var ErrPending = errors.New("mutation already pending")

// Kind names a mutation category. Mutations of different kinds on the same
// entity are independent.
type Kind string

const (
	KindLike   Kind = "like"
	KindRole   Kind = "role"
	KindStatus Kind = "status"
	KindDelete Kind = "delete"
)

type pendingKey[ID comparable] struct {
	id   ID
	kind Kind
}

// Mutator tracks pending mutations and their pre-mutation snapshots, one
// snapshot per (entity, kind) pair.
type Mutator[ID comparable, S any] struct {
	mu      sync.Mutex
	pending map[pendingKey[ID]]S
}

// New returns an empty Mutator.
func New[ID comparable, S any]() *Mutator[ID, S] {
	return &Mutator[ID, S]{pending: make(map[pendingKey[ID]]S)}
}

// Begin transitions (id, kind) from Committed to Pending, retaining the
// snapshot for rollback. It fails with ErrPending when a mutation of the
// same kind is already in flight for the entity.
func (m *Mutator[ID, S]) Begin(id ID, kind Kind, snapshot S) error {
	key := pendingKey[ID]{id: id, kind: kind}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, inFlight := m.pending[key]; inFlight {
		return ErrPending
	}
	m.pending[key] = snapshot
	return nil
}

// Commit resolves a pending mutation successfully, discarding the snapshot.
// The caller applies the server's authoritative payload itself.
func (m *Mutator[ID, S]) Commit(id ID, kind Kind) {
	m.mu.Lock()
	delete(m.pending, pendingKey[ID]{id: id, kind: kind})
	m.mu.Unlock()
}

// Rollback resolves a pending mutation as failed and returns the snapshot
// to restore. The boolean is false when nothing was pending.
func (m *Mutator[ID, S]) Rollback(id ID, kind Kind) (S, bool) {
	key := pendingKey[ID]{id: id, kind: kind}

	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot, ok := m.pending[key]
	if ok {
		delete(m.pending, key)
	}
	return snapshot, ok
}

// Pending reports whether a mutation of this kind is in flight for the entity.
func (m *Mutator[ID, S]) Pending(id ID, kind Kind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pending[pendingKey[ID]{id: id, kind: kind}]
	return ok
}
