package state

import (
	"context"
	"sync"

	"github.com/Poper173/Kilamix/internal/models"
	"github.com/Poper173/Kilamix/internal/optimistic"
)

// userSnapshot preserves the row and its position so a rolled-back removal
// reinserts the user where it was.
type userSnapshot struct {
	user models.AdminUser
	pos  int
}

// UserList is a view over the admin account listing supporting optimistic
// role changes, status toggles, and removals. Mutations of different kinds
// on the same account are independent; a second mutation of the same kind
// while one is in flight fails with optimistic.ErrPending.
type UserList struct {
	admin UserAdminService

	mu     sync.Mutex
	users  []models.AdminUser
	muts   *optimistic.Mutator[int64, userSnapshot]
	closed bool
}

// NewUserList returns an empty view backed by the given admin service.
func NewUserList(admin UserAdminService) *UserList {
	return &UserList{
		admin: admin,
		muts:  optimistic.New[int64, userSnapshot](),
	}
}

// Replace swaps the view contents for a freshly fetched listing.
func (l *UserList) Replace(users []models.AdminUser) {
	l.mu.Lock()
	l.users = append(l.users[:0:0], users...)
	l.mu.Unlock()
}

// Users returns a copy of the current view.
func (l *UserList) Users() []models.AdminUser {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append(l.users[:0:0], l.users...)
}

// User returns the current view entry for id.
func (l *UserList) User(id int64) (models.AdminUser, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, ok := l.find(id)
	if !ok {
		return models.AdminUser{}, false
	}
	return l.users[i], true
}

// find returns the slice index for id. Caller holds l.mu.
func (l *UserList) find(id int64) (int, bool) {
	for i := range l.users {
		if l.users[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

// begin snapshots the row and registers the pending mutation, then applies
// the local change while still holding the lock.
func (l *UserList) begin(id int64, kind optimistic.Kind, apply func(*models.AdminUser)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	i, ok := l.find(id)
	if !ok {
		return ErrNotFound
	}
	if err := l.muts.Begin(id, kind, userSnapshot{user: l.users[i], pos: i}); err != nil {
		return err
	}
	apply(&l.users[i])
	return nil
}

// resolve finishes a pending mutation: on failure the snapshot is restored,
// on success the server row replaces the local one. A closed view drops the
// result either way.
func (l *UserList) resolve(id int64, kind optimistic.Kind, updated models.AdminUser, err error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		snap, pending := l.muts.Rollback(id, kind)
		if pending && !l.closed {
			if i, ok := l.find(id); ok {
				l.users[i] = snap.user
			}
		}
		return err
	}
	l.muts.Commit(id, kind)
	if l.closed {
		return nil
	}
	if i, ok := l.find(id); ok {
		l.users[i] = updated
	}
	return nil
}

// SetRole assigns a new role, showing it locally before the server confirms.
func (l *UserList) SetRole(ctx context.Context, id int64, role string) error {
	if err := l.begin(id, optimistic.KindRole, func(u *models.AdminUser) {
		u.Role = role
	}); err != nil {
		return err
	}
	updated, err := l.admin.UpdateUserRole(ctx, id, role)
	return l.resolve(id, optimistic.KindRole, updated, err)
}

// ToggleActive flips an account between active and inactive, showing the
// flip locally before the server confirms.
func (l *UserList) ToggleActive(ctx context.Context, id int64) error {
	if err := l.begin(id, optimistic.KindStatus, func(u *models.AdminUser) {
		u.IsActive = !u.IsActive
	}); err != nil {
		return err
	}
	updated, err := l.admin.ToggleUserStatus(ctx, id)
	return l.resolve(id, optimistic.KindStatus, updated, err)
}

// Remove deletes an account, dropping it from the view immediately and
// reinserting it at its old position if the server refuses.
func (l *UserList) Remove(ctx context.Context, id int64) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	i, ok := l.find(id)
	if !ok {
		l.mu.Unlock()
		return ErrNotFound
	}
	if err := l.muts.Begin(id, optimistic.KindDelete, userSnapshot{user: l.users[i], pos: i}); err != nil {
		l.mu.Unlock()
		return err
	}
	l.users = append(l.users[:i], l.users[i+1:]...)
	l.mu.Unlock()

	err := l.admin.DeleteUser(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		snap, pending := l.muts.Rollback(id, optimistic.KindDelete)
		if pending && !l.closed {
			pos := snap.pos
			if pos > len(l.users) {
				pos = len(l.users)
			}
			l.users = append(l.users[:pos], append([]models.AdminUser{snap.user}, l.users[pos:]...)...)
		}
		return err
	}
	l.muts.Commit(id, optimistic.KindDelete)
	return nil
}

// Pending reports whether a mutation of this kind is in flight for id.
func (l *UserList) Pending(id int64, kind optimistic.Kind) bool {
	return l.muts.Pending(id, kind)
}

// Close tears the view down. Mutations still in flight resolve without
// touching the view.
func (l *UserList) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
}
