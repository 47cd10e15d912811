// Package state keeps in-memory views of server collections and applies
// optimistic mutations to them. A mutation updates the view immediately,
// then reconciles with the server response: success overwrites the entry
// with the authoritative payload, failure restores the snapshot taken
// before the local change.
package state

import (
	"context"
	"errors"

	"github.com/Poper173/Kilamix/internal/models"
)

// ErrClosed indicates the view was torn down; late responses for mutations
// still in flight are dropped rather than applied.
var ErrClosed = errors.New("view closed")

// ErrNotFound indicates the entity is not present in the view.
var ErrNotFound = errors.New("entity not in view")

// LikeService performs the like toggle against the backend.
type LikeService interface {
	Like(ctx context.Context, id int64) (models.LikeResult, error)
}

// UserAdminService performs the admin account mutations against the backend.
type UserAdminService interface {
	ToggleUserStatus(ctx context.Context, id int64) (models.AdminUser, error)
	UpdateUserRole(ctx context.Context, id int64, role string) (models.AdminUser, error)
	DeleteUser(ctx context.Context, id int64) error
}
