package session

import "context"

// Record is the credential pair persisted for the active session. Token and
// Role are always written and cleared together; a store never holds one
// without the other.
type Record struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Store persists the single active session for this installation.
// Load reports absence through its boolean, never through an error.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Load(ctx context.Context) (Record, bool, error)
	Clear(ctx context.Context) error
}
