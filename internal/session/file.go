package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// NewFileStore returns a Store that persists the session record as a JSON
// file at the provided path. Writes go through a temp file and rename so a
// crash mid-write never leaves a partial record.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// FileStore implements Store on top of a single JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// Save writes both fields in one atomic file replacement.
func (s *FileStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session file store: %w", err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session file store: encode record: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("session file store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("session file store: %w", err)
	}
	return nil
}

// Load reads the stored record. A missing file means no active session.
func (s *FileStore) Load(_ context.Context) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("session file store: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false, fmt.Errorf("session file store: decode record: %w", err)
	}
	if rec.Token == "" {
		return Record{}, false, nil
	}
	return rec, true, nil
}

// Clear removes the session file. Clearing an absent session is not an error.
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session file store: %w", err)
	}
	return nil
}
