package supervisor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store persists the fingerprint recorded after the last successful
// install. It is a single slot: the watcher compares against it and the
// installer path advances it. Writes go through a temp file and rename
// so a concurrent reader sees either the old or the new value, never a
// torn one.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Read returns the recorded fingerprint, or the empty string if none
// has been recorded yet.
func (s *Store) Read() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Write records fingerprint as the new last-installed value.
func (s *Store) Write(fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp fingerprint file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(fingerprint + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write fingerprint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close fingerprint file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace fingerprint file: %w", err)
	}
	return nil
}
