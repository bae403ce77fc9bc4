package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrCorrupt indicates a collection file exists but does not parse.
// It must never be masked by re-initializing the file: that would
// silently destroy user data.
var ErrCorrupt = errors.New("collection file is corrupt")

// CorruptError carries the offending path alongside the parse failure.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("invalid JSON in %s: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return ErrCorrupt }

// Store persists whole JSON collections under a data directory. Every
// write replaces the full file atomically (tmp file + rename), and a
// single lock serializes all durable writes across collections.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates the data directory if needed and returns a Store.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory path.
func (s *Store) Dir() string { return s.dir }

// Load reads the named collection into dst. A missing file is
// initialized to an empty collection and is not an error; a file that
// fails to parse returns a CorruptError.
func (s *Store) Load(name string, dst any) error {
	path := filepath.Join(s.dir, name)
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := s.Save(name, json.RawMessage("[]")); err != nil {
			return err
		}
		raw = []byte("[]")
	} else if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &CorruptError{Path: path, Err: err}
	}
	return nil
}

// Save marshals v and atomically replaces the named collection.
func (s *Store) Save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
