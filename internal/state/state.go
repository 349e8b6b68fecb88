// Package state persists release progress markers across invocations.
//
// The state file is a flat JSON string map (default .release-state.json in
// the repository root). Writes are atomic (temp file + rename) but there is
// no cross-process lock: at most one release-ai invocation is assumed to
// run against a repository directory at a time.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store reads and writes the flat key-value state file.
type Store struct {
	path string
}

// New creates a Store backed by the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the state file path.
func (s *Store) Path() string {
	return s.path
}

// load reads the current map. A missing file yields an empty map.
func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse state file %s: %w", s.path, err)
	}
	if m == nil {
		m = map[string]string{}
	}
	return m, nil
}

// save writes the map atomically via a temp file and rename.
func (s *Store) save(m map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tempPath, s.path)
}

// Set stores a string value under key.
func (s *Store) Set(key, value string) error {
	m, err := s.load()
	if err != nil {
		return err
	}
	m[key] = value
	return s.save(m)
}

// Get returns the value under key, or the empty string if the key or the
// state file is absent.
func (s *Store) Get(key string) (string, error) {
	m, err := s.load()
	if err != nil {
		return "", err
	}
	return m[key], nil
}

// All returns a copy of the whole state map.
func (s *Store) All() (map[string]string, error) {
	return s.load()
}

// Clear deletes the state file. Clearing absent state is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove state file: %w", err)
	}
	return nil
}
