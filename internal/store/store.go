// Package store provides the persistent JSON key/value store backing the
// desktop shell (window geometry, install ID, and whatever the frontend
// stashes). One file, string keys, arbitrary JSON values.
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// warnf reports recoverable store problems. Hooked in tests.
var warnf = log.Printf

// Store is a JSON-file-backed key/value store. It is safe for concurrent
// use; every Set/Delete rewrites the whole file.
type Store struct {
	path string

	mu   sync.Mutex
	data map[string]json.RawMessage
}

// Open loads the store at path. A missing, empty, or malformed file yields
// an empty store rather than an error - first run and corrupted state both
// fall back to defaults silently.
func Open(path string) *Store {
	s := &Store{
		path: path,
		data: make(map[string]json.RawMessage),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			warnf("warning: could not read store %s, starting empty: %v", path, err)
		}
		return s
	}
	if len(raw) == 0 {
		return s
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		warnf("warning: could not parse store %s, starting empty: %v", path, err)
		s.data = make(map[string]json.RawMessage)
	}
	return s
}

// Get decodes the value stored under key into out. The boolean reports
// whether the key was present; a present-but-undecodable value returns an
// error.
func (s *Store) Get(key string, out interface{}) (bool, error) {
	s.mu.Lock()
	raw, ok := s.data[key]
	s.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("store: decode %q: %w", key, err)
	}
	return true, nil
}

// Set stores value under key and persists the store immediately.
func (s *Store) Set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
	return s.save()
}

// Delete removes key and persists. Deleting an absent key is a no-op that
// still rewrites the file.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return s.save()
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// save writes the store to disk. Caller must hold s.mu.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("store: create directory: %w", err)
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	return os.WriteFile(s.path, raw, 0600)
}
