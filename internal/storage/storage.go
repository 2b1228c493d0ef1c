package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Backend is the key-value store the repository persists into.
// Values are JSON documents; Get reports ok=false for an absent key.
type Backend interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Close() error
}

// JSONBackend implements Backend using a single JSON file that maps
// each key to its raw JSON value.
type JSONBackend struct {
	path string
	mu   sync.Mutex
}

// NewJSONBackend creates a new JSONBackend with the given file path.
func NewJSONBackend(path string) *JSONBackend {
	return &JSONBackend{path: path}
}

// Path returns the storage file path.
func (s *JSONBackend) Path() string {
	return s.path
}

// Get reads key from the JSON file.
// A missing file means every key is absent.
func (s *JSONBackend) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return "", false, err
	}

	raw, ok := doc[key]
	if !ok {
		return "", false, nil
	}
	return string(raw), true, nil
}

// Set replaces key in the JSON file, creating the directory if needed.
// value must itself be valid JSON.
func (s *JSONBackend) Set(key, value string) error {
	if !json.Valid([]byte(value)) {
		return fmt.Errorf("set %s: value is not valid JSON", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	doc[key] = json.RawMessage(value)

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Close is a no-op; the file is opened per call.
func (s *JSONBackend) Close() error {
	return nil
}

func (s *JSONBackend) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}

	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}
	return doc, nil
}
