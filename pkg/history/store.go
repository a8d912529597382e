package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists the comment history.
type Store interface {
	// Load returns every stored comment in insertion order. A missing store
	// yields an empty history, not an error.
	Load(ctx context.Context) ([]string, error)

	// Save replaces the stored history with comments.
	Save(ctx context.Context, comments []string) error
}

// FileStore keeps the history as a flat JSON array of strings.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the JSON file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file path of the store.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the history file, creating an empty one if it does not exist.
func (s *FileStore) Load(ctx context.Context) ([]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		if err := s.Save(ctx, []string{}); err != nil {
			return nil, err
		}
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("history: read %s: %w", s.path, err)
	}

	var comments []string
	if err := json.Unmarshal(data, &comments); err != nil {
		return nil, fmt.Errorf("history: decode %s: %w", s.path, err)
	}
	if comments == nil {
		comments = []string{}
	}
	return comments, nil
}

// Save writes comments atomically through a temporary file.
func (s *FileStore) Save(_ context.Context, comments []string) error {
	if comments == nil {
		comments = []string{}
	}
	data, err := json.MarshalIndent(comments, "", "  ")
	if err != nil {
		return fmt.Errorf("history: encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("history: create directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("history: write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("history: atomic rename %s: %w", s.path, err)
	}
	return nil
}
