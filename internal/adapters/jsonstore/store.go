// Package jsonstore implements the ports.CatalogStore interface as a single
// JSON document on disk. The file is human-editable; serve mode watches it
// and hot-reloads the catalog when it changes.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/calder/vouch/internal/ports"
)

// Store implements ports.CatalogStore backed by one JSON file.
type Store struct {
	path string
}

// NewStore returns a store reading and writing the given file path. The
// file does not need to exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads and decodes the catalog file.
func (s *Store) Load() (*ports.Catalog, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ports.ErrCatalogNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("read pattern catalog: %w", err)
	}

	var catalog ports.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrCatalogCorrupt, err)
	}
	return &catalog, nil
}

// Save writes the catalog atomically: the document is written to a temp
// file in the target directory and renamed over the destination, so a
// concurrent reader never observes a partial write.
func (s *Store) Save(catalog *ports.Catalog) error {
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal pattern catalog: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".patterns-*.json")
	if err != nil {
		return fmt.Errorf("create temp catalog: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp catalog: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp catalog: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}
