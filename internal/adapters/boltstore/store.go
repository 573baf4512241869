// Package boltstore implements the ports.CatalogStore interface using bbolt
// (embedded B+ tree). The catalog is stored as one JSON value inside a
// dedicated bucket. Writes are transactional, so a crash mid-save cannot
// corrupt a previously committed catalog.
package boltstore

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/calder/vouch/internal/ports"
)

// Bucket keys
var (
	bucketPatterns = []byte("patterns")
	keyCatalog     = []byte("catalog")
)

// Store implements ports.CatalogStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load retrieves the stored catalog.
func (s *Store) Load() (*ports.Catalog, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPatterns)
		if b == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only
		// valid within tx).
		if v := b.Get(keyCatalog); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if data == nil {
		return nil, ports.ErrCatalogNotFound
	}

	var catalog ports.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrCatalogCorrupt, err)
	}
	return &catalog, nil
}

// Save replaces the stored catalog in one transaction.
func (s *Store) Save(catalog *ports.Catalog) error {
	if catalog == nil {
		return fmt.Errorf("nil catalog")
	}

	data, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("marshal pattern catalog: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketPatterns)
		if err != nil {
			return err
		}
		return b.Put(keyCatalog, data)
	})
}
