package ports

import (
	"errors"
	"time"
)

var (
	// ErrCatalogNotFound is returned by CatalogStore.Load when no
	// catalog has been persisted yet.
	ErrCatalogNotFound = errors.New("pattern catalog not found")

	// ErrCatalogCorrupt is returned by CatalogStore.Load when stored
	// data exists but cannot be decoded. Callers recover by reseeding
	// defaults rather than failing the run.
	ErrCatalogCorrupt = errors.New("pattern catalog corrupt")
)

// Pattern is the stored form of one error-pattern definition. Severity,
// field, and pattern type are wire names; the domain layer validates and
// compiles them on load.
type Pattern struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Severity      string `json:"severity"`
	Field         string `json:"field"`
	PatternType   string `json:"pattern_type"`
	PatternValue  string `json:"pattern_value"`
	FixSuggestion string `json:"fix_suggestion"`
}

// Catalog is the persisted error-pattern catalog.
type Catalog struct {
	Version     string    `json:"version"`
	LastUpdated time.Time `json:"last_updated"`
	Patterns    []Pattern `json:"patterns"`
}

// CatalogStore persists the pattern catalog across runs. Implementations
// must make Save atomic: a reader never observes a half-written catalog.
type CatalogStore interface {
	// Load returns the stored catalog. It reports ErrCatalogNotFound
	// when nothing has been saved and ErrCatalogCorrupt when stored
	// data cannot be decoded; it never returns a partial catalog.
	Load() (*Catalog, error)

	// Save replaces the stored catalog.
	Save(catalog *Catalog) error
}
