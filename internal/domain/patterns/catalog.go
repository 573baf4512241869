package patterns

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/calder/vouch/internal/domain/risk"
	"github.com/calder/vouch/internal/domain/statement"
	"github.com/calder/vouch/internal/ports"
)

// catalogVersion is written into every persisted catalog.
const catalogVersion = "1.0"

// Catalog is the process-wide pattern set. Reads take a snapshot;
// mutation (feedback appends, hot reload) is serialized behind the lock
// and persisted through the store before returning.
type Catalog struct {
	mu    sync.RWMutex
	store ports.CatalogStore
	defs  []Definition

	version string
	updated time.Time
	now     func() time.Time
}

// Open loads the catalog from the store. A missing or corrupt store is
// reseeded with the built-in defaults and written back; any other store
// failure is returned as-is.
func Open(store ports.CatalogStore) (*Catalog, error) {
	c := &Catalog{
		store:   store,
		version: catalogVersion,
		now:     time.Now,
	}

	stored, err := store.Load()
	switch {
	case err == nil:
		c.defs = decodeCatalog(stored)
		c.version = stored.Version
		c.updated = stored.LastUpdated
	case errors.Is(err, ports.ErrCatalogNotFound), errors.Is(err, ports.ErrCatalogCorrupt):
		c.defs = Defaults()
		if err := c.persist(); err != nil {
			return nil, fmt.Errorf("seed default patterns: %w", err)
		}
	default:
		return nil, err
	}
	return c, nil
}

// Snapshot returns the current definitions. The returned slice is the
// caller's to keep; later catalog mutations do not affect it.
func (c *Catalog) Snapshot() []Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	defs := make([]Definition, len(c.defs))
	copy(defs, c.defs)
	return defs
}

// Export returns the catalog in its stored wire form, as it would be
// persisted right now.
func (c *Catalog) Export() ports.Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ports.Catalog{
		Version:     c.version,
		LastUpdated: c.updated,
		Patterns:    encodeDefinitions(c.defs),
	}
}

// Len returns the number of definitions in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.defs)
}

// Version returns the catalog's stored version string.
func (c *Catalog) Version() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// LastUpdated returns when the catalog was last persisted.
func (c *Catalog) LastUpdated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updated
}

// Add appends a definition and persists the catalog. The in-memory set
// is left unchanged if persisting fails.
func (c *Catalog) Add(def Definition) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.defs = append(c.defs, def)
	if err := c.persist(); err != nil {
		c.defs = c.defs[:len(c.defs)-1]
		return err
	}
	return nil
}

// Reload replaces the in-memory definitions with the store's current
// contents. On any load failure the catalog keeps serving its existing
// definitions and the error is returned.
func (c *Catalog) Reload() error {
	stored, err := c.store.Load()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.defs = decodeCatalog(stored)
	c.version = stored.Version
	c.updated = stored.LastUpdated
	return nil
}

// Covers reports whether any definition's name contains the category's
// token.
func (c *Catalog) Covers(cat Category) bool {
	token := cat.String()
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.defs {
		if strings.Contains(c.defs[i].Name, token) {
			return true
		}
	}
	return false
}

// Match scans every row against every catalog definition, in row order
// then catalog order.
func (c *Catalog) Match(t *statement.Table) []Match {
	defs := c.Snapshot()

	var matches []Match
	for i := range t.Rows {
		for j := range defs {
			if m, ok := defs[j].Evaluate(&t.Rows[i], i); ok {
				matches = append(matches, m)
			}
		}
	}
	return matches
}

// persist writes the current definitions through the store. Callers must
// hold the write lock (or have exclusive access during Open).
func (c *Catalog) persist() error {
	updated := c.now()
	wire := &ports.Catalog{
		Version:     c.version,
		LastUpdated: updated,
		Patterns:    encodeDefinitions(c.defs),
	}
	if err := c.store.Save(wire); err != nil {
		return err
	}
	c.updated = updated
	return nil
}

// decodeCatalog converts stored patterns to typed definitions. Entries
// with an unknown severity, field, or kind, or an uncompilable regex,
// are dropped; the survivors keep their stored order.
func decodeCatalog(stored *ports.Catalog) []Definition {
	defs := make([]Definition, 0, len(stored.Patterns))
	for _, p := range stored.Patterns {
		def, ok := decodePattern(p)
		if !ok {
			continue
		}
		defs = append(defs, def)
	}
	return defs
}

func decodePattern(p ports.Pattern) (Definition, bool) {
	severity, ok := risk.SeverityFromName(p.Severity)
	if !ok {
		return Definition{}, false
	}
	field, ok := statement.FieldFromName(p.Field)
	if !ok {
		return Definition{}, false
	}
	matcher, ok := decodeMatcher(p.PatternType, p.PatternValue)
	if !ok {
		return Definition{}, false
	}
	return Definition{
		Name:          p.Name,
		Description:   p.Description,
		Severity:      severity,
		Field:         field,
		Matcher:       matcher,
		FixSuggestion: p.FixSuggestion,
	}, true
}

func decodeMatcher(kindName, payload string) (Matcher, bool) {
	kind, ok := KindFromName(kindName)
	if !ok {
		return nil, false
	}
	switch kind {
	case KindRegex:
		m, err := NewRegexMatcher(payload)
		if err != nil {
			return nil, false
		}
		return m, true
	case KindFormatCheck:
		check, ok := FormatCheckFromName(payload)
		if !ok {
			return nil, false
		}
		return FormatMatcher{Check: check}, true
	case KindValueCheck:
		check, ok := ValueCheckFromName(payload)
		if !ok {
			return nil, false
		}
		return ValueMatcher{Check: check}, true
	}
	return nil, false
}

func encodeDefinitions(defs []Definition) []ports.Pattern {
	out := make([]ports.Pattern, len(defs))
	for i, d := range defs {
		out[i] = ports.Pattern{
			Name:          d.Name,
			Description:   d.Description,
			Severity:      d.Severity.String(),
			Field:         d.Field.String(),
			PatternType:   d.Matcher.Kind().String(),
			PatternValue:  d.Matcher.Payload(),
			FixSuggestion: d.FixSuggestion,
		}
	}
	return out
}
