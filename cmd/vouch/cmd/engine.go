package cmd

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/calder/vouch/internal/adapters/boltstore"
	"github.com/calder/vouch/internal/adapters/jsonstore"
	"github.com/calder/vouch/internal/adapters/reportio"
	"github.com/calder/vouch/internal/adapters/templates"
	"github.com/calder/vouch/internal/app"
	"github.com/calder/vouch/internal/domain/patterns"
	"github.com/calder/vouch/internal/domain/risk"
)

// openCatalog opens the pattern catalog behind the selected store
// backend. The returned closer releases the store; it is a no-op for
// the JSON file store.
func openCatalog(backend, path string) (*patterns.Catalog, func() error, error) {
	switch backend {
	case "json":
		catalog, err := patterns.Open(jsonstore.NewStore(path))
		if err != nil {
			return nil, nil, err
		}
		return catalog, func() error { return nil }, nil
	case "bbolt":
		store, err := boltstore.NewStore(path)
		if err != nil {
			return nil, nil, err
		}
		catalog, err := patterns.Open(store)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		return catalog, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown pattern store %q (want json or bbolt)", backend)
	}
}

// engineConfig returns the CLI's engine preset: the embedded
// institution catalog over the built-in template defaults.
func engineConfig() app.Config {
	cfg := app.DefaultConfig()
	if tpls, err := risk.LoadTemplatesFromFS(templates.FS, "banks"); err == nil {
		cfg.Validation.Templates = tpls
	}
	return cfg
}

// buildEngine wires a validation engine over the given catalog and
// output directory.
func buildEngine(cfg app.Config, backend, patternsPath, outDir string, log zerolog.Logger) (*app.Engine, func() error, error) {
	catalog, closeStore, err := openCatalog(backend, patternsPath)
	if err != nil {
		return nil, nil, err
	}

	writer, err := reportio.NewWriter(outDir)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return app.NewEngine(cfg, catalog, writer, log), closeStore, nil
}
