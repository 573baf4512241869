package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/calder/vouch/internal/adapters/fsnotify"
	"github.com/calder/vouch/internal/adapters/httpapi"
	"github.com/calder/vouch/internal/config"
	"github.com/calder/vouch/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:          "serve",
	Short:        "Serve the validation API over HTTP",
	Long:         "Hosts the validation engine behind a JSON API. Configuration comes from the environment (VOUCH_ADDR, VOUCH_OUTPUT_DIR, VOUCH_PATTERNS_PATH, VOUCH_STORE, ...), with a .env file honored when present.",
	RunE:         runServe,
	SilenceUsage: true,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logging.NewJSON(os.Stderr, cfg.LogLevel)

	engine, closeStore, err := buildEngine(engineConfig(), cfg.Store, cfg.PatternsPath, cfg.OutputDir, log)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer closeStore()

	// Hot reload: a change to the catalog file swaps the definitions
	// in; a failed reload keeps the previous ones.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("init watcher: %w", err)
	}
	defer watcher.Stop()

	catalog := engine.Catalog()
	err = watcher.Watch(cfg.PatternsPath, func(path string) {
		if err := catalog.Reload(); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Catalog reload failed, keeping previous patterns")
			return
		}
		log.Info().Str("path", path).Int("patterns", catalog.Len()).Msg("Catalog reloaded")
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", cfg.PatternsPath, err)
	}

	server := httpapi.NewServer(cfg, engine, log)
	if err := server.Start(); err != nil {
		return err
	}

	fmt.Printf("vouch API listening on http://%s\n", server.Addr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\nshutting down...")
	server.Stop()
	return nil
}
