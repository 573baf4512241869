package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calder/vouch/internal/domain/report"
	"github.com/calder/vouch/internal/logging"
)

var (
	validateOut       string
	validatePatterns  string
	validateStore     string
	validateThreshold float64
	validateWorkers   int
	validateQuiet     bool
	validateJSON      bool
)

var validateCmd = &cobra.Command{
	Use:           "validate <extraction.json> [extraction.json ...]",
	Short:         "Validate extraction results and write report artifacts",
	Long:          "Runs each extraction result through the rules, risk, and pattern analyzers, writes the report artifacts, and exits 0 (approved), 1 (review recommended), 2 (needs review), or 3 (operational failure).",
	Args:          cobra.MinimumNArgs(1),
	RunE:          runValidate,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	f := validateCmd.Flags()
	f.StringVarP(&validateOut, "out", "o", "./output", "Report output directory")
	f.StringVarP(&validatePatterns, "patterns", "p", "./patterns.json", "Pattern catalog path")
	f.StringVar(&validateStore, "store", "json", "Pattern store backend (json or bbolt)")
	f.Float64VarP(&validateThreshold, "threshold", "t", 0.85, "Per-field confidence threshold")
	f.IntVarP(&validateWorkers, "workers", "w", 4, "Documents validated concurrently")
	f.BoolVarP(&validateQuiet, "quiet", "q", false, "Suppress the text summary")
	f.BoolVar(&validateJSON, "json", false, "Print verdict JSON instead of the text summary")
}

func runValidate(cmd *cobra.Command, args []string) error {
	log := logging.New(os.Getenv("VOUCH_LOG_LEVEL"))

	cfg := engineConfig()
	cfg.Validation.ConfidenceThreshold = validateThreshold
	cfg.Workers = validateWorkers

	engine, closeStore, err := buildEngine(cfg, validateStore, validatePatterns, validateOut, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return verdictExit{3}
	}
	defer closeStore()

	items := engine.ValidateBatch(cmd.Context(), args)

	worst := 0
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, item := range items {
		if item.Err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", item.Path, item.Err)
			worst = 3
			continue
		}

		switch {
		case validateJSON:
			if err := enc.Encode(item.Result.Verdict); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				worst = 3
			}
		case !validateQuiet:
			fmt.Println(item.Result.Summary)
		}

		if code := exitCodeFor(item.Result.Verdict.ValidationStatus); code > worst {
			worst = code
		}
	}

	if worst == 0 {
		return nil
	}
	return verdictExit{worst}
}

// exitCodeFor maps a verdict status to the process exit code.
func exitCodeFor(status report.Status) int {
	switch status {
	case report.StatusNeedsReview:
		return 2
	case report.StatusReviewRecommended:
		return 1
	default:
		return 0
	}
}
