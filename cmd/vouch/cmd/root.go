package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vouch",
	Short: "vouch — bank statement validation engine",
	Long:  "Validates OCR-extracted bank statements with hard rules, risk heuristics, known misread patterns, and a weighted confidence score.",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
