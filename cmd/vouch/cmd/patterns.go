package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	patternsPath    string
	patternsBackend string
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Inspect the error-pattern catalog",
}

var patternsListCmd = &cobra.Command{
	Use:          "list",
	Short:        "List catalog entries",
	RunE:         runPatternsList,
	SilenceUsage: true,
}

var patternsShowCmd = &cobra.Command{
	Use:          "show <name>",
	Short:        "Show one catalog entry in full",
	Args:         cobra.ExactArgs(1),
	RunE:         runPatternsShow,
	SilenceUsage: true,
}

func init() {
	pf := patternsCmd.PersistentFlags()
	pf.StringVarP(&patternsPath, "patterns", "p", "./patterns.json", "Pattern catalog path")
	pf.StringVar(&patternsBackend, "store", "json", "Pattern store backend (json or bbolt)")

	patternsCmd.AddCommand(patternsListCmd)
	patternsCmd.AddCommand(patternsShowCmd)
}

func runPatternsList(cmd *cobra.Command, args []string) error {
	catalog, closeStore, err := openCatalog(patternsBackend, patternsPath)
	if err != nil {
		return err
	}
	defer closeStore()

	export := catalog.Export()
	fmt.Printf("Catalog v%s, %d patterns (updated %s)\n\n",
		export.Version, len(export.Patterns), export.LastUpdated.Format("2006-01-02 15:04"))
	fmt.Printf("%-28s %-9s %-12s %s\n", "NAME", "SEVERITY", "FIELD", "TYPE")
	for _, p := range export.Patterns {
		fmt.Printf("%-28s %-9s %-12s %s\n", p.Name, p.Severity, p.Field, p.PatternType)
	}
	return nil
}

func runPatternsShow(cmd *cobra.Command, args []string) error {
	catalog, closeStore, err := openCatalog(patternsBackend, patternsPath)
	if err != nil {
		return err
	}
	defer closeStore()

	name := args[0]
	for _, p := range catalog.Export().Patterns {
		if p.Name != name {
			continue
		}
		fmt.Printf("Name:        %s\n", p.Name)
		fmt.Printf("Description: %s\n", p.Description)
		fmt.Printf("Severity:    %s\n", p.Severity)
		fmt.Printf("Field:       %s\n", p.Field)
		fmt.Printf("Type:        %s\n", p.PatternType)
		fmt.Printf("Value:       %s\n", p.PatternValue)
		if p.FixSuggestion != "" {
			fmt.Printf("Fix:         %s\n", p.FixSuggestion)
		}
		return nil
	}
	return fmt.Errorf("pattern %q not found", name)
}
