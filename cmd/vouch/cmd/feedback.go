package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calder/vouch/internal/domain/patterns"
	"github.com/calder/vouch/internal/domain/statement"
)

var (
	feedbackDoc       string
	feedbackRow       int
	feedbackField     string
	feedbackOCR       string
	feedbackCorrected string
	feedbackNote      string
	feedbackPatterns  string
	feedbackStore     string
)

var feedbackCmd = &cobra.Command{
	Use:          "feedback",
	Short:        "Record a manual correction against the pattern catalog",
	RunE:         runFeedback,
	SilenceUsage: true,
}

func init() {
	f := feedbackCmd.Flags()
	f.StringVar(&feedbackDoc, "doc", "", "Document ID the correction belongs to")
	f.IntVar(&feedbackRow, "row", 0, "Zero-based row index")
	f.StringVar(&feedbackField, "field", "", "Corrected field (date, date_raw, amount, amount_raw, description, balance)")
	f.StringVar(&feedbackOCR, "ocr", "", "Value the OCR produced")
	f.StringVar(&feedbackCorrected, "corrected", "", "Value it should have been")
	f.StringVar(&feedbackNote, "note", "", "Free-text note")
	f.StringVarP(&feedbackPatterns, "patterns", "p", "./patterns.json", "Pattern catalog path")
	f.StringVar(&feedbackStore, "store", "json", "Pattern store backend (json or bbolt)")

	feedbackCmd.MarkFlagRequired("doc")
	feedbackCmd.MarkFlagRequired("field")
	feedbackCmd.MarkFlagRequired("ocr")
	feedbackCmd.MarkFlagRequired("corrected")
}

func runFeedback(cmd *cobra.Command, args []string) error {
	field, ok := statement.FieldFromName(feedbackField)
	if !ok {
		return fmt.Errorf("unknown field %q", feedbackField)
	}

	catalog, closeStore, err := openCatalog(feedbackStore, feedbackPatterns)
	if err != nil {
		return err
	}
	defer closeStore()

	loop := patterns.NewFeedbackLoop(catalog, nil)
	outcome, err := loop.ProcessCorrection(patterns.Correction{
		DocumentID: feedbackDoc,
		Row:        feedbackRow,
		Field:      field,
		Incorrect:  feedbackOCR,
		Correct:    feedbackCorrected,
		Note:       feedbackNote,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Category: %s\n", outcome.Category)
	switch {
	case outcome.Added:
		fmt.Printf("Added pattern %q to the catalog\n", outcome.Pattern)
	case outcome.Covered:
		fmt.Println("Catalog already covers this category")
	default:
		fmt.Println("Catalog does not cover this category yet; no pattern synthesized")
	}
	return nil
}
