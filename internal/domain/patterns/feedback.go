package patterns

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/calder/vouch/internal/domain/statement"
)

// Category classifies a manual correction by the shape of the misread.
type Category uint8

const (
	CategoryBracketIssue Category = iota
	CategoryOZeroConfusion
	CategoryLOneConfusion
	CategoryOther

	categoryCount
)

var categoryNames = [categoryCount]string{
	"bracket_issue",
	"o_zero_confusion",
	"l_one_confusion",
	"other",
}

// String returns the wire name of the category.
func (c Category) String() string {
	if c >= categoryCount {
		return fmt.Sprintf("CATEGORY(%d)", uint8(c))
	}
	return categoryNames[c]
}

// MarshalJSON encodes the category as its wire name.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// Categorize classifies a correction from the misread and corrected
// values alone.
func Categorize(incorrect, correct string) Category {
	switch {
	case strings.ContainsAny(incorrect, "()"):
		return CategoryBracketIssue
	case strings.ReplaceAll(incorrect, "O", "0") == correct:
		return CategoryOZeroConfusion
	case strings.ReplaceAll(incorrect, "l", "1") == correct:
		return CategoryLOneConfusion
	default:
		return CategoryOther
	}
}

// Correction is one manual fix reported against a validated document.
type Correction struct {
	DocumentID string          `json:"document_id"`
	Row        int             `json:"row"`
	Field      statement.Field `json:"field"`
	Incorrect  string          `json:"incorrect_value"`
	Correct    string          `json:"correct_value"`
	Note       string          `json:"note,omitempty"`
}

// Outcome reports what processing a correction produced.
type Outcome struct {
	Category Category `json:"category"`
	Covered  bool     `json:"covered"`
	Added    bool     `json:"added"`
	Pattern  string   `json:"pattern,omitempty"`
}

// SynthesisStrategy derives a new pattern definition from a correction
// that no existing pattern covers. Implementations report false when no
// rule can be derived from the correction.
type SynthesisStrategy interface {
	Synthesize(c Correction, category Category) (Definition, bool)
}

// NoSynthesis never derives a pattern. Corrections are still categorized
// and checked for coverage.
type NoSynthesis struct{}

// Synthesize implements SynthesisStrategy.
func (NoSynthesis) Synthesize(Correction, Category) (Definition, bool) {
	return Definition{}, false
}

// FeedbackLoop turns manual corrections into catalog growth. Whether a
// correction becomes a new pattern is delegated to the strategy.
type FeedbackLoop struct {
	catalog  *Catalog
	strategy SynthesisStrategy
}

// NewFeedbackLoop wires a loop to the catalog. A nil strategy means
// corrections are recorded without synthesizing patterns.
func NewFeedbackLoop(catalog *Catalog, strategy SynthesisStrategy) *FeedbackLoop {
	if strategy == nil {
		strategy = NoSynthesis{}
	}
	return &FeedbackLoop{catalog: catalog, strategy: strategy}
}

// ProcessCorrection categorizes the correction, checks whether an
// existing pattern already covers the category, and otherwise asks the
// strategy for a new definition to persist.
func (f *FeedbackLoop) ProcessCorrection(c Correction) (Outcome, error) {
	category := Categorize(c.Incorrect, c.Correct)
	out := Outcome{Category: category}

	if f.catalog.Covers(category) {
		out.Covered = true
		return out, nil
	}

	def, ok := f.strategy.Synthesize(c, category)
	if !ok {
		return out, nil
	}
	if err := f.catalog.Add(def); err != nil {
		return out, err
	}
	out.Added = true
	out.Pattern = def.Name
	return out, nil
}
