package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder/vouch/internal/domain/risk"
	"github.com/calder/vouch/internal/domain/statement"
)

func TestCategorize(t *testing.T) {
	cases := []struct {
		incorrect string
		correct   string
		want      Category
	}{
		{"(100.00)", "-100.00", CategoryBracketIssue},
		{"(100.00", "-100.00", CategoryBracketIssue},
		{"1O0.50", "100.50", CategoryOZeroConfusion},
		{"1l5.00", "115.00", CategoryLOneConfusion},
		{"12.34", "12.84", CategoryOther},
		// Parentheses win even when an O substitution would also fit.
		{"(1O0)", "(100)", CategoryBracketIssue},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Categorize(tc.incorrect, tc.correct),
			"%q -> %q", tc.incorrect, tc.correct)
	}
}

// spyStrategy records whether it was consulted.
type spyStrategy struct {
	called bool
	def    Definition
	ok     bool
}

func (s *spyStrategy) Synthesize(Correction, Category) (Definition, bool) {
	s.called = true
	return s.def, s.ok
}

// The built-in names never contain a category token verbatim, so default
// catalogs report every correction as uncovered.
func TestProcessCorrection_DefaultsDoNotCover(t *testing.T) {
	c, _ := openDefaultCatalog(t)
	loop := NewFeedbackLoop(c, nil)

	out, err := loop.ProcessCorrection(Correction{
		DocumentID: "doc-1",
		Row:        2,
		Field:      statement.FieldAmountRaw,
		Incorrect:  "(100.00)",
		Correct:    "-100.00",
	})
	require.NoError(t, err)

	assert.Equal(t, CategoryBracketIssue, out.Category)
	assert.False(t, out.Covered)
	assert.False(t, out.Added)
	assert.Equal(t, 7, c.Len())
}

func TestProcessCorrection_CoveredSkipsSynthesis(t *testing.T) {
	c, _ := openDefaultCatalog(t)
	require.NoError(t, c.Add(Definition{
		Name:     "bracket_issue_feedback",
		Severity: risk.SeverityHigh,
		Field:    statement.FieldAmountRaw,
		Matcher:  FormatMatcher{Check: FormatHasParentheses},
	}))

	spy := &spyStrategy{}
	loop := NewFeedbackLoop(c, spy)

	out, err := loop.ProcessCorrection(Correction{
		Incorrect: "(55.00)",
		Correct:   "-55.00",
	})
	require.NoError(t, err)

	assert.True(t, out.Covered)
	assert.False(t, out.Added)
	assert.False(t, spy.called)
}

func TestProcessCorrection_SynthesizedPatternIsPersisted(t *testing.T) {
	c, store := openDefaultCatalog(t)

	spy := &spyStrategy{
		def: Definition{
			Name:          "o_zero_confusion_feedback",
			Description:   "Letter O reported as zero by a reviewer",
			Severity:      risk.SeverityHigh,
			Field:         statement.FieldAmountRaw,
			Matcher:       FormatMatcher{Check: FormatHasLetterO},
			FixSuggestion: "Check if O should be 0",
		},
		ok: true,
	}
	loop := NewFeedbackLoop(c, spy)

	out, err := loop.ProcessCorrection(Correction{
		Incorrect: "1O0.50",
		Correct:   "100.50",
	})
	require.NoError(t, err)

	assert.True(t, spy.called)
	assert.True(t, out.Added)
	assert.Equal(t, "o_zero_confusion_feedback", out.Pattern)
	assert.Equal(t, 8, c.Len())
	assert.Equal(t, "o_zero_confusion_feedback", store.catalog.Patterns[7].Name)

	// A second identical correction is now covered.
	spy.called = false
	out, err = loop.ProcessCorrection(Correction{
		Incorrect: "2O0.00",
		Correct:   "200.00",
	})
	require.NoError(t, err)
	assert.True(t, out.Covered)
	assert.False(t, spy.called)
}
