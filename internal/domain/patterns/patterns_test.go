package patterns

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder/vouch/internal/domain/risk"
	"github.com/calder/vouch/internal/domain/statement"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func matchNames(matches []Match) []string {
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.PatternName
	}
	return names
}

// =============================================================================
// Predicates
// =============================================================================

func TestFormatCheck_Predicates(t *testing.T) {
	cases := []struct {
		check FormatCheck
		value string
		hit   bool
	}{
		{FormatHasParentheses, "(1,200.00)", true},
		{FormatHasParentheses, "(1200", false},
		{FormatHasParentheses, "1200.00", false},
		{FormatMissingDollarSign, "1200.00", true},
		{FormatMissingDollarSign, "$1,200.00", false},
		{FormatCommaAsDecimal, "1200,50", true},
		{FormatCommaAsDecimal, "1,200.50", false},
		{FormatAmbiguousDate, "01/02/2026", true},
		{FormatAmbiguousDate, "1/2/2026", true},
		{FormatAmbiguousDate, "2026-01-02", false},
		{FormatAmbiguousDate, "01/02/26", false},
		{FormatHasLetterO, "1O0.50", true},
		{FormatHasLetterO, "1o0.50", true},
		{FormatHasLetterO, "100.50", false},
		{FormatHasLetterL, "1l5.00", true},
		{FormatHasLetterL, "1L5.00", true},
		{FormatHasLetterL, "115.00", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.hit, tc.check.evaluate(tc.value),
			"%s on %q", tc.check, tc.value)
	}
}

func TestValueCheck_Negative(t *testing.T) {
	assert.True(t, ValueNegative.evaluate(decimal.RequireFromString("-0.01")))
	assert.False(t, ValueNegative.evaluate(decimal.RequireFromString("0")))
	assert.False(t, ValueNegative.evaluate(decimal.RequireFromString("12.50")))
}

// =============================================================================
// Definition evaluation
// =============================================================================

func TestEvaluate_AbsentFieldNeverMatches(t *testing.T) {
	def := Definition{
		Name:     "dollar_sign_missing",
		Severity: risk.SeverityMedium,
		Field:    statement.FieldAmountRaw,
		Matcher:  FormatMatcher{Check: FormatMissingDollarSign},
	}

	// No raw text at all: the predicate would trivially hold, but the
	// field is absent so the pattern must not fire.
	row := statement.Record{Deposit: dec("100.00")}
	_, ok := def.Evaluate(&row, 0)
	assert.False(t, ok)
}

func TestEvaluate_RegexSearchesValue(t *testing.T) {
	m, err := NewRegexMatcher(`\d{2}/\d{2}`)
	require.NoError(t, err)
	def := Definition{
		Name:     "slash_date",
		Severity: risk.SeverityLow,
		Field:    statement.FieldDateRaw,
		Matcher:  m,
	}

	row := statement.Record{DateRaw: "posted 01/02/2026"}
	match, ok := def.Evaluate(&row, 3)
	require.True(t, ok)
	assert.Equal(t, 3, match.Row)
	assert.Equal(t, "posted 01/02/2026", match.Value)

	row = statement.Record{DateRaw: "January 2"}
	_, ok = def.Evaluate(&row, 0)
	assert.False(t, ok)
}

func TestEvaluate_ValueCheckUsesDeposit(t *testing.T) {
	def := Definition{
		Name:          "negative_deposit",
		Description:   "Deposit amount is negative",
		Severity:      risk.SeverityCritical,
		Field:         statement.FieldAmount,
		Matcher:       ValueMatcher{Check: ValueNegative},
		FixSuggestion: "Deposits should be positive",
	}

	row := statement.Record{Deposit: dec("-50.00")}
	match, ok := def.Evaluate(&row, 1)
	require.True(t, ok)
	assert.Equal(t, "Deposit amount is negative: -50", match.Message)
	assert.Equal(t, statement.FieldAmount, match.Field)
	assert.Equal(t, risk.SeverityCritical, match.Severity)

	// The amount selector falls through to withdrawal when no deposit
	// is present.
	row = statement.Record{Withdrawal: dec("-25.00")}
	_, ok = def.Evaluate(&row, 0)
	assert.True(t, ok)

	row = statement.Record{Deposit: dec("50.00")}
	_, ok = def.Evaluate(&row, 0)
	assert.False(t, ok)
}

func TestEvaluate_ValueCheckOnTextFieldNeverMatches(t *testing.T) {
	def := Definition{
		Name:     "negative_description",
		Severity: risk.SeverityLow,
		Field:    statement.FieldDescription,
		Matcher:  ValueMatcher{Check: ValueNegative},
	}

	row := statement.Record{Description: "-50.00"}
	_, ok := def.Evaluate(&row, 0)
	assert.False(t, ok)
}

// Bracketed amounts must not drag in the European-format pattern just
// because they contain a comma.
func TestEvaluate_BracketAndCommaDoNotCoFire(t *testing.T) {
	defaults := Defaults()
	byName := make(map[string]Definition, len(defaults))
	for _, d := range defaults {
		byName[d.Name] = d
	}

	bracket := byName["bracket_negative_misread"]
	comma := byName["comma_decimal_confusion"]

	row := statement.Record{AmountRaw: "(1,200.00)"}
	_, ok := bracket.Evaluate(&row, 0)
	assert.True(t, ok)
	_, ok = comma.Evaluate(&row, 0)
	assert.False(t, ok, "decimal point present, comma pattern must not fire")

	row = statement.Record{AmountRaw: "(1200.00)"}
	_, ok = bracket.Evaluate(&row, 0)
	assert.True(t, ok)
	_, ok = comma.Evaluate(&row, 0)
	assert.False(t, ok)

	row = statement.Record{AmountRaw: "1200,50"}
	_, ok = comma.Evaluate(&row, 0)
	assert.True(t, ok)
}

// =============================================================================
// Wire names
// =============================================================================

func TestKindAndCheckNames(t *testing.T) {
	k, ok := KindFromName("format_check")
	require.True(t, ok)
	assert.Equal(t, KindFormatCheck, k)

	_, ok = KindFromName("fuzzy")
	assert.False(t, ok)

	c, ok := FormatCheckFromName("has_comma_as_decimal")
	require.True(t, ok)
	assert.Equal(t, FormatCommaAsDecimal, c)

	v, ok := ValueCheckFromName("negative")
	require.True(t, ok)
	assert.Equal(t, ValueNegative, v)
}
