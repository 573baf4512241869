package patterns

import (
	"github.com/calder/vouch/internal/domain/risk"
	"github.com/calder/vouch/internal/domain/statement"
)

// Defaults returns the built-in pattern set seeded into a fresh catalog.
// Each entry is a misread shape seen repeatedly in scanned statements.
func Defaults() []Definition {
	return []Definition{
		{
			Name:          "bracket_negative_misread",
			Description:   "Bracketed negative number possibly misread as positive",
			Severity:      risk.SeverityHigh,
			Field:         statement.FieldAmountRaw,
			Matcher:       FormatMatcher{Check: FormatHasParentheses},
			FixSuggestion: "Verify amount is negative",
		},
		{
			Name:          "dollar_sign_missing",
			Description:   "Amount missing dollar sign",
			Severity:      risk.SeverityMedium,
			Field:         statement.FieldAmountRaw,
			Matcher:       FormatMatcher{Check: FormatMissingDollarSign},
			FixSuggestion: "Verify amount parsing",
		},
		{
			Name:          "comma_decimal_confusion",
			Description:   "Comma possibly misread as decimal point",
			Severity:      risk.SeverityHigh,
			Field:         statement.FieldAmountRaw,
			Matcher:       FormatMatcher{Check: FormatCommaAsDecimal},
			FixSuggestion: "Check if European format (1.234,56)",
		},
		{
			Name:          "date_ambiguity",
			Description:   "Date format ambiguous (MM/DD vs DD/MM)",
			Severity:      risk.SeverityMedium,
			Field:         statement.FieldDateRaw,
			Matcher:       FormatMatcher{Check: FormatAmbiguousDate},
			FixSuggestion: "Verify month/day order",
		},
		{
			Name:          "zero_o_confusion",
			Description:   "Letter O possibly confused with zero",
			Severity:      risk.SeverityHigh,
			Field:         statement.FieldAmountRaw,
			Matcher:       FormatMatcher{Check: FormatHasLetterO},
			FixSuggestion: "Check if O should be 0",
		},
		{
			Name:          "one_l_confusion",
			Description:   "Letter l possibly confused with 1",
			Severity:      risk.SeverityHigh,
			Field:         statement.FieldAmountRaw,
			Matcher:       FormatMatcher{Check: FormatHasLetterL},
			FixSuggestion: "Check if l should be 1",
		},
		{
			Name:          "negative_deposit",
			Description:   "Deposit amount is negative",
			Severity:      risk.SeverityCritical,
			Field:         statement.FieldAmount,
			Matcher:       ValueMatcher{Check: ValueNegative},
			FixSuggestion: "Deposits should be positive",
		},
	}
}
