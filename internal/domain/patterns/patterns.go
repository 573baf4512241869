// Package patterns maintains the catalog of known OCR misread signatures
// and matches extracted rows against it. A catalog entry pairs a field
// selector with one of three matcher kinds (regular expression, format
// check, value check); hits carry a fix suggestion for the reviewer and
// are never applied automatically.
package patterns

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/calder/vouch/internal/domain/risk"
	"github.com/calder/vouch/internal/domain/statement"
)

// Kind tags the matcher variant of a pattern definition.
type Kind uint8

const (
	KindRegex Kind = iota
	KindFormatCheck
	KindValueCheck

	kindCount
)

var kindNames = [kindCount]string{
	"regex",
	"format_check",
	"value_check",
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if k >= kindCount {
		return fmt.Sprintf("KIND(%d)", uint8(k))
	}
	return kindNames[k]
}

// KindFromName resolves a wire name to its kind.
func KindFromName(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// FormatCheck is a named boolean predicate over the stringified field
// value.
type FormatCheck uint8

const (
	FormatHasParentheses FormatCheck = iota
	FormatMissingDollarSign
	FormatCommaAsDecimal
	FormatAmbiguousDate
	FormatHasLetterO
	FormatHasLetterL

	formatCheckCount
)

var formatCheckNames = [formatCheckCount]string{
	"has_parentheses",
	"missing_dollar_sign",
	"has_comma_as_decimal",
	"ambiguous_date",
	"has_letter_o",
	"has_letter_l",
}

// ambiguousDate matches D/D/YYYY shapes where month and day cannot be
// told apart without context.
var ambiguousDate = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)

// String returns the wire name of the predicate.
func (c FormatCheck) String() string {
	if c >= formatCheckCount {
		return fmt.Sprintf("FORMAT(%d)", uint8(c))
	}
	return formatCheckNames[c]
}

// FormatCheckFromName resolves a wire name to its predicate.
func FormatCheckFromName(name string) (FormatCheck, bool) {
	for i, n := range formatCheckNames {
		if n == name {
			return FormatCheck(i), true
		}
	}
	return 0, false
}

func (c FormatCheck) evaluate(v string) bool {
	switch c {
	case FormatHasParentheses:
		return strings.Contains(v, "(") && strings.Contains(v, ")")
	case FormatMissingDollarSign:
		return !strings.Contains(v, "$")
	case FormatCommaAsDecimal:
		return strings.Contains(v, ",") && !strings.Contains(v, ".")
	case FormatAmbiguousDate:
		return ambiguousDate.MatchString(v)
	case FormatHasLetterO:
		return strings.Contains(strings.ToUpper(v), "O")
	case FormatHasLetterL:
		return strings.Contains(strings.ToLower(v), "l")
	}
	return false
}

// ValueCheck is a named numeric predicate over the field's decimal
// value.
type ValueCheck uint8

const (
	ValueNegative ValueCheck = iota

	valueCheckCount
)

var valueCheckNames = [valueCheckCount]string{
	"negative",
}

// String returns the wire name of the predicate.
func (c ValueCheck) String() string {
	if c >= valueCheckCount {
		return fmt.Sprintf("VALUE(%d)", uint8(c))
	}
	return valueCheckNames[c]
}

// ValueCheckFromName resolves a wire name to its predicate.
func ValueCheckFromName(name string) (ValueCheck, bool) {
	for i, n := range valueCheckNames {
		if n == name {
			return ValueCheck(i), true
		}
	}
	return 0, false
}

func (c ValueCheck) evaluate(d decimal.Decimal) bool {
	switch c {
	case ValueNegative:
		return d.IsNegative()
	}
	return false
}

// Matcher evaluates one pattern kind against a row's field. Exactly one
// implementation exists per Kind; the catalog persists a matcher as its
// kind tag plus a string payload.
type Matcher interface {
	Kind() Kind
	Payload() string
	Matches(value string, row *statement.Record, field statement.Field) bool
}

// RegexMatcher searches the stringified field value for a regular
// expression.
type RegexMatcher struct {
	re *regexp.Regexp
}

// NewRegexMatcher compiles expr into a matcher.
func NewRegexMatcher(expr string) (RegexMatcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return RegexMatcher{}, fmt.Errorf("compile pattern regex: %w", err)
	}
	return RegexMatcher{re: re}, nil
}

func (m RegexMatcher) Kind() Kind      { return KindRegex }
func (m RegexMatcher) Payload() string { return m.re.String() }

func (m RegexMatcher) Matches(value string, _ *statement.Record, _ statement.Field) bool {
	return m.re.MatchString(value)
}

// FormatMatcher applies a named format predicate to the stringified
// field value.
type FormatMatcher struct {
	Check FormatCheck
}

func (m FormatMatcher) Kind() Kind      { return KindFormatCheck }
func (m FormatMatcher) Payload() string { return m.Check.String() }

func (m FormatMatcher) Matches(value string, _ *statement.Record, _ statement.Field) bool {
	return m.Check.evaluate(value)
}

// ValueMatcher applies a named numeric predicate to the row's decimal
// value for the field. Fields without a numeric value never match.
type ValueMatcher struct {
	Check ValueCheck
}

func (m ValueMatcher) Kind() Kind      { return KindValueCheck }
func (m ValueMatcher) Payload() string { return m.Check.String() }

func (m ValueMatcher) Matches(_ string, row *statement.Record, field statement.Field) bool {
	d, ok := field.DecimalValue(row)
	return ok && m.Check.evaluate(d)
}

// Definition is one catalog entry: a known misread signature, where to
// look for it, and what to tell the reviewer.
type Definition struct {
	Name          string
	Description   string
	Severity      risk.Severity
	Field         statement.Field
	Matcher       Matcher
	FixSuggestion string
}

// Match is one pattern hit on one row.
type Match struct {
	PatternName   string          `json:"pattern_name"`
	Row           int             `json:"row"`
	Field         statement.Field `json:"field"`
	Value         string          `json:"value"`
	Severity      risk.Severity   `json:"severity"`
	Message       string          `json:"message"`
	FixSuggestion string          `json:"fix_suggestion"`
}

// Evaluate applies the definition to one row. Rows where the target
// field is absent never match.
func (d *Definition) Evaluate(row *statement.Record, idx int) (Match, bool) {
	value, ok := d.Field.StringValue(row)
	if !ok {
		return Match{}, false
	}
	if !d.Matcher.Matches(value, row, d.Field) {
		return Match{}, false
	}
	return Match{
		PatternName:   d.Name,
		Row:           idx,
		Field:         d.Field,
		Value:         value,
		Severity:      d.Severity,
		Message:       d.Description + ": " + value,
		FixSuggestion: d.FixSuggestion,
	}, true
}
