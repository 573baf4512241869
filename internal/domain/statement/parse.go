package statement

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date layouts seen across statement extractions, tried in order. The
// US month-first slash form wins over day-first for ambiguous dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02/01/2006",
	"01-02-2006",
	"02-01-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2-Jan-2006",
	"2 Jan 2006",
}

var centsComma = regexp.MustCompile(`,\d{2}$`)

// ParseDate parses OCR'd date text against the known statement layouts.
func ParseDate(value string) (time.Time, bool) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseAmount normalizes OCR'd currency text to an exact decimal. It
// understands CR/DR suffixes, parenthesized negatives, currency symbols,
// and both North American (1,234.56) and European (1.234,56) separators.
func ParseAmount(value string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return decimal.Decimal{}, false
	}

	upper := strings.ToUpper(cleaned)
	suffixSign := 0
	for _, token := range []string{"CR", "CREDIT"} {
		if strings.HasSuffix(upper, token) {
			suffixSign = 1
			cleaned = cleaned[:len(cleaned)-len(token)]
			break
		}
	}
	if suffixSign == 0 {
		for _, token := range []string{"DR", "DEBIT"} {
			if strings.HasSuffix(upper, token) {
				suffixSign = -1
				cleaned = cleaned[:len(cleaned)-len(token)]
				break
			}
		}
	}

	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	negative := false
	switch {
	case strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")"):
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	case strings.HasPrefix(cleaned, "-"):
		negative = true
		cleaned = cleaned[1:]
	case strings.HasPrefix(cleaned, "+"):
		cleaned = cleaned[1:]
	}
	if suffixSign == -1 {
		negative = true
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		// European form: dots group thousands, comma is the decimal mark.
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case lastComma >= 0 && lastDot < 0:
		if centsComma.MatchString(cleaned) {
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	default:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, true
}
