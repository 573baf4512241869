package reportio

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/calder/vouch/internal/domain/report"
	"github.com/calder/vouch/internal/domain/statement"
)

const ruleWidth = 80

// TextSummary renders the human-readable processing report printed to
// the terminal. Violation and match listings truncate after ten entries.
func TextSummary(t *statement.Table, v *report.Verdict) string {
	heavy := strings.Repeat("=", ruleWidth)
	light := strings.Repeat("-", ruleWidth)

	var lines []string
	add := func(s string) { lines = append(lines, s) }
	addf := func(format string, args ...any) { lines = append(lines, fmt.Sprintf(format, args...)) }

	add(heavy)
	add("BANK STATEMENT PROCESSING REPORT")
	add(heavy)
	addf("Document ID: %s", v.DocumentID)
	addf("Processed: %s", processedAt(t))
	addf("Primary Engine: %s", t.Engine)
	add("")

	add("VALIDATION STATUS")
	add(light)
	addf("Status: %s", v.ValidationStatus)
	addf("Confidence Score: %.1f%% (%s)", v.Summary.OverallConfidence*100, v.Summary.ConfidenceLabel)
	addf("Rule Pass Rate: %.1f%%", v.Summary.RulePassRate*100)
	add("")

	add("STATISTICS")
	add(light)
	addf("Total Transactions: %d", len(t.Rows))
	addf("Total Checks: %d", v.Summary.TotalChecks)
	addf("Passed: %d", v.Summary.PassedChecks)
	addf("Failed: %d", v.Summary.FailedChecks)
	addf("Warnings: %d", v.Summary.Warnings)
	add("")

	add("RISK SIGNALS")
	add(light)
	for _, sig := range v.RiskSignals.Signals {
		addf("  [%s] %s: %s", sig.Severity, sig.Type, sig.Message)
	}
	add("")

	if len(v.Confidence.Components) > 0 {
		add("CONFIDENCE BREAKDOWN")
		add(light)
		for _, c := range v.Confidence.Components {
			if c.Available && c.Score != nil {
				addf("  %s: %.1f%% (weight %.2f)", c.Label, *c.Score*100, c.Weight)
			}
		}
		add("")
	}

	if len(v.RuleViolations) > 0 {
		add("RULE VIOLATIONS")
		add(light)
		shown := v.RuleViolations
		if len(shown) > 10 {
			shown = shown[:10]
		}
		for i := range shown {
			violation := &shown[i]
			addf("  [%s] Row %s: %s", violation.Severity, rowLabel(violation.Row), violation.Message)
		}
		if extra := len(v.RuleViolations) - 10; extra > 0 {
			addf("  ... and %d more violations", extra)
		}
		add("")
	}

	if len(v.PatternMatches) > 0 {
		add("ERROR PATTERN MATCHES")
		add(light)
		shown := v.PatternMatches
		if len(shown) > 10 {
			shown = shown[:10]
		}
		for i := range shown {
			m := &shown[i]
			addf("  [%s] Row %d: %s", m.Severity, m.Row, m.Message)
		}
		if extra := len(v.PatternMatches) - 10; extra > 0 {
			addf("  ... and %d more pattern matches", extra)
		}
		add("")
	}

	add("RECOMMENDATIONS")
	add(light)
	for _, rec := range recommendations(v) {
		addf("  • %s", rec)
	}
	add("")
	add(heavy)

	return strings.Join(lines, "\n")
}

func processedAt(t *statement.Table) string {
	if t.ProcessedAt.IsZero() {
		return ""
	}
	return t.ProcessedAt.Format(time.RFC3339)
}

func rowLabel(row *int) string {
	if row == nil {
		return "-"
	}
	return strconv.Itoa(*row)
}
