package reportio

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder/vouch/internal/domain/confidence"
	"github.com/calder/vouch/internal/domain/patterns"
	"github.com/calder/vouch/internal/domain/report"
	"github.com/calder/vouch/internal/domain/risk"
	"github.com/calder/vouch/internal/domain/rules"
	"github.com/calder/vouch/internal/domain/statement"
)

// ============================================================================
// Fixtures
// ============================================================================

func newTestWriter(t *testing.T) *Writer {
	t.Helper()

	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)
	w.now = func() time.Time {
		return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	}
	return w
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func day(d int) *time.Time {
	ts := time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
	return &ts
}

func sampleTable() *statement.Table {
	return &statement.Table{
		DocumentID:     "doc-123",
		Engine:         "document_ai",
		ProcessedAt:    time.Date(2026, 1, 31, 9, 30, 0, 0, time.UTC),
		OpeningBalance: dec("1000.00"),
		ClosingBalance: dec("1075.50"),
		PageCount:      1,
		Rows: []statement.Record{
			{
				TransactionDate:   day(5),
				Description:       "PAYROLL DEPOSIT",
				Deposit:           dec("100.00"),
				Balance:           dec("1100.00"),
				DateConfidence:    0.97,
				AmountConfidence:  0.95,
				BalanceConfidence: 0.9,
				Page:              1,
			},
			{
				TransactionDate:   day(6),
				PostingDate:       day(7),
				Description:       "ATM WITHDRAWAL",
				Withdrawal:        dec("24.50"),
				Balance:           dec("1075.50"),
				Reference:         "REF-42",
				DateConfidence:    0.9,
				AmountConfidence:  0.8,
				BalanceConfidence: 0.85,
				Page:              1,
				RowIndex:          1,
			},
		},
	}
}

// flaggedVerdict carries a CRITICAL and a MEDIUM rule violation plus one
// HIGH pattern match, settling at NEEDS_REVIEW.
func flaggedVerdict() *report.Verdict {
	v := report.New("doc-123")

	rowTwo, rowThree := 2, 3
	field := "balance"
	expected := "1100.5"
	actual := "1100"
	diff := 0.5
	v.AddViolations([]rules.Violation{
		{
			Rule:       rules.RuleRunningBalanceMismatch,
			Severity:   risk.SeverityCritical,
			Message:    "Balance mismatch at row 2",
			Row:        &rowTwo,
			Field:      &field,
			Expected:   &expected,
			Actual:     &actual,
			Difference: &diff,
		},
		{
			Rule:     rules.RuleDateNotMonotonic,
			Severity: risk.SeverityMedium,
			Message:  "Date order reversed at row 3",
			Row:      &rowThree,
		},
	})
	v.AddMatches([]patterns.Match{
		{
			PatternName:   "bracket_negative_misread",
			Row:           1,
			Field:         statement.FieldAmountRaw,
			Value:         "(24.50)",
			Severity:      risk.SeverityHigh,
			Message:       "Amount in brackets may be a misread negative",
			FixSuggestion: "Verify the sign against the source document",
		},
	})
	v.RiskSignals = risk.Summarize([]risk.Signal{
		{
			Type:     risk.TypeLogicFailure,
			Severity: risk.SeverityHigh,
			Action:   risk.ActionManualReview,
			Message:  "Detected 1 logic errors",
		},
	})

	v.Summary.PassedChecks = 18
	v.Summary.TotalChecks = 20
	v.CalculateSummary()

	score := 0.62
	datePart := 0.9
	v.AttachConfidence(confidence.Assessment{
		Score: 0.62,
		Label: "Low",
		Components: []confidence.Component{
			confidence.NewComponent("overall", "Overall Score", &score, 0.3, nil),
			confidence.NewComponent("date", "Date Quality", &datePart, 0.25, nil),
			confidence.NewComponent("engine", "Engine Quality", nil, 0.15, nil),
		},
	})
	return v
}

func cleanVerdict() *report.Verdict {
	v := report.New("doc-123")
	v.RiskSignals = risk.Summarize(nil)
	v.Summary.PassedChecks = 20
	v.Summary.TotalChecks = 20
	v.CalculateSummary()
	v.AttachConfidence(confidence.Assessment{Score: 0.95, Label: "High"})
	return v
}

func readLines(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(string(data), "\n")
}

// ============================================================================
// Transactions CSV
// ============================================================================

func TestWriteTransactionsCSV(t *testing.T) {
	w := newTestWriter(t)

	path, err := w.WriteTransactionsCSV(sampleTable())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.Dir(), "doc-123_20260315_120000.csv"), path)

	assert.Equal(t, []string{
		"Transaction Date,Description,Deposit,Withdrawal,Balance,Posting Date,Reference,Confidence (Date),Confidence (Amount),Confidence (Balance)",
		"2026-01-05,PAYROLL DEPOSIT,100,,1100,,,0.97,0.95,0.90",
		"2026-01-06,ATM WITHDRAWAL,,24.5,1075.5,2026-01-07,REF-42,0.90,0.80,0.85",
		"",
		"Summary",
		"Opening Balance,,,,1000",
		"Closing Balance,,,,1075.5",
		"Total Deposits,,100",
		"Total Withdrawals,,,24.5",
		"",
	}, readLines(t, path))
}

func TestWriteTransactionsCSV_EmptyTable(t *testing.T) {
	w := newTestWriter(t)

	path, err := w.WriteTransactionsCSV(&statement.Table{DocumentID: "doc-empty"})
	require.NoError(t, err)

	lines := readLines(t, path)
	assert.Equal(t, "Summary", lines[2])
	assert.Equal(t, "Opening Balance,,,,", lines[3])
	assert.Equal(t, "Total Deposits,,0", lines[5])
	assert.Equal(t, "Total Withdrawals,,,0", lines[6])
}

// ============================================================================
// Risk report JSON
// ============================================================================

func TestWriteRiskReport(t *testing.T) {
	w := newTestWriter(t)

	path, err := w.WriteRiskReport(flaggedVerdict())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.Dir(), "doc-123_risk_report_20260315_120000.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "doc-123", doc["document_id"])
	assert.Equal(t, "2026-03-15T12:00:00Z", doc["generated_at"])
	assert.Equal(t, "NEEDS_REVIEW", doc["validation_status"])

	summary := doc["summary"].(map[string]any)
	assert.Equal(t, float64(20), summary["total_checks"])
	assert.Equal(t, 0.62, summary["overall_confidence"])

	signals := doc["risk_signals"].(map[string]any)
	assert.Equal(t, float64(1), signals["high_count"])

	assert.Len(t, doc["rule_violations"], 2)
	assert.Len(t, doc["pattern_matches"], 1)
	assert.Equal(t, []any{
		"CRITICAL: Manual review required before using this data",
		"Found 1 critical rule violations - verify data accuracy",
		"Low confidence score - consider manual verification",
	}, doc["recommendations"])
}

func TestRecommendations_CleanVerdict(t *testing.T) {
	recs := recommendations(cleanVerdict())
	assert.Equal(t, []string{"Data passed all validations - safe to use"}, recs)
}

// ============================================================================
// Review rows CSV
// ============================================================================

func TestWriteReviewRowsCSV_SortsBySeverity(t *testing.T) {
	w := newTestWriter(t)

	path, err := w.WriteReviewRowsCSV(flaggedVerdict())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.Dir(), "doc-123_review_rows_20260315_120000.csv"), path)

	assert.Equal(t, []string{
		"Row,Source,Field,Severity,Message,Expected,Actual",
		"2,rule,balance,CRITICAL,Balance mismatch at row 2,1100.5,1100",
		"1,pattern,amount_raw,HIGH,Amount in brackets may be a misread negative,,(24.50)",
		"3,rule,,MEDIUM,Date order reversed at row 3,,",
		"",
	}, readLines(t, path))
}

func TestWriteReviewRowsCSV_NothingFlagged(t *testing.T) {
	w := newTestWriter(t)

	path, err := w.WriteReviewRowsCSV(cleanVerdict())
	require.NoError(t, err)
	assert.Empty(t, path)

	entries, err := os.ReadDir(w.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// ============================================================================
// Business summary JSON
// ============================================================================

func TestWriteBusinessSummary(t *testing.T) {
	w := newTestWriter(t)

	path, err := w.WriteBusinessSummary(sampleTable(), flaggedVerdict(), 1234*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.Dir(), "doc-123_business_summary_20260315_120000.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "doc-123", doc["document_id"])
	assert.Equal(t, 1.23, doc["processing_seconds"])

	status := doc["status"].(map[string]any)
	assert.Equal(t, "Needs Review", status["label"])
	assert.Equal(t, "High", status["risk_level"])

	conf := doc["confidence"].(map[string]any)
	assert.Equal(t, 0.62, conf["score"])
	assert.Equal(t, "Low", conf["label"])

	counts := doc["counts"].(map[string]any)
	assert.Equal(t, float64(2), counts["transactions"])
	assert.Equal(t, float64(2), counts["failed_checks"])
	assert.Equal(t, float64(1), counts["warnings"])
	assert.Equal(t, float64(3), counts["review_items"])

	assert.Equal(t, []any{
		"Manual review required before use",
		"Review the generated review_rows CSV for flagged items",
	}, doc["actions"])

	// Highlights keep detection order, violations before matches.
	highlights := doc["highlights"].([]any)
	require.Len(t, highlights, 3)
	first := highlights[0].(map[string]any)
	assert.Equal(t, "rule", first["source"])
	assert.Equal(t, "Balance mismatch at row 2", first["message"])
	last := highlights[2].(map[string]any)
	assert.Equal(t, "pattern", last["source"])
}

func TestWriteBusinessSummary_CapsHighlightsAtTen(t *testing.T) {
	w := newTestWriter(t)

	v := report.New("doc-busy")
	matches := make([]patterns.Match, 14)
	for i := range matches {
		matches[i] = patterns.Match{
			PatternName: "negative_deposit",
			Row:         i,
			Field:       statement.FieldAmount,
			Severity:    risk.SeverityMedium,
			Message:     "Deposit is negative",
		}
	}
	v.AddMatches(matches)
	v.RiskSignals = risk.Summarize(nil)
	v.CalculateSummary()

	path, err := w.WriteBusinessSummary(&statement.Table{DocumentID: "doc-busy"}, v, time.Second)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Len(t, doc["highlights"], 10)
	counts := doc["counts"].(map[string]any)
	assert.Equal(t, float64(14), counts["review_items"])
}

func TestWriteBusinessSummary_ApprovedVerdict(t *testing.T) {
	w := newTestWriter(t)

	path, err := w.WriteBusinessSummary(sampleTable(), cleanVerdict(), 500*time.Millisecond)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	status := doc["status"].(map[string]any)
	assert.Equal(t, "Approved", status["label"])
	assert.Equal(t, "Low", status["risk_level"])
	assert.Equal(t, 0.5, doc["processing_seconds"])
	assert.Equal(t, []any{"Data looks usable; perform standard spot-check"}, doc["actions"])
	assert.Equal(t, []any{}, doc["highlights"])
}

// ============================================================================
// Text summary
// ============================================================================

func TestTextSummary(t *testing.T) {
	out := TextSummary(sampleTable(), flaggedVerdict())

	lines := strings.Split(out, "\n")
	rule := strings.Repeat("=", 80)
	assert.Equal(t, rule, lines[0])
	assert.Equal(t, "BANK STATEMENT PROCESSING REPORT", lines[1])
	assert.Equal(t, rule, lines[len(lines)-1])
	assert.False(t, strings.HasSuffix(out, "\n"))

	assert.Contains(t, out, "Document ID: doc-123")
	assert.Contains(t, out, "Processed: 2026-01-31T09:30:00Z")
	assert.Contains(t, out, "Primary Engine: document_ai")
	assert.Contains(t, out, "Status: NEEDS_REVIEW")
	assert.Contains(t, out, "Confidence Score: 62.0% (Low)")
	assert.Contains(t, out, "Rule Pass Rate: 90.0%")
	assert.Contains(t, out, "Total Transactions: 2")
	assert.Contains(t, out, "  [HIGH] LOGIC_FAILURE: Detected 1 logic errors")
	assert.Contains(t, out, "  [CRITICAL] Row 2: Balance mismatch at row 2")
	assert.Contains(t, out, "  [HIGH] Row 1: Amount in brackets may be a misread negative")
	assert.Contains(t, out, "  • CRITICAL: Manual review required before using this data")

	// Unavailable components stay out of the breakdown.
	assert.Contains(t, out, "  Overall Score: 62.0% (weight 0.30)")
	assert.Contains(t, out, "  Date Quality: 90.0% (weight 0.25)")
	assert.NotContains(t, out, "Engine Quality")
}

func TestTextSummary_TruncatesLongListings(t *testing.T) {
	v := report.New("doc-long")
	violations := make([]rules.Violation, 13)
	for i := range violations {
		row := i
		violations[i] = rules.Violation{
			Rule:     rules.RuleDateMissing,
			Severity: risk.SeverityMedium,
			Message:  "Transaction date could not be parsed",
			Row:      &row,
		}
	}
	v.AddViolations(violations)
	v.RiskSignals = risk.Summarize(nil)
	v.CalculateSummary()

	out := TextSummary(&statement.Table{DocumentID: "doc-long"}, v)
	assert.Contains(t, out, "  ... and 3 more violations")
	assert.Contains(t, out, "  [MEDIUM] Row 9: Transaction date could not be parsed")
	assert.NotContains(t, out, "Row 10:")
}

func TestTextSummary_MissingRowRendersDash(t *testing.T) {
	v := report.New("doc-dash")
	v.AddViolations([]rules.Violation{
		{
			Rule:     rules.RuleNoRows,
			Severity: risk.SeverityCritical,
			Message:  "No transaction rows extracted",
		},
	})
	v.RiskSignals = risk.Summarize(nil)
	v.CalculateSummary()

	out := TextSummary(&statement.Table{DocumentID: "doc-dash"}, v)
	assert.Contains(t, out, "  [CRITICAL] Row -: No transaction rows extracted")
}

func TestTextSummary_ZeroProcessedAtLeftBlank(t *testing.T) {
	out := TextSummary(&statement.Table{DocumentID: "doc-0"}, cleanVerdict())
	assert.Contains(t, out, "Processed: \n")
}
