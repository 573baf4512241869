package reportio

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"time"

	"github.com/calder/vouch/internal/domain/confidence"
	"github.com/calder/vouch/internal/domain/patterns"
	"github.com/calder/vouch/internal/domain/report"
	"github.com/calder/vouch/internal/domain/risk"
	"github.com/calder/vouch/internal/domain/rules"
	"github.com/calder/vouch/internal/domain/statement"
)

// riskReport is the machine-readable verdict with recommendations
// attached.
type riskReport struct {
	DocumentID       string                `json:"document_id"`
	GeneratedAt      time.Time             `json:"generated_at"`
	ValidationStatus report.Status         `json:"validation_status"`
	Summary          report.Summary        `json:"summary"`
	Confidence       confidence.Assessment `json:"confidence"`
	RiskSignals      risk.Summary          `json:"risk_signals"`
	RuleViolations   []rules.Violation     `json:"rule_violations"`
	PatternMatches   []patterns.Match      `json:"pattern_matches"`
	Recommendations  []string              `json:"recommendations"`
}

// WriteRiskReport writes the full machine-readable verdict.
func (w *Writer) WriteRiskReport(v *report.Verdict) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("%s_risk_report_%s.json", v.DocumentID, w.stamp()))
	doc := riskReport{
		DocumentID:       v.DocumentID,
		GeneratedAt:      w.now(),
		ValidationStatus: v.ValidationStatus,
		Summary:          v.Summary,
		Confidence:       v.Confidence,
		RiskSignals:      v.RiskSignals,
		RuleViolations:   v.RuleViolations,
		PatternMatches:   v.PatternMatches,
		Recommendations:  recommendations(v),
	}
	if err := writeJSON(path, doc); err != nil {
		return "", err
	}
	return path, nil
}

type businessStatus struct {
	Label     string `json:"label"`
	RiskLevel string `json:"risk_level"`
}

type businessConfidence struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

type businessCounts struct {
	Transactions int `json:"transactions"`
	FailedChecks int `json:"failed_checks"`
	Warnings     int `json:"warnings"`
	ReviewItems  int `json:"review_items"`
}

// businessSummary is the non-technical rollup for document consumers.
type businessSummary struct {
	DocumentID        string             `json:"document_id"`
	GeneratedAt       time.Time          `json:"generated_at"`
	ProcessingSeconds float64            `json:"processing_seconds"`
	Status            businessStatus     `json:"status"`
	Confidence        businessConfidence `json:"confidence"`
	Counts            businessCounts     `json:"counts"`
	Actions           []string           `json:"actions"`
	Highlights        []reviewItem       `json:"highlights"`
}

// WriteBusinessSummary writes the plain-language rollup. Highlights
// carry at most ten review items, in detection order.
func (w *Writer) WriteBusinessSummary(t *statement.Table, v *report.Verdict, elapsed time.Duration) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("%s_business_summary_%s.json", v.DocumentID, w.stamp()))

	items := reviewItems(v)
	highlights := items
	if len(highlights) > 10 {
		highlights = highlights[:10]
	}
	if highlights == nil {
		highlights = []reviewItem{}
	}

	doc := businessSummary{
		DocumentID:        v.DocumentID,
		GeneratedAt:       w.now(),
		ProcessingSeconds: math.Round(elapsed.Seconds()*100) / 100,
		Status:            statusOf(v.ValidationStatus),
		Confidence: businessConfidence{
			Score: v.Summary.OverallConfidence,
			Label: v.Summary.ConfidenceLabel,
		},
		Counts: businessCounts{
			Transactions: len(t.Rows),
			FailedChecks: v.Summary.FailedChecks,
			Warnings:     v.Summary.Warnings,
			ReviewItems:  len(items),
		},
		Actions:    businessActions(v.ValidationStatus, len(items)),
		Highlights: highlights,
	}
	if err := writeJSON(path, doc); err != nil {
		return "", err
	}
	return path, nil
}

func statusOf(s report.Status) businessStatus {
	switch s {
	case report.StatusNeedsReview:
		return businessStatus{Label: "Needs Review", RiskLevel: "High"}
	case report.StatusReviewRecommended:
		return businessStatus{Label: "Review Recommended", RiskLevel: "Medium"}
	default:
		return businessStatus{Label: "Approved", RiskLevel: "Low"}
	}
}

func businessActions(s report.Status, reviewCount int) []string {
	var actions []string
	switch s {
	case report.StatusNeedsReview:
		actions = append(actions, "Manual review required before use")
	case report.StatusReviewRecommended:
		actions = append(actions, "Manual spot-check recommended")
	default:
		actions = append(actions, "Data looks usable; perform standard spot-check")
	}
	if reviewCount > 0 {
		actions = append(actions, "Review the generated review_rows CSV for flagged items")
	}
	return actions
}

// recommendations derives the advisory lines shown in both the risk
// report and the text summary.
func recommendations(v *report.Verdict) []string {
	var recs []string
	if v.ValidationStatus == report.StatusNeedsReview {
		recs = append(recs, "CRITICAL: Manual review required before using this data")
	}
	if n := v.CriticalViolations(); n > 0 {
		recs = append(recs, fmt.Sprintf("Found %d critical rule violations - verify data accuracy", n))
	}
	if v.Summary.ConfidenceLabel == "Low" {
		recs = append(recs, "Low confidence score - consider manual verification")
	}
	if len(recs) == 0 {
		recs = append(recs, "Data passed all validations - safe to use")
	}
	return recs
}

// reviewItem is one flagged finding, drawn from either a rule violation
// or a pattern match.
type reviewItem struct {
	Row      *int          `json:"row"`
	Source   string        `json:"source"`
	Field    string        `json:"field"`
	Severity risk.Severity `json:"severity"`
	Message  string        `json:"message"`
	Expected string        `json:"expected"`
	Actual   string        `json:"actual"`
}

// reviewItems flattens violations and pattern matches in detection
// order. Callers that want severity ordering sort afterwards.
func reviewItems(v *report.Verdict) []reviewItem {
	var items []reviewItem
	for i := range v.RuleViolations {
		violation := &v.RuleViolations[i]
		items = append(items, reviewItem{
			Row:      violation.Row,
			Source:   "rule",
			Field:    deref(violation.Field),
			Severity: violation.Severity,
			Message:  violation.Message,
			Expected: deref(violation.Expected),
			Actual:   deref(violation.Actual),
		})
	}
	for i := range v.PatternMatches {
		m := &v.PatternMatches[i]
		row := m.Row
		items = append(items, reviewItem{
			Row:      &row,
			Source:   "pattern",
			Field:    m.Field.String(),
			Severity: m.Severity,
			Message:  m.Message,
			Actual:   m.Value,
		})
	}
	return items
}

func sortReviewItems(items []reviewItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Severity > items[j].Severity
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
