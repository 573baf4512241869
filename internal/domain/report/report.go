// Package report assembles the per-document validation verdict: the
// final status, check tallies, confidence assessment, and the itemized
// findings from every analyzer.
package report

import (
	"encoding/json"
	"fmt"

	"github.com/calder/vouch/internal/domain/confidence"
	"github.com/calder/vouch/internal/domain/patterns"
	"github.com/calder/vouch/internal/domain/risk"
	"github.com/calder/vouch/internal/domain/rules"
)

// Status is the verdict's bottom line.
type Status uint8

const (
	StatusApproved Status = iota
	StatusReviewRecommended
	StatusNeedsReview

	statusCount
)

var statusNames = [statusCount]string{
	"APPROVED",
	"REVIEW_RECOMMENDED",
	"NEEDS_REVIEW",
}

// String returns the wire name of the status.
func (s Status) String() string {
	if s >= statusCount {
		return fmt.Sprintf("STATUS(%d)", uint8(s))
	}
	return statusNames[s]
}

// StatusFromName resolves a wire name to its status.
func StatusFromName(name string) (Status, bool) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), true
		}
	}
	return 0, false
}

// MarshalJSON encodes the status as its wire name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a wire name into the status.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	status, ok := StatusFromName(name)
	if !ok {
		return fmt.Errorf("unknown status %q", name)
	}
	*s = status
	return nil
}

// Summary is the verdict's check arithmetic.
type Summary struct {
	TotalChecks       int     `json:"total_checks"`
	PassedChecks      int     `json:"passed_checks"`
	FailedChecks      int     `json:"failed_checks"`
	Warnings          int     `json:"warnings"`
	OverallConfidence float64 `json:"overall_confidence"`
	RulePassRate      float64 `json:"rule_pass_rate"`
	ConfidenceLabel   string  `json:"confidence_label"`
}

// Verdict is the complete validation result for one document.
type Verdict struct {
	DocumentID       string                `json:"document_id"`
	ValidationStatus Status                `json:"validation_status"`
	Summary          Summary               `json:"summary"`
	Confidence       confidence.Assessment `json:"confidence"`
	RiskSignals      risk.Summary          `json:"risk_signals"`
	RuleViolations   []rules.Violation     `json:"rule_violations"`
	OutputFiles      map[string]string     `json:"output_files"`
	PatternMatches   []patterns.Match      `json:"pattern_matches"`
}

// New starts a verdict for the document with everything empty and the
// confidence grade at its floor.
func New(documentID string) *Verdict {
	return &Verdict{
		DocumentID:       documentID,
		ValidationStatus: StatusApproved,
		Summary:          Summary{ConfidenceLabel: "Low"},
		Confidence: confidence.Assessment{
			Label:      "Low",
			Components: []confidence.Component{},
			Notes:      []string{},
		},
		RuleViolations: []rules.Violation{},
		PatternMatches: []patterns.Match{},
	}
}

// AddViolations appends rule violations and counts each as one failed
// check.
func (v *Verdict) AddViolations(violations []rules.Violation) {
	v.RuleViolations = append(v.RuleViolations, violations...)
	v.Summary.FailedChecks += len(violations)
}

// AddMatches records pattern hits. Matches count as warnings, never as
// failed checks.
func (v *Verdict) AddMatches(matches []patterns.Match) {
	v.PatternMatches = append(v.PatternMatches, matches...)
	v.Summary.Warnings = len(v.PatternMatches)
}

// CalculateSummary settles the verdict: the check denominator never
// understates observed results, any CRITICAL violation forces
// NEEDS_REVIEW, any HIGH violation or a failure rate above 10% forces
// REVIEW_RECOMMENDED, and the rule pass rate becomes the fallback
// confidence when no scorer output has been attached.
func (v *Verdict) CalculateSummary() {
	minimum := v.Summary.PassedChecks + v.Summary.FailedChecks
	if v.Summary.TotalChecks == 0 || v.Summary.TotalChecks < minimum {
		v.Summary.TotalChecks = minimum
	}

	critical := rules.CountBySeverity(v.RuleViolations, risk.SeverityCritical)
	high := rules.CountBySeverity(v.RuleViolations, risk.SeverityHigh)
	switch {
	case critical > 0:
		v.ValidationStatus = StatusNeedsReview
	case high > 0 || float64(v.Summary.FailedChecks) > float64(v.Summary.TotalChecks)*0.1:
		v.ValidationStatus = StatusReviewRecommended
	default:
		v.ValidationStatus = StatusApproved
	}

	if v.Summary.TotalChecks > 0 {
		v.Summary.RulePassRate = float64(v.Summary.PassedChecks) / float64(v.Summary.TotalChecks)
		if v.Summary.OverallConfidence == 0 {
			v.Summary.OverallConfidence = v.Summary.RulePassRate
		}
	} else {
		v.Summary.RulePassRate = 0
	}
}

// AttachConfidence records the scorer's assessment and mirrors its score
// and label into the summary.
func (v *Verdict) AttachConfidence(a confidence.Assessment) {
	v.Confidence = a
	v.Summary.OverallConfidence = a.Score
	v.Summary.ConfidenceLabel = a.Label
}

// CriticalViolations counts the verdict's CRITICAL rule violations.
func (v *Verdict) CriticalViolations() int {
	return rules.CountBySeverity(v.RuleViolations, risk.SeverityCritical)
}
