// Package risk defines the severity vocabulary shared by every analyzer
// and the heuristic signal detector that inspects an extracted table for
// review-worthy conditions. Signals guide reviewers and feed the
// confidence scorer; they never block a run on their own.
package risk

import (
	"encoding/json"
	"fmt"
)

// Severity ranks findings. The order is total: CRITICAL outranks HIGH
// outranks MEDIUM outranks LOW, and the numeric values respect it so
// findings can be sorted by severity directly.
type Severity uint8

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical

	// SeverityCount is the number of severity levels.
	SeverityCount
)

var severityNames = [SeverityCount]string{
	SeverityLow:      "LOW",
	SeverityMedium:   "MEDIUM",
	SeverityHigh:     "HIGH",
	SeverityCritical: "CRITICAL",
}

// String returns the wire name of the severity.
func (s Severity) String() string {
	if s >= SeverityCount {
		return "UNKNOWN"
	}
	return severityNames[s]
}

// SeverityFromName resolves a wire name to a severity.
func SeverityFromName(name string) (Severity, bool) {
	for s, n := range severityNames {
		if n == name {
			return Severity(s), true
		}
	}
	return 0, false
}

// MarshalJSON emits the severity's wire name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses a severity wire name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, ok := SeverityFromName(name)
	if !ok {
		return fmt.Errorf("unknown severity %q", name)
	}
	*s = parsed
	return nil
}

// Action tells the consumer what a signal asks of them.
type Action uint8

const (
	ActionLogOnly Action = iota
	ActionReviewRecommended
	ActionManualReview

	actionCount
)

var actionNames = [actionCount]string{
	ActionLogOnly:           "LOG_ONLY",
	ActionReviewRecommended: "REVIEW_RECOMMENDED",
	ActionManualReview:      "MANUAL_REVIEW",
}

// String returns the wire name of the action.
func (a Action) String() string {
	if a >= actionCount {
		return "UNKNOWN"
	}
	return actionNames[a]
}

// MarshalJSON emits the action's wire name.
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// Type identifies which detector check produced a signal.
type Type uint8

const (
	TypeNoRows Type = iota
	TypeLowConfidence
	TypeLowFieldCoverage
	TypeStructuralAnomaly
	TypeLogicFailure
	TypeUnknownTemplate

	typeCount
)

var typeNames = [typeCount]string{
	TypeNoRows:            "NO_ROWS",
	TypeLowConfidence:     "LOW_CONFIDENCE",
	TypeLowFieldCoverage:  "LOW_FIELD_COVERAGE",
	TypeStructuralAnomaly: "STRUCTURAL_ANOMALY",
	TypeLogicFailure:      "LOGIC_FAILURE",
	TypeUnknownTemplate:   "UNKNOWN_TEMPLATE",
}

// String returns the wire name of the signal type.
func (t Type) String() string {
	if t >= typeCount {
		return "UNKNOWN"
	}
	return typeNames[t]
}

// MarshalJSON emits the signal type's wire name.
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Signal is one detected risk condition. Details carries the check's
// structured evidence (a per-check payload type below) and serializes
// into the report as-is.
type Signal struct {
	Type     Type     `json:"type"`
	Severity Severity `json:"severity"`
	Action   Action   `json:"action"`
	Message  string   `json:"message"`
	Details  any      `json:"details,omitempty"`
}

// SignalSet collects the signals of one run.
type SignalSet struct {
	Signals []Signal
}

// Add appends a signal.
func (s *SignalSet) Add(sig Signal) {
	s.Signals = append(s.Signals, sig)
}

// CountBySeverity returns the number of signals at the given severity.
func (s *SignalSet) CountBySeverity(sev Severity) int {
	n := 0
	for i := range s.Signals {
		if s.Signals[i].Severity == sev {
			n++
		}
	}
	return n
}

// HasCritical reports whether any CRITICAL signal is present.
func (s *SignalSet) HasCritical() bool {
	return s.CountBySeverity(SeverityCritical) > 0
}

// Summary is the serialized form of a SignalSet.
type Summary struct {
	TotalSignals  int      `json:"total_signals"`
	CriticalCount int      `json:"critical_count"`
	HighCount     int      `json:"high_count"`
	MediumCount   int      `json:"medium_count"`
	LowCount      int      `json:"low_count"`
	Signals       []Signal `json:"signals"`
}

// Summarize rolls the set up into its serialized form.
func (s *SignalSet) Summarize() Summary {
	signals := s.Signals
	if signals == nil {
		signals = []Signal{}
	}
	return Summary{
		TotalSignals:  len(s.Signals),
		CriticalCount: s.CountBySeverity(SeverityCritical),
		HighCount:     s.CountBySeverity(SeverityHigh),
		MediumCount:   s.CountBySeverity(SeverityMedium),
		LowCount:      s.CountBySeverity(SeverityLow),
		Signals:       signals,
	}
}

// MarshalJSON serializes the set in its summary form.
func (s SignalSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Summarize())
}

// Summarize rolls a signal slice up into its serialized form.
func Summarize(signals []Signal) Summary {
	s := SignalSet{Signals: signals}
	return s.Summarize()
}
