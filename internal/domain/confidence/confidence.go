// Package confidence computes the composite trust score attached to a
// validation verdict. The score is a weighted average over four
// explainable components; every component reports its own score, weight,
// and supporting details so a reviewer can see why a document rated the
// way it did.
package confidence

import (
	"math"

	"github.com/calder/vouch/internal/domain/risk"
	"github.com/calder/vouch/internal/domain/statement"
)

// Weights assigns each component its share of the composite score. A
// weight of zero (or less) excludes the component from the average.
type Weights struct {
	EngineQuality     float64 `json:"engine_quality"`
	FieldCompleteness float64 `json:"field_completeness"`
	RuleConsistency   float64 `json:"rule_consistency"`
	RiskSignals       float64 `json:"risk_signals"`
}

// DefaultWeights is the scorer's own preset. The engine configuration
// carries a separate, slightly risk-heavier preset; the two are
// independently settable.
func DefaultWeights() Weights {
	return Weights{
		EngineQuality:     0.25,
		FieldCompleteness: 0.20,
		RuleConsistency:   0.25,
		RiskSignals:       0.10,
	}
}

// Component is one explainable term of the composite score. A nil score
// marks the component unavailable; unavailable components carry their
// details but do not influence the average.
type Component struct {
	Key       string   `json:"key"`
	Label     string   `json:"label"`
	Score     *float64 `json:"score"`
	Weight    float64  `json:"weight"`
	Details   any      `json:"details"`
	Available bool     `json:"available"`
}

// NewComponent builds a component, deriving availability from the score.
func NewComponent(key, label string, score *float64, weight float64, details any) Component {
	return Component{
		Key:       key,
		Label:     label,
		Score:     score,
		Weight:    weight,
		Details:   details,
		Available: score != nil,
	}
}

// EngineDetails names where the engine-quality score came from.
type EngineDetails struct {
	Source string `json:"source"`
}

// RuleDetails carries the check counts behind the rule-consistency
// score.
type RuleDetails struct {
	TotalChecks  int `json:"total_checks"`
	FailedChecks int `json:"failed_checks"`
}

// RiskCounts is the per-severity signal tally feeding the penalty.
type RiskCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// RiskDetails carries the penalty computation behind the risk-signal
// score.
type RiskDetails struct {
	Counts  RiskCounts `json:"counts"`
	Penalty float64    `json:"penalty"`
}

// Coverage is the per-field presence rate over the table's rows.
type Coverage struct {
	TransactionDate float64 `json:"transaction_date"`
	Amount          float64 `json:"amount"`
	Balance         float64 `json:"balance"`
}

// Metrics is the flat measurement set surfaced alongside the components.
type Metrics struct {
	EngineConfidence float64     `json:"engine_confidence"`
	FieldCoverage    Coverage    `json:"field_coverage"`
	RulePassRate     float64     `json:"rule_pass_rate"`
	RiskSignals      RiskDetails `json:"risk_signals"`
}

// Assessment is the scorer's full output.
type Assessment struct {
	Score      float64     `json:"score"`
	Label      string      `json:"label"`
	Components []Component `json:"components"`
	Notes      []string    `json:"notes"`
	Metrics    Metrics     `json:"metrics"`
}

// Inputs carries the orchestrator's intermediate results into scoring.
type Inputs struct {
	RulePassRate float64
	TotalChecks  int
	FailedChecks int
	Risk         risk.Summary
}

// Scorer computes assessments under a fixed weight set.
type Scorer struct {
	weights Weights
}

// NewScorer builds a scorer with the given weights.
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Assess scores the table given the rule and risk results already
// computed for it.
func (s *Scorer) Assess(t *statement.Table, in Inputs) Assessment {
	var metrics Metrics
	components := make([]Component, 0, 4)

	engineScore := EngineConfidence(t)
	metrics.EngineConfidence = engineScore
	components = append(components, NewComponent(
		"engine_quality",
		"Primary engine quality",
		&engineScore,
		s.weights.EngineQuality,
		EngineDetails{Source: "Document AI page quality score"},
	))

	completeness, coverage := FieldCompleteness(t)
	metrics.FieldCoverage = coverage
	components = append(components, NewComponent(
		"field_completeness",
		"Critical field coverage",
		&completeness,
		s.weights.FieldCompleteness,
		coverage,
	))

	passRate := in.RulePassRate
	metrics.RulePassRate = passRate
	components = append(components, NewComponent(
		"rule_consistency",
		"Hard-rule consistency",
		&passRate,
		s.weights.RuleConsistency,
		RuleDetails{TotalChecks: in.TotalChecks, FailedChecks: in.FailedChecks},
	))

	riskScore, riskDetails := RiskPenalty(in.Risk)
	metrics.RiskSignals = riskDetails
	components = append(components, NewComponent(
		"risk_signals",
		"Risk signal penalty",
		&riskScore,
		s.weights.RiskSignals,
		riskDetails,
	))

	score := WeightedScore(components)
	return Assessment{
		Score:      score,
		Label:      Label(score),
		Components: components,
		Notes:      []string{},
		Metrics:    metrics,
	}
}

// EngineConfidence is the table's own quality estimate: the engine's
// overall confidence when reported, otherwise the mean of all non-zero
// per-field confidences across rows, otherwise 0.
func EngineConfidence(t *statement.Table) float64 {
	if t.OverallConfidence > 0 {
		return t.OverallConfidence
	}

	var sum float64
	var n int
	for i := range t.Rows {
		r := &t.Rows[i]
		for _, c := range [...]float64{r.DateConfidence, r.AmountConfidence, r.BalanceConfidence} {
			if c != 0 {
				sum += c
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// FieldCompleteness returns the mean presence rate over the three
// critical fields, plus the per-field breakdown. An empty table scores
// 0 with zero coverage.
func FieldCompleteness(t *statement.Table) (float64, Coverage) {
	if len(t.Rows) == 0 {
		return 0, Coverage{}
	}

	var dates, amounts, balances int
	for i := range t.Rows {
		r := &t.Rows[i]
		if r.TransactionDate != nil {
			dates++
		}
		if r.Deposit != nil || r.Withdrawal != nil {
			amounts++
		}
		if r.Balance != nil {
			balances++
		}
	}

	total := float64(len(t.Rows))
	cov := Coverage{
		TransactionDate: float64(dates) / total,
		Amount:          float64(amounts) / total,
		Balance:         float64(balances) / total,
	}
	return (cov.TransactionDate + cov.Amount + cov.Balance) / 3, cov
}

// RiskPenalty converts the signal tally into a score: each signal
// deducts by severity (0.20 critical, 0.10 high, 0.05 medium, 0.02 low),
// with the total deduction capped at 1.
func RiskPenalty(s risk.Summary) (float64, RiskDetails) {
	counts := RiskCounts{
		Critical: s.CriticalCount,
		High:     s.HighCount,
		Medium:   s.MediumCount,
		Low:      s.LowCount,
	}

	penalty := float64(counts.Critical)*0.2 +
		float64(counts.High)*0.1 +
		float64(counts.Medium)*0.05 +
		float64(counts.Low)*0.02

	score := 1 - math.Min(1, penalty)
	if score < 0 {
		score = 0
	}
	return score, RiskDetails{Counts: counts, Penalty: penalty}
}

// WeightedScore reduces components to the weight-normalized mean over
// those that are available with positive weight, clamped to [0,1]. Zero
// usable weight yields 0.
func WeightedScore(components []Component) float64 {
	var sum, totalWeight float64
	for _, c := range components {
		if !c.Available || c.Score == nil || c.Weight <= 0 {
			continue
		}
		sum += *c.Score * c.Weight
		totalWeight += c.Weight
	}
	if totalWeight <= 0 {
		return 0
	}

	score := sum / totalWeight
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// Label buckets a score into the reviewer-facing grade.
func Label(score float64) string {
	switch {
	case score >= 0.85:
		return "High"
	case score >= 0.7:
		return "Medium"
	default:
		return "Low"
	}
}
