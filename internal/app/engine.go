// Package app wires the analyzers, the pattern catalog, and the report
// writer into the validation pipeline, and runs it for single documents
// and bounded-concurrency batches.
package app

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/calder/vouch/internal/adapters/ahocorasick"
	"github.com/calder/vouch/internal/adapters/extraction"
	"github.com/calder/vouch/internal/adapters/reportio"
	"github.com/calder/vouch/internal/domain/confidence"
	"github.com/calder/vouch/internal/domain/patterns"
	"github.com/calder/vouch/internal/domain/report"
	"github.com/calder/vouch/internal/domain/risk"
	"github.com/calder/vouch/internal/domain/rules"
	"github.com/calder/vouch/internal/domain/statement"
)

const defaultWorkers = 4

// Config carries the tunable parts of the pipeline.
type Config struct {
	Validation risk.Config
	Weights    confidence.Weights
	Workers    int
}

// DefaultConfig returns the pipeline preset. Its scoring weights lean
// harder on rule consistency and risk signals than the scorer's own
// default.
func DefaultConfig() Config {
	return Config{
		Validation: risk.DefaultConfig(),
		Weights: confidence.Weights{
			EngineQuality:     0.30,
			FieldCompleteness: 0.25,
			RuleConsistency:   0.30,
			RiskSignals:       0.15,
		},
		Workers: defaultWorkers,
	}
}

// Result pairs a decoded table with its settled verdict and the
// rendered text report.
type Result struct {
	Table   *statement.Table
	Verdict *report.Verdict
	Summary string
}

// Engine runs the full validation pipeline: risk signals, hard rules,
// pattern matching, scoring, and artifact generation.
type Engine struct {
	cfg      Config
	detector *risk.Detector
	rules    *rules.Validator
	catalog  *patterns.Catalog
	scorer   *confidence.Scorer
	writer   *reportio.Writer
	log      zerolog.Logger
}

// NewEngine assembles the pipeline around a shared pattern catalog and
// report writer.
func NewEngine(cfg Config, catalog *patterns.Catalog, writer *reportio.Writer, log zerolog.Logger) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	scanner := ahocorasick.NewScanner(risk.TemplateKeywords(cfg.Validation.Templates))
	return &Engine{
		cfg:      cfg,
		detector: risk.NewDetector(cfg.Validation, scanner),
		rules:    rules.NewValidator(),
		catalog:  catalog,
		scorer:   confidence.NewScorer(cfg.Weights),
		writer:   writer,
		log:      log,
	}
}

// Catalog returns the engine's pattern catalog.
func (e *Engine) Catalog() *patterns.Catalog { return e.catalog }

// OutputDir returns where report artifacts land.
func (e *Engine) OutputDir() string { return e.writer.Dir() }

// ValidateFile decodes one extraction result and validates it.
func (e *Engine) ValidateFile(path string) (*Result, error) {
	t, err := extraction.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return e.Validate(t)
}

// Validate runs both defense layers over the table, settles the
// verdict, and writes all report artifacts.
func (e *Engine) Validate(t *statement.Table) (*Result, error) {
	start := time.Now()

	e.log.Info().
		Str("document_id", t.DocumentID).
		Int("rows", len(t.Rows)).
		Msg("Validating document")

	signals := e.detector.Detect(t)
	violations := e.rules.Validate(t)
	matches := e.catalog.Match(t)
	e.log.Info().
		Str("document_id", t.DocumentID).
		Int("risk_signals", len(signals.Signals)).
		Int("rule_violations", len(violations)).
		Int("pattern_matches", len(matches)).
		Msg("Analysis complete")

	v := report.New(t.DocumentID)
	v.RiskSignals = risk.Summarize(signals.Signals)
	v.AddViolations(violations)
	v.AddMatches(matches)

	v.Summary.TotalChecks = e.rules.CountChecks(t)
	v.Summary.PassedChecks = v.Summary.TotalChecks - v.Summary.FailedChecks
	if v.Summary.PassedChecks < 0 {
		v.Summary.PassedChecks = 0
	}
	v.CalculateSummary()

	v.AttachConfidence(e.scorer.Assess(t, confidence.Inputs{
		RulePassRate: v.Summary.RulePassRate,
		TotalChecks:  v.Summary.TotalChecks,
		FailedChecks: v.Summary.FailedChecks,
		Risk:         v.RiskSignals,
	}))

	csvPath, err := e.writer.WriteTransactionsCSV(t)
	if err != nil {
		return nil, err
	}
	riskPath, err := e.writer.WriteRiskReport(v)
	if err != nil {
		return nil, err
	}
	v.OutputFiles = map[string]string{
		"csv":         csvPath,
		"risk_report": riskPath,
	}

	businessPath, err := e.writer.WriteBusinessSummary(t, v, time.Since(start))
	if err != nil {
		return nil, err
	}
	reviewPath, err := e.writer.WriteReviewRowsCSV(v)
	if err != nil {
		return nil, err
	}
	v.OutputFiles["business_summary"] = businessPath
	v.OutputFiles["review_rows"] = reviewPath

	e.log.Info().
		Str("document_id", t.DocumentID).
		Str("status", v.ValidationStatus.String()).
		Float64("confidence", v.Summary.OverallConfidence).
		Msg("Validation complete")

	return &Result{
		Table:   t,
		Verdict: v,
		Summary: reportio.TextSummary(t, v),
	}, nil
}
