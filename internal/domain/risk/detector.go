package risk

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/calder/vouch/internal/domain/statement"
	"github.com/calder/vouch/internal/ports"
)

// CoverageThresholds are the minimum acceptable presence rates per
// critical field.
type CoverageThresholds struct {
	Date    float64
	Amount  float64
	Balance float64
}

// Checks toggles the detector's individual checks. The empty-table guard
// is not a check and cannot be disabled.
type Checks struct {
	LowConfidence     bool
	LowCoverage       bool
	StructuralAnomaly bool
	LogicFailure      bool
	UnknownTemplate   bool
}

// Config carries the detector's tunables.
type Config struct {
	// ConfidenceThreshold is the per-field confidence below which a
	// reading counts as low.
	ConfidenceThreshold float64
	Coverage            CoverageThresholds
	Checks              Checks
	Templates           []Template
}

// DefaultConfig returns the production detector configuration.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 0.85,
		Coverage: CoverageThresholds{
			Date:    0.95,
			Amount:  0.90,
			Balance: 0.85,
		},
		Checks: Checks{
			LowConfidence:     true,
			LowCoverage:       true,
			StructuralAnomaly: true,
			LogicFailure:      true,
			UnknownTemplate:   true,
		},
		Templates: DefaultTemplates(),
	}
}

// LowConfidenceField is one below-threshold field reading.
type LowConfidenceField struct {
	Row        int     `json:"row"`
	Field      string  `json:"field"`
	Confidence float64 `json:"confidence"`
	Priority   string  `json:"priority"`
}

// ConfidenceDetails is the LOW_CONFIDENCE signal payload.
type ConfidenceDetails struct {
	Fields []LowConfidenceField `json:"fields"`
}

// CoverageDetails is the LOW_FIELD_COVERAGE signal payload: presence
// rate per field plus up to ten offending row indices each.
type CoverageDetails struct {
	Coverage        map[string]float64 `json:"coverage"`
	MissingExamples map[string][]int   `json:"missing_examples"`
}

// StructuralIssue is one entry of a STRUCTURAL_ANOMALY signal.
type StructuralIssue struct {
	Type             string   `json:"type"`
	Details          string   `json:"details"`
	Rows             []int    `json:"rows,omitempty"`
	HeaderConfidence *float64 `json:"header_confidence,omitempty"`
	PageTransitions  []int    `json:"page_transitions,omitempty"`
}

// StructureDetails is the STRUCTURAL_ANOMALY signal payload.
type StructureDetails struct {
	Issues []StructuralIssue `json:"issues"`
}

// LogicError is one entry of a LOGIC_FAILURE signal.
type LogicError struct {
	Type     string   `json:"type"`
	Expected *float64 `json:"expected,omitempty"`
	Actual   *float64 `json:"actual,omitempty"`
	DiffRate *float64 `json:"diff_rate,omitempty"`
	SpanDays *int     `json:"span_days,omitempty"`
	MinDate  string   `json:"min_date,omitempty"`
	MaxDate  string   `json:"max_date,omitempty"`
	Row      *int     `json:"row,omitempty"`
	Value    *float64 `json:"value,omitempty"`
}

// LogicDetails is the LOGIC_FAILURE signal payload.
type LogicDetails struct {
	Errors []LogicError `json:"errors"`
}

// TemplateDetails is the UNKNOWN_TEMPLATE signal payload.
type TemplateDetails struct {
	Confidence float64 `json:"confidence"`
}

// Detector surfaces heuristic risk signals over an extracted table. It
// is stateless between runs; Detect is safe for concurrent use.
type Detector struct {
	cfg     Config
	scanner ports.KeywordScanner
	// owner maps a lowercased keyword back to its template, in
	// template order for deterministic resolution.
	owner map[string]string
	order []Template
}

// NewDetector builds a detector. The scanner matches template keywords
// against lowercased text; pass nil to use a plain substring scan.
func NewDetector(cfg Config, scanner ports.KeywordScanner) *Detector {
	keywords := TemplateKeywords(cfg.Templates)
	if scanner == nil {
		scanner = containsScanner(keywords)
	}
	return &Detector{
		cfg:     cfg,
		scanner: scanner,
		owner:   keywordOwners(cfg.Templates),
		order:   cfg.Templates,
	}
}

// Detect runs every enabled check and returns the collected signals.
// An empty table short-circuits to a single CRITICAL NO_ROWS signal.
func (d *Detector) Detect(t *statement.Table) SignalSet {
	var set SignalSet

	if len(t.Rows) == 0 {
		set.Add(Signal{
			Type:     TypeNoRows,
			Severity: SeverityCritical,
			Action:   ActionManualReview,
			Message:  "No transaction rows extracted",
		})
		return set
	}

	if d.cfg.Checks.LowConfidence {
		if fields := d.checkLowConfidence(t); len(fields) > 0 {
			set.Add(Signal{
				Type:     TypeLowConfidence,
				Severity: SeverityHigh,
				Action:   ActionReviewRecommended,
				Message:  fmt.Sprintf("Found %d low confidence fields", len(fields)),
				Details:  ConfidenceDetails{Fields: fields},
			})
		}
	}

	if d.cfg.Checks.LowCoverage {
		if sig, ok := d.checkFieldCoverage(t); ok {
			set.Add(sig)
		}
	}

	if d.cfg.Checks.StructuralAnomaly {
		if issues := d.checkStructure(t); len(issues) > 0 {
			set.Add(Signal{
				Type:     TypeStructuralAnomaly,
				Severity: SeverityMedium,
				Action:   ActionReviewRecommended,
				Message:  fmt.Sprintf("Detected %d structural issues", len(issues)),
				Details:  StructureDetails{Issues: issues},
			})
		}
	}

	if d.cfg.Checks.LogicFailure {
		if errs := d.checkLogic(t); len(errs) > 0 {
			set.Add(Signal{
				Type:     TypeLogicFailure,
				Severity: SeverityCritical,
				Action:   ActionManualReview,
				Message:  fmt.Sprintf("Detected %d logic errors", len(errs)),
				Details:  LogicDetails{Errors: errs},
			})
		}
	}

	if d.cfg.Checks.UnknownTemplate {
		if _, conf := d.RecognizeTemplate(t); conf < 0.7 {
			set.Add(Signal{
				Type:     TypeUnknownTemplate,
				Severity: SeverityMedium,
				Action:   ActionReviewRecommended,
				Message:  fmt.Sprintf("Unknown bank template (confidence: %.2f)", conf),
				Details:  TemplateDetails{Confidence: conf},
			})
		}
	}

	return set
}

// checkLowConfidence classifies fields into P0 (amount, balance) and P1
// (transaction date). The signal fires when any P0 reading is low or
// more than 20% of P1 readings are; all collected readings are reported
// together.
func (d *Detector) checkLowConfidence(t *statement.Table) []LowConfidenceField {
	threshold := d.cfg.ConfidenceThreshold
	var fields []LowConfidenceField

	for i := range t.Rows {
		row := &t.Rows[i]
		if row.AmountConfidence < threshold {
			fields = append(fields, LowConfidenceField{
				Row: i, Field: "amount", Confidence: row.AmountConfidence, Priority: "P0",
			})
		}
		if row.BalanceConfidence < threshold {
			fields = append(fields, LowConfidenceField{
				Row: i, Field: "balance", Confidence: row.BalanceConfidence, Priority: "P0",
			})
		}
		if row.DateConfidence < threshold {
			fields = append(fields, LowConfidenceField{
				Row: i, Field: "transaction_date", Confidence: row.DateConfidence, Priority: "P1",
			})
		}
	}

	p0, p1 := 0, 0
	for _, f := range fields {
		switch f.Priority {
		case "P0":
			p0++
		case "P1":
			p1++
		}
	}
	p1Rate := float64(p1) / float64(len(t.Rows))

	if p0 > 0 || p1Rate > 0.2 {
		return fields
	}
	return nil
}

func (d *Detector) checkFieldCoverage(t *statement.Table) (Signal, bool) {
	total := len(t.Rows)
	var missingDate, missingAmount, missingBalance []int
	for i := range t.Rows {
		row := &t.Rows[i]
		if row.TransactionDate == nil {
			missingDate = append(missingDate, i)
		}
		if !row.HasAmount() {
			missingAmount = append(missingAmount, i)
		}
		if row.Balance == nil {
			missingBalance = append(missingBalance, i)
		}
	}

	coverage := map[string]float64{
		"transaction_date": 1 - float64(len(missingDate))/float64(total),
		"amount":           1 - float64(len(missingAmount))/float64(total),
		"balance":          1 - float64(len(missingBalance))/float64(total),
	}
	thresholds := map[string]float64{
		"transaction_date": d.cfg.Coverage.Date,
		"amount":           d.cfg.Coverage.Amount,
		"balance":          d.cfg.Coverage.Balance,
	}

	anyBelow := false
	severity := SeverityMedium
	for field, c := range coverage {
		if c < thresholds[field] {
			anyBelow = true
			if c < 0.7 {
				severity = SeverityHigh
			}
		}
	}
	if !anyBelow {
		return Signal{}, false
	}

	return Signal{
		Type:     TypeLowFieldCoverage,
		Severity: severity,
		Action:   ActionReviewRecommended,
		Message:  "Low coverage for critical fields",
		Details: CoverageDetails{
			Coverage: coverage,
			MissingExamples: map[string][]int{
				"transaction_date": capInts(missingDate, 10),
				"amount":           capInts(missingAmount, 10),
				"balance":          capInts(missingBalance, 10),
			},
		},
	}, true
}

// checkStructure needs at least 3 rows to judge anything.
func (d *Detector) checkStructure(t *statement.Table) []StructuralIssue {
	if len(t.Rows) < 3 {
		return nil
	}

	var issues []StructuralIssue

	var incomplete []int
	for i := range t.Rows {
		row := &t.Rows[i]
		missing := 0
		if row.TransactionDate == nil {
			missing++
		}
		if row.Balance == nil {
			missing++
		}
		if !row.HasAmount() {
			missing++
		}
		if missing >= 2 {
			incomplete = append(incomplete, i)
		}
	}
	if float64(len(incomplete)) > float64(len(t.Rows))*0.1 {
		issues = append(issues, StructuralIssue{
			Type:    "INCONSISTENT_ROWS",
			Details: fmt.Sprintf("%d rows have incomplete data", len(incomplete)),
			Rows:    capInts(incomplete, 10),
		})
	}

	if !t.Header.Detected || t.Header.Confidence < 0.7 {
		conf := t.Header.Confidence
		issues = append(issues, StructuralIssue{
			Type:             "HEADER_DETECTION_FAILURE",
			Details:          "Header not detected or low confidence",
			HeaderConfidence: &conf,
		})
	}

	if t.PageCount > 1 {
		var transitions []int
		for i := 1; i < len(t.Rows); i++ {
			if t.Rows[i].Page != t.Rows[i-1].Page {
				transitions = append(transitions, i)
			}
		}
		if len(transitions) > 0 {
			issues = append(issues, StructuralIssue{
				Type:            "MULTI_PAGE_DOCUMENT",
				Details:         fmt.Sprintf("Document spans %d pages", t.PageCount),
				PageTransitions: transitions,
			})
		}
	}

	return issues
}

func (d *Detector) checkLogic(t *statement.Table) []LogicError {
	var errs []LogicError

	if t.OpeningBalance != nil && t.ClosingBalance != nil && len(t.Rows) > 0 {
		expected := t.OpeningBalance.Add(t.TotalDeposits()).Sub(t.TotalWithdrawals())
		actual := *t.ClosingBalance

		if !actual.IsZero() {
			diffRate, _ := expected.Sub(actual).Abs().Div(actual.Abs()).Float64()
			if diffRate > 0.1 {
				errs = append(errs, LogicError{
					Type:     "BALANCE_MISMATCH",
					Expected: floatPtr(expected),
					Actual:   floatPtr(actual),
					DiffRate: &diffRate,
				})
			}
		}
	}

	var minDate, maxDate time.Time
	haveDate := false
	for i := range t.Rows {
		td := t.Rows[i].TransactionDate
		if td == nil {
			continue
		}
		if !haveDate || td.Before(minDate) {
			minDate = *td
		}
		if !haveDate || td.After(maxDate) {
			maxDate = *td
		}
		haveDate = true
	}
	if haveDate {
		span := int(maxDate.Sub(minDate).Hours() / 24)
		if span > 400 {
			errs = append(errs, LogicError{
				Type:     "DATE_RANGE_ANOMALY",
				SpanDays: &span,
				MinDate:  minDate.Format("2006-01-02"),
				MaxDate:  maxDate.Format("2006-01-02"),
			})
		}
	}

	for i := range t.Rows {
		row := &t.Rows[i]
		if row.Deposit != nil && row.Deposit.IsNegative() {
			idx := i
			errs = append(errs, LogicError{
				Type:  "NEGATIVE_DEPOSIT",
				Row:   &idx,
				Value: floatPtr(*row.Deposit),
			})
		}
		if row.Withdrawal != nil && row.Withdrawal.IsNegative() {
			idx := i
			errs = append(errs, LogicError{
				Type:  "NEGATIVE_WITHDRAWAL",
				Row:   &idx,
				Value: floatPtr(*row.Withdrawal),
			})
		}
	}

	return errs
}

func capInts(s []int, n int) []int {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func floatPtr(d decimal.Decimal) *float64 {
	f, _ := d.Float64()
	return &f
}
