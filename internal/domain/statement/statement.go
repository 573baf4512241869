// Package statement defines the extracted transaction table that every
// analyzer reads. A table is decoded once per document from the extraction
// engine's output and is read-only for the rest of the run; analyzers
// identify rows by index, so row order is never changed after decoding.
package statement

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is a single extracted transaction row. Optional fields are nil
// pointers; monetary values are exact decimals, never floats. The raw
// pre-parse text for date and amount is kept for error-pattern matching.
type Record struct {
	TransactionDate *time.Time
	PostingDate     *time.Time
	Description     string
	Deposit         *decimal.Decimal
	Withdrawal      *decimal.Decimal
	Balance         *decimal.Decimal
	Reference       string

	// Per-field extraction confidences in [0,1]. Zero means the
	// extractor could not estimate one.
	DateConfidence        float64
	DescriptionConfidence float64
	AmountConfidence      float64
	BalanceConfidence     float64

	// Raw OCR text before parsing, empty when the extractor did not
	// report it.
	DateRaw   string
	AmountRaw string

	Page     int
	RowIndex int
}

// Amount returns the row's monetary movement: the deposit when present,
// otherwise the withdrawal. Nil when the row has neither.
func (r *Record) Amount() *decimal.Decimal {
	if r.Deposit != nil {
		return r.Deposit
	}
	return r.Withdrawal
}

// HasAmount reports whether the row carries a deposit or a withdrawal.
func (r *Record) HasAmount() bool {
	return r.Deposit != nil || r.Withdrawal != nil
}

// Header is the detected column header of the extracted table.
type Header struct {
	Detected   bool
	Confidence float64
	Columns    []string
}

// Table is the complete extraction result for one document.
type Table struct {
	DocumentID  string
	Engine      string
	ProcessedAt time.Time

	Rows   []Record
	Header Header

	OpeningBalance *decimal.Decimal
	ClosingBalance *decimal.Decimal

	PageCount int

	// Engine-reported overall confidence, 0 when unavailable.
	OverallConfidence float64
}

// TotalDeposits sums every present deposit.
func (t *Table) TotalDeposits() decimal.Decimal {
	sum := decimal.Zero
	for i := range t.Rows {
		if t.Rows[i].Deposit != nil {
			sum = sum.Add(*t.Rows[i].Deposit)
		}
	}
	return sum
}

// TotalWithdrawals sums every present withdrawal.
func (t *Table) TotalWithdrawals() decimal.Decimal {
	sum := decimal.Zero
	for i := range t.Rows {
		if t.Rows[i].Withdrawal != nil {
			sum = sum.Add(*t.Rows[i].Withdrawal)
		}
	}
	return sum
}
