// Package reportio renders validation results into the output artifacts:
// a transactions CSV, a JSON risk report, a review-rows CSV for flagged
// items, a business summary JSON, and a plain-text processing report.
package reportio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/calder/vouch/internal/domain/report"
	"github.com/calder/vouch/internal/domain/statement"
)

// Writer generates artifacts under a single output directory. File names
// embed the document ID and a timestamp so repeated runs never clobber
// earlier output.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates the output directory if it does not exist.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Writer{dir: dir, now: time.Now}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

func (w *Writer) stamp() string {
	return w.now().Format("20060102_150405")
}

// WriteTransactionsCSV writes the extracted rows plus a balance summary
// block. Absent values render as empty cells.
func (w *Writer) WriteTransactionsCSV(t *statement.Table) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("%s_%s.csv", t.DocumentID, w.stamp()))

	records := [][]string{{
		"Transaction Date", "Description", "Deposit", "Withdrawal", "Balance",
		"Posting Date", "Reference",
		"Confidence (Date)", "Confidence (Amount)", "Confidence (Balance)",
	}}
	for i := range t.Rows {
		row := &t.Rows[i]
		records = append(records, []string{
			dateCell(row.TransactionDate),
			row.Description,
			moneyCell(row.Deposit),
			moneyCell(row.Withdrawal),
			moneyCell(row.Balance),
			dateCell(row.PostingDate),
			row.Reference,
			fmt.Sprintf("%.2f", row.DateConfidence),
			fmt.Sprintf("%.2f", row.AmountConfidence),
			fmt.Sprintf("%.2f", row.BalanceConfidence),
		})
	}
	records = append(records,
		[]string{},
		[]string{"Summary"},
		[]string{"Opening Balance", "", "", "", moneyCell(t.OpeningBalance)},
		[]string{"Closing Balance", "", "", "", moneyCell(t.ClosingBalance)},
		[]string{"Total Deposits", "", t.TotalDeposits().String()},
		[]string{"Total Withdrawals", "", "", t.TotalWithdrawals().String()},
	)

	if err := writeCSV(path, records); err != nil {
		return "", err
	}
	return path, nil
}

// WriteReviewRowsCSV writes every flagged item, most severe first. It
// returns an empty path when nothing needs review.
func (w *Writer) WriteReviewRowsCSV(v *report.Verdict) (string, error) {
	items := reviewItems(v)
	if len(items) == 0 {
		return "", nil
	}
	sortReviewItems(items)

	path := filepath.Join(w.dir, fmt.Sprintf("%s_review_rows_%s.csv", v.DocumentID, w.stamp()))

	records := [][]string{{"Row", "Source", "Field", "Severity", "Message", "Expected", "Actual"}}
	for _, item := range items {
		records = append(records, []string{
			rowCell(item.Row),
			item.Source,
			item.Field,
			item.Severity.String(),
			item.Message,
			item.Expected,
			item.Actual,
		})
	}

	if err := writeCSV(path, records); err != nil {
		return "", err
	}
	return path, nil
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	cw := csv.NewWriter(f)
	if err := cw.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}
	return nil
}

func writeJSON(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func dateCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func moneyCell(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func rowCell(row *int) string {
	if row == nil {
		return ""
	}
	return strconv.Itoa(*row)
}
