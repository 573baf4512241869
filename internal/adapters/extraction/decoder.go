// Package extraction decodes the extraction engine's serialized output into
// the domain transaction table. Decoding is lenient about per-row content:
// an unparsable date or amount becomes an absent value for the analyzers to
// flag, never a decode error. Only a malformed document fails.
package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calder/vouch/internal/domain/statement"
)

// document is the wire form of one extraction result.
type document struct {
	DocumentID        string          `json:"document_id"`
	Engine            string          `json:"engine"`
	ProcessedAt       string          `json:"processed_at"`
	PageCount         int             `json:"page_count"`
	OverallConfidence float64         `json:"overall_confidence"`
	OpeningBalance    json.RawMessage `json:"opening_balance"`
	ClosingBalance    json.RawMessage `json:"closing_balance"`
	Header            headerDoc       `json:"header"`
	Rows              []rowDoc        `json:"rows"`
}

type headerDoc struct {
	Detected   bool     `json:"detected"`
	Confidence float64  `json:"confidence"`
	Columns    []string `json:"columns"`
}

type rowDoc struct {
	TransactionDate       string          `json:"transaction_date"`
	PostingDate           string          `json:"posting_date"`
	Description           string          `json:"description"`
	Deposit               json.RawMessage `json:"deposit"`
	Withdrawal            json.RawMessage `json:"withdrawal"`
	Balance               json.RawMessage `json:"balance"`
	Reference             string          `json:"reference"`
	DateConfidence        float64         `json:"date_confidence"`
	DescriptionConfidence float64         `json:"description_confidence"`
	AmountConfidence      float64         `json:"amount_confidence"`
	BalanceConfidence     float64         `json:"balance_confidence"`
	DateRaw               string          `json:"date_raw"`
	AmountRaw             string          `json:"amount_raw"`
	Page                  int             `json:"page"`
}

// Decode reads one extraction-result JSON document.
func Decode(r io.Reader) (*statement.Table, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode extraction result: %w", err)
	}
	return fromDocument(&doc), nil
}

// DecodeFile reads an extraction-result file.
func DecodeFile(path string) (*statement.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open extraction result: %w", err)
	}
	defer f.Close()

	table, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

func fromDocument(doc *document) *statement.Table {
	id := doc.DocumentID
	if id == "" {
		id = "doc-" + uuid.NewString()
	}

	pageCount := doc.PageCount
	if pageCount < 1 {
		pageCount = 1
	}

	t := &statement.Table{
		DocumentID: id,
		Engine:     doc.Engine,
		Header: statement.Header{
			Detected:   doc.Header.Detected,
			Confidence: doc.Header.Confidence,
			Columns:    doc.Header.Columns,
		},
		OpeningBalance:    decodeMoney(doc.OpeningBalance),
		ClosingBalance:    decodeMoney(doc.ClosingBalance),
		PageCount:         pageCount,
		OverallConfidence: doc.OverallConfidence,
	}

	if doc.ProcessedAt != "" {
		if at, err := time.Parse(time.RFC3339, doc.ProcessedAt); err == nil {
			t.ProcessedAt = at
		}
	}

	t.Rows = make([]statement.Record, 0, len(doc.Rows))
	for i, row := range doc.Rows {
		t.Rows = append(t.Rows, fromRow(&row, i))
	}
	return t
}

func fromRow(row *rowDoc, index int) statement.Record {
	page := row.Page
	if page < 1 {
		page = 1
	}

	return statement.Record{
		TransactionDate:       decodeDate(row.TransactionDate),
		PostingDate:           decodeDate(row.PostingDate),
		Description:           row.Description,
		Deposit:               decodeMoney(row.Deposit),
		Withdrawal:            decodeMoney(row.Withdrawal),
		Balance:               decodeMoney(row.Balance),
		Reference:             row.Reference,
		DateConfidence:        row.DateConfidence,
		DescriptionConfidence: row.DescriptionConfidence,
		AmountConfidence:      row.AmountConfidence,
		BalanceConfidence:     row.BalanceConfidence,
		DateRaw:               row.DateRaw,
		AmountRaw:             row.AmountRaw,
		Page:                  page,
		RowIndex:              index,
	}
}

func decodeDate(value string) *time.Time {
	parsed, ok := statement.ParseDate(value)
	if !ok {
		return nil
	}
	return &parsed
}

// decodeMoney accepts a JSON number or a string in any statement currency
// form. Anything unparsable decodes to absent.
func decodeMoney(raw json.RawMessage) *decimal.Decimal {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		amount, ok := statement.ParseAmount(s)
		if !ok {
			return nil
		}
		return &amount
	}

	amount, err := decimal.NewFromString(string(trimmed))
	if err != nil {
		return nil
	}
	return &amount
}
