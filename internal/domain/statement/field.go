package statement

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Field selects one matchable value of a Record. The set is closed:
// pattern definitions address rows only through these selectors, and the
// accessors below are the single place that knows how a selector maps
// onto the row type.
type Field uint8

const (
	// FieldAmount is the row's movement: deposit when present, else
	// withdrawal.
	FieldAmount Field = iota
	FieldAmountRaw
	FieldDate
	FieldDateRaw
	FieldDescription
	FieldBalance

	// FieldCount is the number of field selectors.
	FieldCount
)

var fieldNames = [FieldCount]string{
	FieldAmount:      "amount",
	FieldAmountRaw:   "amount_raw",
	FieldDate:        "date",
	FieldDateRaw:     "date_raw",
	FieldDescription: "description",
	FieldBalance:     "balance",
}

// String returns the wire name of the field selector.
func (f Field) String() string {
	if f >= FieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// FieldFromName resolves a wire name to a field selector.
func FieldFromName(name string) (Field, bool) {
	for f, n := range fieldNames {
		if n == name {
			return Field(f), true
		}
	}
	return 0, false
}

// MarshalJSON encodes the field selector as its wire name.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON decodes a wire name into the field selector.
func (f *Field) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	field, ok := FieldFromName(name)
	if !ok {
		return fmt.Errorf("unknown field %q", name)
	}
	*f = field
	return nil
}

// StringValue returns the row's value for this selector rendered as text,
// and whether the value is present. Raw text fields are absent when the
// extractor reported nothing; dates render in ISO form.
func (f Field) StringValue(r *Record) (string, bool) {
	switch f {
	case FieldAmount:
		if a := r.Amount(); a != nil {
			return a.String(), true
		}
		return "", false
	case FieldAmountRaw:
		return r.AmountRaw, r.AmountRaw != ""
	case FieldDate:
		if r.TransactionDate != nil {
			return r.TransactionDate.Format("2006-01-02"), true
		}
		return "", false
	case FieldDateRaw:
		return r.DateRaw, r.DateRaw != ""
	case FieldDescription:
		return r.Description, r.Description != ""
	case FieldBalance:
		if r.Balance != nil {
			return r.Balance.String(), true
		}
		return "", false
	}
	return "", false
}

// DecimalValue returns the row's numeric value for this selector. Only
// amount and balance carry one; every other selector reports absent.
func (f Field) DecimalValue(r *Record) (decimal.Decimal, bool) {
	switch f {
	case FieldAmount:
		if a := r.Amount(); a != nil {
			return *a, true
		}
	case FieldBalance:
		if r.Balance != nil {
			return *r.Balance, true
		}
	}
	return decimal.Decimal{}, false
}
