package rules

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/calder/vouch/internal/domain/risk"
	"github.com/calder/vouch/internal/domain/statement"
)

// maxAmount is the exclusive upper bound on a single amount's magnitude.
var maxAmount = decimal.NewFromInt(1_000_000)

// Validator runs the deterministic rule set against a statement table.
type Validator struct {
	tolerance decimal.Decimal
	now       func() time.Time
}

// NewValidator returns a Validator with the standard two-cent balance
// tolerance.
func NewValidator() *Validator {
	return &Validator{
		tolerance: decimal.New(2, -2),
		now:       time.Now,
	}
}

// Validate runs every rule in order and returns the violations found.
// An empty table yields exactly one CRITICAL NO_ROWS violation.
func (v *Validator) Validate(t *statement.Table) []Violation {
	if len(t.Rows) == 0 {
		return []Violation{{
			Rule:     RuleNoRows,
			Severity: risk.SeverityCritical,
			Message:  "No transaction rows extracted",
		}}
	}

	var violations []Violation
	violations = append(violations, v.checkDates(t)...)
	violations = append(violations, v.checkAmounts(t)...)
	violations = append(violations, v.checkRunningBalance(t)...)
	violations = append(violations, v.checkOverallBalance(t)...)
	return violations
}

// CountChecks estimates how many individual checks Validate performs on
// the table. The estimate feeds the reported pass rate; a single
// violation never counts as more than one failed check.
func (v *Validator) CountChecks(t *statement.Table) int {
	if len(t.Rows) == 0 {
		return 1
	}

	count := len(t.Rows) // date presence and future checks
	if len(t.Rows) > 1 {
		count += len(t.Rows) - 1 // monotonic transitions
	}
	count += len(t.Rows) // amount presence

	for i := range t.Rows {
		row := &t.Rows[i]
		if row.Deposit != nil {
			count++
		}
		if row.Withdrawal != nil {
			count++
		}
		if row.Balance != nil {
			count++
		}
	}

	for i := 1; i < len(t.Rows); i++ {
		if t.Rows[i-1].Balance != nil && t.Rows[i].Balance != nil {
			count++
		}
	}

	if t.OpeningBalance != nil && t.ClosingBalance != nil {
		count++
	}
	return count
}

// checkDates flags missing dates, future dates, and dates that run
// backwards. A row with no date skips the other two checks.
func (v *Validator) checkDates(t *statement.Table) []Violation {
	var violations []Violation

	now := v.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	for i := range t.Rows {
		row := &t.Rows[i]
		if row.TransactionDate == nil {
			violations = append(violations, Violation{
				Rule:     RuleDateMissing,
				Severity: risk.SeverityCritical,
				Message:  "Transaction date is missing",
				Row:      intPtr(i),
			})
			continue
		}

		if row.TransactionDate.After(today) {
			violations = append(violations, Violation{
				Rule:     RuleDateInFuture,
				Severity: risk.SeverityCritical,
				Message:  fmt.Sprintf("Date %s is in the future", row.TransactionDate.Format("2006-01-02")),
				Row:      intPtr(i),
			})
		}

		if i > 0 && t.Rows[i-1].TransactionDate != nil {
			prev := t.Rows[i-1].TransactionDate
			if row.TransactionDate.Before(*prev) {
				violations = append(violations, Violation{
					Rule:     RuleDateNotMonotonic,
					Severity: risk.SeverityHigh,
					Message: fmt.Sprintf("Date reversed: %s → %s",
						prev.Format("2006-01-02"), row.TransactionDate.Format("2006-01-02")),
					Row: intPtr(i),
				})
			}
		}
	}
	return violations
}

// checkAmounts verifies that each row carries at least one amount, that
// deposit and withdrawal are not both non-zero, and that every monetary
// field present is plausible currency.
func (v *Validator) checkAmounts(t *statement.Table) []Violation {
	var violations []Violation

	for i := range t.Rows {
		row := &t.Rows[i]

		if row.Deposit == nil && row.Withdrawal == nil {
			violations = append(violations, Violation{
				Rule:     RuleNoAmount,
				Severity: risk.SeverityHigh,
				Message:  "Neither deposit nor withdrawal amount found",
				Row:      intPtr(i),
			})
		} else if row.Deposit != nil && row.Withdrawal != nil &&
			!row.Deposit.IsZero() && !row.Withdrawal.IsZero() {
			violations = append(violations, Violation{
				Rule:     RuleBothDepositWithdrawal,
				Severity: risk.SeverityMedium,
				Message:  "Both deposit and withdrawal have values",
				Row:      intPtr(i),
			})
		}

		for _, f := range [...]struct {
			name  string
			value *decimal.Decimal
		}{
			{"deposit", row.Deposit},
			{"withdrawal", row.Withdrawal},
			{"balance", row.Balance},
		} {
			if f.value == nil || ValidCurrency(*f.value) {
				continue
			}
			violations = append(violations, Violation{
				Rule:     RuleInvalidAmountFormat,
				Severity: risk.SeverityCritical,
				Message:  fmt.Sprintf("Invalid %s format: %s", f.name, f.value),
				Row:      intPtr(i),
				Field:    strPtr(f.name),
			})
		}
	}
	return violations
}

// checkRunningBalance verifies prev.balance + deposit - withdrawal ==
// curr.balance for every adjacent pair where both balances are present.
func (v *Validator) checkRunningBalance(t *statement.Table) []Violation {
	var violations []Violation

	for i := 1; i < len(t.Rows); i++ {
		prev, curr := &t.Rows[i-1], &t.Rows[i]
		if prev.Balance == nil || curr.Balance == nil {
			continue
		}

		expected := *prev.Balance
		if curr.Deposit != nil {
			expected = expected.Add(*curr.Deposit)
		}
		if curr.Withdrawal != nil {
			expected = expected.Sub(*curr.Withdrawal)
		}

		diff := expected.Sub(*curr.Balance).Abs()
		if diff.GreaterThan(v.tolerance) {
			violations = append(violations, Violation{
				Rule:       RuleRunningBalanceMismatch,
				Severity:   risk.SeverityCritical,
				Message:    fmt.Sprintf("Balance mismatch: expected %s, got %s", expected, curr.Balance),
				Row:        intPtr(i),
				Expected:   strPtr(expected.String()),
				Actual:     strPtr(curr.Balance.String()),
				Difference: diffPtr(diff),
			})
		}
	}
	return violations
}

// checkOverallBalance verifies opening + Σdeposits - Σwithdrawals ==
// closing. Skipped entirely when either statement balance is absent.
func (v *Validator) checkOverallBalance(t *statement.Table) []Violation {
	if t.OpeningBalance == nil || t.ClosingBalance == nil {
		return nil
	}

	expected := t.OpeningBalance.Add(t.TotalDeposits()).Sub(t.TotalWithdrawals())
	actual := *t.ClosingBalance

	diff := expected.Sub(actual).Abs()
	if diff.LessThanOrEqual(v.tolerance) {
		return nil
	}

	return []Violation{{
		Rule:       RuleOverallBalanceMismatch,
		Severity:   risk.SeverityCritical,
		Message:    fmt.Sprintf("Overall balance mismatch: expected %s, got %s", expected, actual),
		Expected:   strPtr(expected.String()),
		Actual:     strPtr(actual.String()),
		Difference: diffPtr(diff),
	}}
}

// ValidCurrency reports whether d is plausible statement money: at most
// two fractional digits and magnitude below one million.
func ValidCurrency(d decimal.Decimal) bool {
	if d.Exponent() < -2 {
		return false
	}
	return d.Abs().LessThan(maxAmount)
}

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func diffPtr(d decimal.Decimal) *float64 {
	f := d.InexactFloat64()
	return &f
}
