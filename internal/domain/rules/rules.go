// Package rules applies deterministic bookkeeping checks to an extracted
// statement table. Where risk signals describe suspicion, a rule violation
// marks data that is provably inconsistent: dates running backwards,
// malformed currency amounts, or balance arithmetic that does not add up
// within tolerance.
package rules

import (
	"encoding/json"
	"fmt"

	"github.com/calder/vouch/internal/domain/risk"
)

// Rule identifies one deterministic validation rule.
type Rule uint8

const (
	RuleNoRows Rule = iota
	RuleDateMissing
	RuleDateInFuture
	RuleDateNotMonotonic
	RuleNoAmount
	RuleBothDepositWithdrawal
	RuleInvalidAmountFormat
	RuleRunningBalanceMismatch
	RuleOverallBalanceMismatch

	ruleCount
)

var ruleNames = [ruleCount]string{
	"NO_ROWS",
	"DATE_MISSING",
	"DATE_IN_FUTURE",
	"DATE_NOT_MONOTONIC",
	"NO_AMOUNT",
	"BOTH_DEPOSIT_WITHDRAWAL",
	"INVALID_AMOUNT_FORMAT",
	"RUNNING_BALANCE_MISMATCH",
	"OVERALL_BALANCE_MISMATCH",
}

// String returns the wire name of the rule.
func (r Rule) String() string {
	if r >= ruleCount {
		return fmt.Sprintf("RULE(%d)", uint8(r))
	}
	return ruleNames[r]
}

// RuleFromName maps a wire name back to its Rule. The second return is
// false for unknown names.
func RuleFromName(name string) (Rule, bool) {
	for i, n := range ruleNames {
		if n == name {
			return Rule(i), true
		}
	}
	return 0, false
}

// MarshalJSON encodes the rule as its wire name.
func (r Rule) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a wire name into the rule.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	rule, ok := RuleFromName(name)
	if !ok {
		return fmt.Errorf("unknown rule %q", name)
	}
	*r = rule
	return nil
}

// Violation records a single failed check. Row, Field, Expected, Actual
// and Difference are populated only where the rule produces them and
// serialize as null otherwise.
type Violation struct {
	Rule       Rule          `json:"rule"`
	Severity   risk.Severity `json:"severity"`
	Message    string        `json:"message"`
	Row        *int          `json:"row"`
	Field      *string       `json:"field"`
	Expected   *string       `json:"expected"`
	Actual     *string       `json:"actual"`
	Difference *float64      `json:"difference"`
}

// CountBySeverity returns how many violations carry the given severity.
func CountBySeverity(violations []Violation, severity risk.Severity) int {
	n := 0
	for _, v := range violations {
		if v.Severity == severity {
			n++
		}
	}
	return n
}
