package ledger

import (
	"fmt"
)

// Error types for structural problems in ledger input. These are never produced for
// business-rule findings, which are returned as Violations.

// InvalidAccountError is returned when a trial-balance line breaks a structural invariant
type InvalidAccountError struct {
	Index   int // Position of the account in the snapshot (0-based)
	Code    string
	Name    string
	Reason  string
	Account Account
}

func (e *InvalidAccountError) Error() string {
	return fmt.Sprintf("account #%d %q (%s): %s", e.Index+1, e.Code, e.Name, e.Reason)
}

func (e *InvalidAccountError) GetCode() string {
	return e.Code
}

func (e *InvalidAccountError) GetAccount() Account {
	return e.Account
}

// InvalidRuleError is returned when an account direction rule is malformed
type InvalidRuleError struct {
	Index  int // Position of the rule in the input (0-based)
	Prefix string
	Reason string
	Rule   Rule
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("rule #%d %q: %s", e.Index+1, e.Prefix, e.Reason)
}

func (e *InvalidRuleError) GetRule() Rule {
	return e.Rule
}

// NewInvalidAccountError creates an error for a malformed trial-balance line.
func NewInvalidAccountError(index int, account Account, reason string) *InvalidAccountError {
	return &InvalidAccountError{
		Index:   index,
		Code:    account.Code,
		Name:    account.Name,
		Reason:  reason,
		Account: account,
	}
}

// NewInvalidRuleError creates an error for a malformed direction rule.
func NewInvalidRuleError(index int, rule Rule, reason string) *InvalidRuleError {
	return &InvalidRuleError{
		Index:  index,
		Prefix: rule.CodePrefix,
		Reason: reason,
		Rule:   rule,
	}
}
