// Package ledger models a trial balance (mizan) snapshot and validates its account
// balances against the chart of accounts (Tek Düzen Hesap Planı).
//
// The validators in this package are pure functions: they never mutate their input,
// perform no I/O and return findings in input order, so repeated calls over the same
// snapshot produce identical results.
//
// The package checks that:
//   - Every account carries its balance on the side its rule expects (ters bakiye)
//   - Asset accounts that can never be negative (cash, banks, inventory, fixed assets
//     at cost) do not show a negative signed balance (eksi hesap)
//
// Example usage:
//
//	rules, err := ledger.NewRuleTable(ledger.DefaultRules())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := ledger.CheckAccounts(accounts); err != nil {
//	    log.Fatal(err)
//	}
//
//	violations := ledger.ValidateDirection(accounts, rules)
//	violations = append(violations, ledger.ValidateNegativeBalances(accounts, rules)...)
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultBalanceTolerance is the amount (one currency unit) a balance may sit on the
// wrong side before it is reported.
var DefaultBalanceTolerance = decimal.NewFromInt(1)

// options holds validator configuration.
type options struct {
	tolerance decimal.Decimal
}

// Option configures the balance validators.
type Option func(*options)

// WithTolerance overrides the balance tolerance used by the validators.
// Negative values are treated as zero.
func WithTolerance(tolerance decimal.Decimal) Option {
	return func(o *options) {
		if tolerance.IsNegative() {
			tolerance = decimal.Zero
		}
		o.tolerance = tolerance
	}
}

func newOptions(opts []Option) *options {
	o := &options{tolerance: DefaultBalanceTolerance}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ValidationErrors wraps multiple structural errors
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d validation errors occurred", len(e.Errors))
}

// Unwrap returns the underlying errors for error unwrapping
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}

// errorsOrNil returns nil for an empty error list.
func errorsOrNil(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationErrors{Errors: errs}
}
