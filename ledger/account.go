package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Direction is the side of the ledger an account balance sits on.
type Direction string

const (
	DirectionNone   Direction = ""
	DirectionDebit  Direction = "debit"
	DirectionCredit Direction = "credit"
)

// String returns the string representation of the direction
func (d Direction) String() string {
	switch d {
	case DirectionDebit:
		return "debit"
	case DirectionCredit:
		return "credit"
	default:
		return "none"
	}
}

// Turkish returns the label used in practitioner-facing text (borç/alacak).
func (d Direction) Turkish() string {
	switch d {
	case DirectionDebit:
		return "borç"
	case DirectionCredit:
		return "alacak"
	default:
		return "bakiyesiz"
	}
}

// Opposite returns the other side of the ledger.
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionDebit:
		return DirectionCredit
	case DirectionCredit:
		return DirectionDebit
	default:
		return DirectionNone
	}
}

// ParseDirection parses "debit"/"credit" (and the Turkish borç/alacak).
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debit", "borç", "borc", "b":
		return DirectionDebit, true
	case "credit", "alacak", "a":
		return DirectionCredit, true
	default:
		return DirectionNone, false
	}
}

// Account is one line of a trial balance for a single client and period.
// The balance pair expresses a single net balance as two non-negative magnitudes,
// so at most one of DebitBalance and CreditBalance is non-zero.
type Account struct {
	Code          string          `json:"code" yaml:"code"`
	Name          string          `json:"name" yaml:"name"`
	DebitTotal    decimal.Decimal `json:"debit_total" yaml:"debit_total"`
	CreditTotal   decimal.Decimal `json:"credit_total" yaml:"credit_total"`
	DebitBalance  decimal.Decimal `json:"debit_balance" yaml:"debit_balance"`
	CreditBalance decimal.Decimal `json:"credit_balance" yaml:"credit_balance"`
}

// Direction returns the side the net balance sits on, or DirectionNone when both
// balances are zero.
func (a Account) Direction() Direction {
	switch {
	case a.DebitBalance.IsPositive():
		return DirectionDebit
	case a.CreditBalance.IsPositive():
		return DirectionCredit
	default:
		return DirectionNone
	}
}

// Signed returns DebitBalance - CreditBalance.
func (a Account) Signed() decimal.Decimal {
	return a.DebitBalance.Sub(a.CreditBalance)
}

// BalanceOn returns the balance magnitude carried on the given side.
func (a Account) BalanceOn(d Direction) decimal.Decimal {
	switch d {
	case DirectionDebit:
		return a.DebitBalance
	case DirectionCredit:
		return a.CreditBalance
	default:
		return decimal.Zero
	}
}

// MainCode returns the first segment of the account code ("102" for "102.01").
func (a Account) MainCode() string {
	if i := strings.IndexByte(a.Code, '.'); i >= 0 {
		return a.Code[:i]
	}
	return a.Code
}

// parentCode returns the code one level up the hierarchy, or "" for a main account.
func parentCode(code string) string {
	i := strings.LastIndexByte(code, '.')
	if i < 0 {
		return ""
	}
	return code[:i]
}

// CheckAccounts verifies the structural invariants of a snapshot: every account has a
// well-formed code, no magnitude is negative and at most one balance is non-zero.
// All problems are reported together.
func CheckAccounts(accounts []Account) error {
	var errs []error
	seen := make(map[string]bool, len(accounts))

	for i, a := range accounts {
		if !validCode(a.Code) {
			errs = append(errs, NewInvalidAccountError(i, a, "malformed account code"))
			continue
		}
		if seen[a.Code] {
			errs = append(errs, NewInvalidAccountError(i, a, "duplicate account code"))
			continue
		}
		seen[a.Code] = true

		if a.DebitTotal.IsNegative() || a.CreditTotal.IsNegative() ||
			a.DebitBalance.IsNegative() || a.CreditBalance.IsNegative() {
			errs = append(errs, NewInvalidAccountError(i, a, "negative magnitude"))
			continue
		}
		if a.DebitBalance.IsPositive() && a.CreditBalance.IsPositive() {
			errs = append(errs, NewInvalidAccountError(i, a, "both debit and credit balance are non-zero"))
		}
	}

	return errorsOrNil(errs)
}

// validCode accepts dot-separated digit segments ("1", "102", "102.01.003").
func validCode(code string) bool {
	if code == "" {
		return false
	}
	for _, seg := range strings.Split(code, ".") {
		if seg == "" {
			return false
		}
		for _, r := range seg {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
