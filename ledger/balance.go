package ledger

import (
	"github.com/shopspring/decimal"
)

// Totals sums the debit and credit totals of a trial balance. Trial balances list main
// accounts next to their sub-accounts, so only top-most accounts are counted: an account
// whose ancestor code is also present is already included in that ancestor.
func Totals(accounts []Account) (debit, credit decimal.Decimal) {
	present := codeSet(accounts)

	for _, a := range accounts {
		if hasAncestor(a.Code, present) {
			continue
		}
		debit = debit.Add(a.DebitTotal)
		credit = credit.Add(a.CreditTotal)
	}

	return debit, credit
}

// SumBalance returns the net signed balance (debit minus credit) of every top-most
// account covered by prefix. found is false when no account matches, which callers
// must treat as missing data rather than as a zero balance.
func SumBalance(accounts []Account, prefix string) (balance decimal.Decimal, found bool) {
	rule := Rule{CodePrefix: prefix}
	matched := make(map[string]bool)

	for _, a := range accounts {
		if rule.Matches(a.Code) {
			matched[a.Code] = true
		}
	}

	for _, a := range accounts {
		if !matched[a.Code] || hasAncestor(a.Code, matched) {
			continue
		}
		balance = balance.Add(a.Signed())
		found = true
	}

	return balance, found
}

// SideBalance is SumBalance expressed on the given side: for DirectionCredit a credit
// balance is returned as a positive amount.
func SideBalance(accounts []Account, prefix string, side Direction) (decimal.Decimal, bool) {
	balance, found := SumBalance(accounts, prefix)
	if side == DirectionCredit {
		balance = balance.Neg()
	}
	return balance, found
}

func codeSet(accounts []Account) map[string]bool {
	set := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		set[a.Code] = true
	}
	return set
}

func hasAncestor(code string, present map[string]bool) bool {
	for p := parentCode(code); p != ""; p = parentCode(p) {
		if present[p] {
			return true
		}
	}
	return false
}
