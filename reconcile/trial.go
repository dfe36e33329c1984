package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mizanlab/mizan/ledger"
)

// TrialBalanceCheck is the name reported on trial-balance results.
const TrialBalanceCheck = "trial_balance"

// DefaultTrialBalanceTolerance is one minor currency unit.
var DefaultTrialBalanceTolerance = decimal.RequireFromString("0.01")

// CheckTrialBalance verifies that total debits equal total credits within one minor
// currency unit. There is no warning band: an unequal trial balance is an error of
// critical severity because every figure derived from it is suspect.
func CheckTrialBalance(totalDebit, totalCredit decimal.Decimal) Result {
	return CheckTrialBalanceWithin(totalDebit, totalCredit, DefaultTrialBalanceTolerance)
}

// CheckTrialBalanceWithin is CheckTrialBalance with an explicit tolerance.
func CheckTrialBalanceWithin(totalDebit, totalCredit, tolerance decimal.Decimal) Result {
	diff := totalDebit.Sub(totalCredit).Abs()

	var percent *decimal.Decimal
	if largest := decimal.Max(totalDebit.Abs(), totalCredit.Abs()); !largest.IsZero() {
		p := percentOf(diff, largest)
		percent = &p
	}

	r := Result{
		Check:             TrialBalanceCheck,
		LabelA:            "Toplam borç",
		LabelB:            "Toplam alacak",
		ValueA:            &totalDebit,
		ValueB:            &totalCredit,
		Difference:        diff,
		PercentDifference: percent,
		Status:            StatusOK,
		Severity:          ledger.SeverityInfo,
	}

	if diff.LessThanOrEqual(tolerance) {
		r.Explanation = fmt.Sprintf("Mizan dengede: borç ve alacak toplamı %s TL", ledger.FormatAmount(totalDebit))
		return r
	}

	r.Status = StatusError
	r.Severity = ledger.SeverityCritical
	r.Explanation = fmt.Sprintf("Mizan dengede değil: toplam borç %s TL, toplam alacak %s TL, fark %s TL",
		ledger.FormatAmount(totalDebit), ledger.FormatAmount(totalCredit), ledger.FormatAmount(diff))
	return r
}

// CheckAccountsTrialBalance totals the snapshot and checks it.
func CheckAccountsTrialBalance(accounts []ledger.Account, tolerance decimal.Decimal) Result {
	debit, credit := ledger.Totals(accounts)
	return CheckTrialBalanceWithin(debit, credit, tolerance)
}
