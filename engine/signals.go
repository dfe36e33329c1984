package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mizanlab/mizan/evidence"
	"github.com/mizanlab/mizan/ledger"
	"github.com/mizanlab/mizan/reconcile"
	"github.com/mizanlab/mizan/risk"
)

// Signals the engine derives from the ledger and reconciliations.
const (
	SignalTrialBalanceUnequal      = "trial_balance_unequal"
	SignalReversedBalances         = "reversed_balances"
	SignalCashReversedBalance      = "cash_reversed_balance"
	SignalNegativeInventory        = "negative_inventory"
	SignalHighCashBalance          = "high_cash_balance"
	SignalPartnerReceivableBalance = "partner_receivable_balance"
	SignalVATDeclarationMismatch   = "vat_declaration_mismatch"
	SignalWithholdingMismatch      = "withholding_mismatch"
	SignalBankBalanceMismatch      = "bank_balance_mismatch"
	SignalRevenueTrendAnomaly      = "revenue_trend_anomaly"
)

var hundred = decimal.NewFromInt(100)

// deriveSignals turns findings into tri-state signals. Without the data a signal
// needs it stays Unknown.
func (e *Engine) deriveSignals(in Input, r *Report) map[string]risk.Observation {
	return map[string]risk.Observation{
		SignalTrialBalanceUnequal:      fromResults(r.TrialBalance),
		SignalReversedBalances:         reversedBalances(in.Accounts, r.Violations),
		SignalCashReversedBalance:      accountViolation(in.Accounts, r.Violations, "100", "Kasa", ledger.KindReversedBalance),
		SignalNegativeInventory:        accountViolation(in.Accounts, r.Violations, "15", "Stoklar", ledger.KindNegativeBalance),
		SignalHighCashBalance:          highCash(in.Accounts, e.highCashRatio),
		SignalPartnerReceivableBalance: partnerReceivable(in.Accounts, e.balanceTolerance),
		SignalVATDeclarationMismatch: fromResults(
			findResult(r.Reconciliations, reconcile.CheckVATCalculated),
			findResult(r.Reconciliations, reconcile.CheckVATDeductible),
		),
		SignalWithholdingMismatch: fromResults(findResult(r.Reconciliations, reconcile.CheckWithholding)),
		SignalBankBalanceMismatch: fromResults(findResult(r.Reconciliations, reconcile.CheckBankBalance)),
		SignalRevenueTrendAnomaly: fromResults(findResult(r.Reconciliations, reconcile.CheckRevenueTrend)),
	}
}

func findResult(results []reconcile.Result, check string) reconcile.Result {
	for _, res := range results {
		if res.Check == check {
			return res
		}
	}
	return reconcile.Result{Check: check, Status: reconcile.StatusNoData}
}

// fromResults is True when any comparison failed with an error, False when every
// comparison with data stayed within the warning band.
func fromResults(results ...reconcile.Result) risk.Observation {
	var failed, passed []string
	for _, res := range results {
		switch res.Status {
		case reconcile.StatusError:
			failed = append(failed, res.Explanation)
		case reconcile.StatusOK, reconcile.StatusWarning:
			passed = append(passed, res.Explanation)
		}
	}

	switch {
	case len(failed) > 0:
		return risk.Observe(risk.True, evidence.Cite(failed...))
	case len(passed) > 0:
		return risk.Observe(risk.False, evidence.Cite(passed...))
	}
	return risk.Observation{}
}

func reversedBalances(accounts []ledger.Account, violations []ledger.Violation) risk.Observation {
	if len(accounts) == 0 {
		return risk.Observation{}
	}

	var codes []string
	for _, v := range violations {
		if v.Kind == ledger.KindReversedBalance {
			codes = append(codes, v.Code)
		}
	}
	if len(codes) == 0 {
		return risk.Observe(risk.False, "Ters bakiye veren hesap yok")
	}
	return risk.Observe(risk.True, fmt.Sprintf("%d hesapta ters bakiye: %s", len(codes), strings.Join(codes, ", ")))
}

// accountViolation reports violations of one kind under a code prefix. A snapshot
// without the account has nothing to violate.
func accountViolation(accounts []ledger.Account, violations []ledger.Violation, prefix, name string, kind ledger.ViolationKind) risk.Observation {
	if len(accounts) == 0 {
		return risk.Observation{}
	}

	rule := ledger.Rule{CodePrefix: prefix}
	var messages []string
	for _, v := range violations {
		if v.Kind == kind && rule.Matches(v.Code) {
			messages = append(messages, v.Message)
		}
	}
	if len(messages) > 0 {
		return risk.Observe(risk.True, evidence.Cite(messages...))
	}

	if _, found := ledger.SumBalance(accounts, prefix); !found {
		return risk.Observe(risk.False, fmt.Sprintf("%s %s hesabı mizanda yok", prefix, name))
	}
	return risk.Observe(risk.False, fmt.Sprintf("%s %s hesaplarında bulgu yok", prefix, name))
}

// highCash compares cash (100) to current assets (group 1). The ratio is undefined
// without either figure or when current assets are not positive.
func highCash(accounts []ledger.Account, threshold decimal.Decimal) risk.Observation {
	cash, ok := ledger.SideBalance(accounts, "100", ledger.DirectionDebit)
	if !ok {
		return risk.Observation{}
	}
	current, ok := ledger.SideBalance(accounts, "1", ledger.DirectionDebit)
	if !ok || !current.IsPositive() {
		return risk.Observation{}
	}

	ratio := decimal.Max(cash, decimal.Zero).Div(current)
	text := fmt.Sprintf("Kasa bakiyesi %s TL, dönen varlıklar %s TL (%%%s, eşik %%%s)",
		ledger.FormatAmount(cash), ledger.FormatAmount(current),
		ledger.FormatAmount(ratio.Mul(hundred)), ledger.FormatAmount(threshold.Mul(hundred)))

	if ratio.GreaterThan(threshold) {
		return risk.Observe(risk.True, text)
	}
	return risk.Observe(risk.False, text)
}

func partnerReceivable(accounts []ledger.Account, tolerance decimal.Decimal) risk.Observation {
	if len(accounts) == 0 {
		return risk.Observation{}
	}

	balance, found := ledger.SideBalance(accounts, "131", ledger.DirectionDebit)
	if !found {
		return risk.Observe(risk.False, "131 Ortaklardan Alacaklar hesabı mizanda yok")
	}

	text := fmt.Sprintf("131 Ortaklardan Alacaklar borç bakiyesi %s TL", ledger.FormatAmount(balance))
	if balance.GreaterThan(tolerance) {
		return risk.Observe(risk.True, text)
	}
	return risk.Observe(risk.False, text)
}
