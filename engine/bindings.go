package engine

import (
	"github.com/shopspring/decimal"

	"github.com/mizanlab/mizan/ledger"
	"github.com/mizanlab/mizan/reconcile"
)

// binding picks the two figures a check compares. A nil side has no data.
type binding func(in Input) (a, b *decimal.Decimal)

var bindings = map[string]binding{
	reconcile.CheckVATCalculated: func(in Input) (a, b *decimal.Decimal) {
		return side(in.Accounts, "391", ledger.DirectionCredit), figure(in.Declared, DeclaredVATCalculated)
	},
	reconcile.CheckVATDeductible: func(in Input) (a, b *decimal.Decimal) {
		return side(in.Accounts, "191", ledger.DirectionDebit), figure(in.Declared, DeclaredVATDeductible)
	},
	reconcile.CheckWithholding: func(in Input) (a, b *decimal.Decimal) {
		return side(in.Accounts, "360", ledger.DirectionCredit), figure(in.Declared, DeclaredWithholding)
	},
	reconcile.CheckBankBalance: func(in Input) (a, b *decimal.Decimal) {
		a = side(in.Accounts, "102", ledger.DirectionDebit)
		if ending, ok := reconcile.EndingBalance(in.BankTransactions); ok {
			return a, &ending
		}
		return a, figure(in.Declared, DeclaredBankEnding)
	},
	reconcile.CheckRevenueTrend: func(in Input) (a, b *decimal.Decimal) {
		return side(in.Accounts, "600", ledger.DirectionCredit), figure(in.Prior, PriorRevenue)
	},
}

func side(accounts []ledger.Account, prefix string, d ledger.Direction) *decimal.Decimal {
	v, ok := ledger.SideBalance(accounts, prefix, d)
	if !ok {
		return nil
	}
	return &v
}

func figure(values map[string]decimal.Decimal, key string) *decimal.Decimal {
	v, ok := values[key]
	if !ok {
		return nil
	}
	return &v
}
