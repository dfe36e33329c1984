package reconcile

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// BankTransaction is one line of a bank statement.
type BankTransaction struct {
	// Seq is the insertion order of the record in the import.
	Seq         int             `json:"seq" yaml:"seq"`
	Date        time.Time       `json:"date" yaml:"date"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	// Balance is the running account balance after the transaction.
	Balance decimal.Decimal `json:"balance" yaml:"balance"`
}

// EndingBalance resolves the closing balance of a statement. Imports arrive out of
// order and may repeat a day, so records are ordered by transaction date (calendar
// day) and the earliest-inserted record on the latest date wins. Records with equal
// Seq keep their input order.
// The second return value is false when there are no transactions.
func EndingBalance(txns []BankTransaction) (decimal.Decimal, bool) {
	if len(txns) == 0 {
		return decimal.Zero, false
	}

	sorted := slices.Clone(txns)
	slices.SortStableFunc(sorted, func(a, b BankTransaction) int {
		return day(a.Date).Compare(day(b.Date))
	})

	last := day(sorted[len(sorted)-1].Date)
	best := -1
	for i, t := range sorted {
		if !day(t.Date).Equal(last) {
			continue
		}
		if best < 0 || t.Seq < sorted[best].Seq {
			best = i
		}
	}

	return sorted[best].Balance, true
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
