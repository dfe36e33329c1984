package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Severity ranks how serious a finding is.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities from info (0) to critical (4).
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// ViolationKind identifies which balance rule an account broke.
type ViolationKind string

const (
	// KindReversedBalance is a balance on the opposite side from what the account
	// type requires (ters bakiye).
	KindReversedBalance ViolationKind = "reversed_balance"
	// KindNegativeBalance is an asset account with an economically impossible
	// negative balance (eksi hesap).
	KindNegativeBalance ViolationKind = "negative_balance"
)

// Violation is a balance finding for a single account.
type Violation struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Kind          ViolationKind   `json:"kind"`
	Rule          Rule            `json:"rule"`
	Severity      Severity        `json:"severity"`
	Expected      Direction       `json:"expected"`
	Observed      Direction       `json:"observed"`
	DebitBalance  decimal.Decimal `json:"debit_balance"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
	Amount        decimal.Decimal `json:"amount"`
	Message       string          `json:"message"`
}

// ValidateDirection reports every account whose net balance sits on the opposite
// side from its rule by more than the tolerance. Accounts without a matching rule and
// contra accounts are skipped. Violations are returned in account order.
func ValidateDirection(accounts []Account, rules *RuleTable, opts ...Option) []Violation {
	o := newOptions(opts)

	var violations []Violation
	for _, a := range accounts {
		rule, ok := rules.Lookup(a.Code)
		if !ok || rule.Group == GroupContra {
			continue
		}

		observed := a.Direction()
		if observed == DirectionNone || observed == rule.Direction {
			continue
		}

		wrongSide := a.BalanceOn(observed)
		if wrongSide.LessThanOrEqual(o.tolerance) {
			continue
		}

		severity := SeverityHigh
		if !rule.AllowNegative {
			severity = SeverityCritical
		}

		violations = append(violations, Violation{
			Code:          a.Code,
			Name:          accountName(a, rule),
			Kind:          KindReversedBalance,
			Rule:          rule,
			Severity:      severity,
			Expected:      rule.Direction,
			Observed:      observed,
			DebitBalance:  a.DebitBalance,
			CreditBalance: a.CreditBalance,
			Amount:        wrongSide,
			Message: fmt.Sprintf("%s %s hesabı %s bakiye vermesi gerekirken %s TL %s bakiye veriyor",
				a.Code, accountName(a, rule), rule.Direction.Turkish(), formatAmount(wrongSide), observed.Turkish()),
		})
	}

	return violations
}

// ValidateNegativeBalances reports asset accounts that may never go negative but
// show a signed balance (debit minus credit) below minus the tolerance.
// Every such violation is critical.
func ValidateNegativeBalances(accounts []Account, rules *RuleTable, opts ...Option) []Violation {
	o := newOptions(opts)
	limit := o.tolerance.Neg()

	var violations []Violation
	for _, a := range accounts {
		rule, ok := rules.Lookup(a.Code)
		if !ok || rule.AllowNegative || !rule.Group.IsAssetSide() {
			continue
		}

		signed := a.Signed()
		if !signed.LessThan(limit) {
			continue
		}

		violations = append(violations, Violation{
			Code:          a.Code,
			Name:          accountName(a, rule),
			Kind:          KindNegativeBalance,
			Rule:          rule,
			Severity:      SeverityCritical,
			Expected:      DirectionDebit,
			Observed:      a.Direction(),
			DebitBalance:  a.DebitBalance,
			CreditBalance: a.CreditBalance,
			Amount:        signed.Abs(),
			Message: fmt.Sprintf("%s %s hesabı eksi bakiye veriyor (%s TL); kayıt hatası veya kayıt dışı işlem olabilir",
				a.Code, accountName(a, rule), formatAmount(signed)),
		})
	}

	return violations
}

// Validate runs both balance validators and returns their findings, direction
// violations first.
func Validate(accounts []Account, rules *RuleTable, opts ...Option) []Violation {
	violations := ValidateDirection(accounts, rules, opts...)
	return append(violations, ValidateNegativeBalances(accounts, rules, opts...)...)
}

// accountName prefers the ledger's own name and falls back to the rule name.
func accountName(a Account, rule Rule) string {
	if name := strings.TrimSpace(a.Name); name != "" {
		return name
	}
	return rule.Name
}
