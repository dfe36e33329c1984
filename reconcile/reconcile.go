// Package reconcile compares pairs of numeric aggregates from different sources
// (trial balance, tax filings, bank statements, prior periods) and classifies the
// difference against a tolerance band.
//
// The comparator carries no domain meaning: a Check names the two values, the
// regulatory basis of the comparison and the thresholds, and Reconcile only does the
// arithmetic. Results are values and are never mutated after construction.
package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mizanlab/mizan/ledger"
)

// Status classifies a reconciliation outcome.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
	// StatusNoData means one side of the comparison was not available. It is a
	// data-quality state, not a failure.
	StatusNoData Status = "no_data"
)

// Turkish returns the practitioner-facing label for the status.
func (s Status) Turkish() string {
	switch s {
	case StatusOK:
		return "uyumlu"
	case StatusWarning:
		return "uyarı"
	case StatusError:
		return "hata"
	default:
		return "veri yok"
	}
}

// Severity maps a status to the severity reported alongside it.
func (s Status) Severity() ledger.Severity {
	switch s {
	case StatusWarning:
		return ledger.SeverityMedium
	case StatusError:
		return ledger.SeverityHigh
	default:
		return ledger.SeverityInfo
	}
}

// Check describes one comparison: what the two values are, where the obligation to
// match comes from and how much they may differ.
type Check struct {
	Name           string    `json:"name" yaml:"name" toml:"name"`
	LabelA         string    `json:"label_a" yaml:"label_a" toml:"label_a"`
	LabelB         string    `json:"label_b" yaml:"label_b" toml:"label_b"`
	LegalReference string    `json:"legal_reference,omitempty" yaml:"legal_reference,omitempty" toml:"legal_reference"`
	Tolerance      Tolerance `json:"tolerance" yaml:"tolerance" toml:"tolerance"`
}

// Result is the outcome of a single comparison.
type Result struct {
	Check             string           `json:"check"`
	LabelA            string           `json:"label_a"`
	LabelB            string           `json:"label_b"`
	ValueA            *decimal.Decimal `json:"value_a"`
	ValueB            *decimal.Decimal `json:"value_b"`
	Difference        decimal.Decimal  `json:"difference"`
	PercentDifference *decimal.Decimal `json:"percent_difference"`
	Status            Status           `json:"status"`
	Severity          ledger.Severity  `json:"severity"`
	Explanation       string           `json:"explanation"`
	LegalReference    string           `json:"legal_reference,omitempty"`
}

// OK reports whether the comparison matched within tolerance.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Mismatch reports whether the comparison found a warning or error level difference.
func (r Result) Mismatch() bool {
	return r.Status == StatusWarning || r.Status == StatusError
}

var hundred = decimal.NewFromInt(100)

// Reconcile compares a against b using the check's tolerance.
//
// The signed difference is a - b. When both values are zero the result is ok and the
// percent is undefined (nil). When exactly one is zero the percent is 100 and the
// result is an error unless the absolute difference is within tolerance. Otherwise
// the percent is |a - b| / max(|a|, |b|) * 100, rounded to four decimals, and the
// status follows the tolerance bands (see Tolerance.Classify).
func Reconcile(check Check, a, b decimal.Decimal) Result {
	diff := a.Sub(b)
	abs := diff.Abs()
	tol := check.Tolerance

	var percent *decimal.Decimal
	var status Status

	switch {
	case a.IsZero() && b.IsZero():
		status = StatusOK
	case a.IsZero() || b.IsZero():
		p := hundred
		percent = &p
		status = StatusError
		if abs.LessThanOrEqual(tol.Absolute) {
			status = StatusOK
		}
	default:
		p := percentOf(abs, decimal.Max(a.Abs(), b.Abs()))
		percent = &p
		status = tol.Classify(abs, p)
	}

	return Result{
		Check:             check.Name,
		LabelA:            check.LabelA,
		LabelB:            check.LabelB,
		ValueA:            &a,
		ValueB:            &b,
		Difference:        diff,
		PercentDifference: percent,
		Status:            status,
		Severity:          status.Severity(),
		Explanation:       explain(check, a, b, diff, percent, status),
		LegalReference:    check.LegalReference,
	}
}

// ReconcileOptional is Reconcile for values that may be absent. A nil side yields a
// no_data result naming the missing value instead of comparing against zero.
func ReconcileOptional(check Check, a, b *decimal.Decimal) Result {
	if a != nil && b != nil {
		return Reconcile(check, *a, *b)
	}

	var missing []string
	if a == nil {
		missing = append(missing, check.LabelA)
	}
	if b == nil {
		missing = append(missing, check.LabelB)
	}

	explanation := fmt.Sprintf("%s karşılaştırması yapılamadı: %s için veri yok", check.Name, joinLabels(missing))

	return Result{
		Check:          check.Name,
		LabelA:         check.LabelA,
		LabelB:         check.LabelB,
		ValueA:         a,
		ValueB:         b,
		Status:         StatusNoData,
		Severity:       StatusNoData.Severity(),
		Explanation:    explanation,
		LegalReference: check.LegalReference,
	}
}

// Compare reconciles two anonymous values; the labels default to "A" and "B".
func Compare(name string, a, b decimal.Decimal, tol Tolerance) Result {
	return Reconcile(Check{Name: name, LabelA: "A", LabelB: "B", Tolerance: tol}, a, b)
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	return part.Div(whole).Mul(hundred).Round(4)
}

func explain(check Check, a, b, diff decimal.Decimal, percent *decimal.Decimal, status Status) string {
	if diff.IsZero() {
		return fmt.Sprintf("%s (%s TL) ile %s (%s TL) uyumlu",
			check.LabelA, ledger.FormatAmount(a), check.LabelB, ledger.FormatAmount(b))
	}

	pct := "tanımsız"
	if percent != nil {
		pct = "%" + formatPercent(*percent)
	}

	return fmt.Sprintf("%s (%s TL) ile %s (%s TL) arasında %s TL fark var (%s); durum: %s",
		check.LabelA, ledger.FormatAmount(a), check.LabelB, ledger.FormatAmount(b),
		signedAmount(diff), pct, status.Turkish())
}

func signedAmount(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + ledger.FormatAmount(d)
	}
	return ledger.FormatAmount(d)
}

func formatPercent(p decimal.Decimal) string {
	s := p.StringFixed(2)
	out := []byte(s)
	for i := range out {
		if out[i] == '.' {
			out[i] = ','
		}
	}
	return string(out)
}

func joinLabels(labels []string) string {
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	default:
		return labels[0] + " ve " + labels[1]
	}
}
