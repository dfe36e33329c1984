package reconcile

import (
	"github.com/shopspring/decimal"
)

// Names of the built-in checks.
const (
	CheckVATCalculated = "vat_calculated"
	CheckVATDeductible = "vat_deductible"
	CheckWithholding   = "withholding"
	CheckBankBalance   = "bank_balance"
	CheckRevenueTrend  = "revenue_trend"
)

// DefaultChecks returns the comparisons run for every client and period.
// A fresh slice is returned on every call.
func DefaultChecks() []Check {
	return []Check{
		{
			Name:           CheckVATCalculated,
			LabelA:         "Mizan 391 Hesaplanan KDV",
			LabelB:         "KDV beyannamesi hesaplanan KDV",
			LegalReference: "3065 sayılı KDV Kanunu md. 41",
			Tolerance:      DefaultTolerance,
		},
		{
			Name:           CheckVATDeductible,
			LabelA:         "Mizan 191 İndirilecek KDV",
			LabelB:         "KDV beyannamesi indirilecek KDV",
			LegalReference: "3065 sayılı KDV Kanunu md. 29",
			Tolerance:      DefaultTolerance,
		},
		{
			Name:           CheckWithholding,
			LabelA:         "Mizan 360 Ödenecek Vergi ve Fonlar",
			LabelB:         "Muhtasar beyanname tevkifat toplamı",
			LegalReference: "193 sayılı GVK md. 94",
			Tolerance:      DefaultTolerance,
		},
		{
			Name:      CheckBankBalance,
			LabelA:    "Mizan 102 Bankalar",
			LabelB:    "Banka ekstresi dönem sonu bakiyesi",
			Tolerance: DefaultTolerance,
		},
		{
			Name:   CheckRevenueTrend,
			LabelA: "Cari dönem 600 Yurtiçi Satışlar",
			LabelB: "Önceki dönem 600 Yurtiçi Satışlar",
			Tolerance: Tolerance{
				Absolute:     decimal.NewFromInt(1000),
				WarnPercent:  decimal.NewFromInt(25),
				ErrorPercent: decimal.NewFromInt(50),
			},
		},
	}
}

// ValidateChecks verifies a set of checks: names must be unique and non-empty and
// every tolerance band must be well formed.
func ValidateChecks(checks []Check) error {
	seen := make(map[string]bool, len(checks))
	for _, c := range checks {
		switch {
		case c.Name == "":
			return NewInvalidCheckError(c.Name, "empty name")
		case seen[c.Name]:
			return NewInvalidCheckError(c.Name, "duplicate name")
		}
		seen[c.Name] = true

		if err := c.Tolerance.Validate(); err != nil {
			return NewInvalidCheckError(c.Name, err.Error())
		}
	}
	return nil
}
