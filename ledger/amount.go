package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a trial-balance cell to a decimal.Decimal.
// Supports:
//   - plain decimals: "1234567.89"
//   - Turkish grouping: "1.234.567,89"
//   - currency suffixes: "1.234,50 TL", "₺1.234,50"
//   - accounting negatives: "(1.234,50)"
//   - empty cells and "-" as zero
func ParseAmount(value string) (decimal.Decimal, error) {
	s := strings.TrimSpace(value)
	s = strings.TrimSuffix(s, "TL")
	s = strings.TrimSuffix(s, "TRY")
	s = strings.TrimPrefix(s, "₺")
	s = strings.ReplaceAll(s, " ", "")

	if s == "" || s == "-" {
		return decimal.Zero, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	switch {
	case strings.Contains(s, ","):
		// Turkish format: dots group thousands, comma separates decimals
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount value %q: %w", value, err)
	}

	if negative {
		d = d.Neg()
	}
	return d, nil
}

// MustParseAmount is like ParseAmount but panics on error.
// Use only in tests or when you're certain the amount is valid
func MustParseAmount(value string) decimal.Decimal {
	d, err := ParseAmount(value)
	if err != nil {
		panic(err)
	}
	return d
}

// AmountEqual checks if two amounts are equal within tolerance
func AmountEqual(a, b decimal.Decimal, tolerance decimal.Decimal) bool {
	diff := a.Sub(b).Abs()
	return diff.LessThanOrEqual(tolerance)
}

// FormatAmount renders an amount the way Turkish statements print it:
// two decimals, dot thousands separator, comma decimal separator ("-1.234,50").
func FormatAmount(d decimal.Decimal) string {
	return formatAmount(d)
}

func formatAmount(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var buf strings.Builder
	if d.IsNegative() && !d.Round(2).IsZero() {
		buf.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			buf.WriteByte('.')
		}
		buf.WriteRune(r)
	}
	buf.WriteByte(',')
	buf.WriteString(frac)

	return buf.String()
}
