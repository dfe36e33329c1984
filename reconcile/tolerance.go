package reconcile

import (
	"github.com/shopspring/decimal"
)

// Tolerance is the band separating "matches", "warns" and "fails".
type Tolerance struct {
	// Absolute differences up to this amount always match.
	Absolute decimal.Decimal `json:"absolute" yaml:"absolute" toml:"absolute"`
	// WarnPercent is the smallest percent difference that raises a warning.
	WarnPercent decimal.Decimal `json:"warn_percent" yaml:"warn_percent" toml:"warn_percent"`
	// Percent differences above ErrorPercent raise an error.
	ErrorPercent decimal.Decimal `json:"error_percent" yaml:"error_percent" toml:"error_percent"`
}

// DefaultTolerance is used by checks that do not set their own band.
var DefaultTolerance = Tolerance{
	Absolute:     decimal.NewFromInt(100),
	WarnPercent:  decimal.NewFromInt(1),
	ErrorPercent: decimal.NewFromInt(10),
}

// Classify returns the status for an absolute difference and its percent.
// A percent equal to WarnPercent is already a warning, and one equal to
// ErrorPercent is still a warning.
func (t Tolerance) Classify(abs, percent decimal.Decimal) Status {
	switch {
	case abs.LessThanOrEqual(t.Absolute):
		return StatusOK
	case percent.LessThan(t.WarnPercent):
		return StatusOK
	case percent.LessThanOrEqual(t.ErrorPercent):
		return StatusWarning
	default:
		return StatusError
	}
}

// Validate checks the band is well formed.
func (t Tolerance) Validate() error {
	switch {
	case t.Absolute.IsNegative():
		return NewInvalidToleranceError(t, "absolute tolerance is negative")
	case t.WarnPercent.IsNegative() || t.ErrorPercent.IsNegative():
		return NewInvalidToleranceError(t, "percent threshold is negative")
	case t.WarnPercent.GreaterThan(t.ErrorPercent):
		return NewInvalidToleranceError(t, "warn percent exceeds error percent")
	}
	return nil
}
