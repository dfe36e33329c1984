package reconcile

import (
	"fmt"
)

// InvalidToleranceError is returned when a tolerance band is malformed
type InvalidToleranceError struct {
	Tolerance Tolerance
	Reason    string
}

func (e *InvalidToleranceError) Error() string {
	return fmt.Sprintf("invalid tolerance (absolute %s, warn %s%%, error %s%%): %s",
		e.Tolerance.Absolute, e.Tolerance.WarnPercent, e.Tolerance.ErrorPercent, e.Reason)
}

// NewInvalidToleranceError creates an error for a malformed tolerance band.
func NewInvalidToleranceError(t Tolerance, reason string) *InvalidToleranceError {
	return &InvalidToleranceError{Tolerance: t, Reason: reason}
}

// InvalidCheckError is returned when a reconciliation check definition is malformed
type InvalidCheckError struct {
	Name   string
	Reason string
}

func (e *InvalidCheckError) Error() string {
	return fmt.Sprintf("check %q: %s", e.Name, e.Reason)
}

// NewInvalidCheckError creates an error for a malformed check.
func NewInvalidCheckError(name, reason string) *InvalidCheckError {
	return &InvalidCheckError{Name: name, Reason: reason}
}
