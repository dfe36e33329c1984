package risk

import (
	"fmt"
	"strings"
)

// InvalidWeightError is returned when a weight table is malformed. It is a
// configuration defect, never a runtime data problem.
type InvalidWeightError struct {
	Domain string
	Signal string // empty for table-level problems
	Reason string
}

func (e *InvalidWeightError) Error() string {
	if e.Signal == "" {
		return fmt.Sprintf("weight table %q: %s", e.Domain, e.Reason)
	}
	return fmt.Sprintf("weight table %q, signal %q: %s", e.Domain, e.Signal, e.Reason)
}

// NewInvalidWeightError creates an error for a malformed weight table.
func NewInvalidWeightError(domain, signal, reason string) *InvalidWeightError {
	return &InvalidWeightError{Domain: domain, Signal: signal, Reason: reason}
}

// UnknownSignalError is returned when signals are supplied that a domain's table
// does not define.
type UnknownSignalError struct {
	Domain  string
	Signals []string
}

func (e *UnknownSignalError) Error() string {
	return fmt.Sprintf("domain %q: unknown signals: %s", e.Domain, strings.Join(e.Signals, ", "))
}

func (e *UnknownSignalError) GetSignals() []string {
	return e.Signals
}

// NewUnknownSignalError creates an error for undefined signal names.
func NewUnknownSignalError(domain string, signals []string) *UnknownSignalError {
	return &UnknownSignalError{Domain: domain, Signals: signals}
}

// UnknownDomainError is returned when no table is registered for a domain.
type UnknownDomainError struct {
	Domain string
}

func (e *UnknownDomainError) Error() string {
	return fmt.Sprintf("unknown scoring domain %q", e.Domain)
}

// ValidationErrors wraps multiple configuration errors
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d validation errors occurred: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap returns the underlying errors for error unwrapping
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}
