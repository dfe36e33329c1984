// Package output provides styling and layout helpers for terminal reports.
package output

import (
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Styles renders text for one writer. Colours are dropped automatically when the
// writer is not a colour terminal.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates Styles for the given writer.
func NewStyles(w io.Writer) *Styles {
	return &Styles{output: termenv.NewOutput(w)}
}

// Plain returns Styles that never emit escape sequences.
func Plain(w io.Writer) *Styles {
	return &Styles{output: termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))}
}

func (s *Styles) fg(text, color string, bold bool) string {
	st := s.output.String(text).Foreground(s.output.Color(color))
	if bold {
		st = st.Bold()
	}
	return st.String()
}

// Success is green and bold.
func (s *Styles) Success(text string) string { return s.fg(text, "2", true) }

// Error is red and bold.
func (s *Styles) Error(text string) string { return s.fg(text, "1", true) }

// Warning is yellow and bold.
func (s *Styles) Warning(text string) string { return s.fg(text, "3", true) }

// Account styles an account code (yellow).
func (s *Styles) Account(text string) string { return s.fg(text, "3", false) }

// Amount styles a money amount (magenta).
func (s *Styles) Amount(text string) string { return s.fg(text, "5", false) }

// FilePath styles a path (cyan).
func (s *Styles) FilePath(text string) string { return s.fg(text, "6", false) }

// Keyword returns bold text.
func (s *Styles) Keyword(text string) string {
	return s.output.String(text).Bold().String()
}

// Dim returns faint text for secondary information.
func (s *Styles) Dim(text string) string {
	return s.output.String(text).Faint().String()
}

// Timing dims fast durations and colours slow ones red.
func (s *Styles) Timing(text string, isSlowOperation bool) string {
	if isSlowOperation {
		return s.fg(text, "1", false)
	}
	return s.Dim(text)
}

// Severity colours text by a severity, status or risk level name: critical, high and
// error are red, medium and warning yellow, ok and low green, anything else dim.
func (s *Styles) Severity(level, text string) string {
	switch strings.ToLower(level) {
	case "critical", "error":
		return s.fg(text, "1", true)
	case "high":
		return s.fg(text, "1", false)
	case "medium", "warning":
		return s.fg(text, "3", false)
	case "ok", "low":
		return s.fg(text, "2", false)
	default:
		return s.Dim(text)
	}
}

// Output returns the underlying termenv output.
func (s *Styles) Output() *termenv.Output {
	return s.output
}
