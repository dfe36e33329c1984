package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mizanlab/mizan/ledger"
	"github.com/mizanlab/mizan/loader"
	"github.com/mizanlab/mizan/risk"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders errors with terminal styling and source context.
type ErrorRenderer struct {
	source []byte
}

// NewErrorRenderer creates a renderer. source is used as context for parse errors
// in the input itself (stdin); other files are read from disk on demand.
func NewErrorRenderer(source []byte) *ErrorRenderer {
	return &ErrorRenderer{source: source}
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	var parseErr *loader.ParseError
	if errors.As(err, &parseErr) && parseErr.Line > 0 {
		source := r.sourceFor(parseErr.File)
		if source != nil {
			return r.renderWithSourceContext(parseErr.Line, err.Error(), source)
		}
	}

	var accountErr *ledger.InvalidAccountError
	if errors.As(err, &accountErr) {
		a := accountErr.GetAccount()
		line := fmt.Sprintf("%s  %s  borç %s  alacak %s  borç bakiye %s  alacak bakiye %s",
			a.Code, a.Name,
			ledger.FormatAmount(a.DebitTotal), ledger.FormatAmount(a.CreditTotal),
			ledger.FormatAmount(a.DebitBalance), ledger.FormatAmount(a.CreditBalance))
		return r.renderWithContext(err.Error(), line)
	}

	var ruleErr *ledger.InvalidRuleError
	if errors.As(err, &ruleErr) {
		rule := ruleErr.GetRule()
		line := fmt.Sprintf("%s  %s  %s  %s", rule.CodePrefix, rule.Name, rule.Direction, rule.Group)
		return r.renderWithContext(err.Error(), line)
	}

	var unknownErr *risk.UnknownSignalError
	if errors.As(err, &unknownErr) {
		return r.renderWithContext(err.Error(), strings.Join(unknownErr.GetSignals(), ", "))
	}

	return err.Error()
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(r.Render(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

// Flatten expands the aggregate error types into their parts.
func Flatten(err error) []error {
	var ledgerErrs *ledger.ValidationErrors
	if errors.As(err, &ledgerErrs) {
		return ledgerErrs.Errors
	}
	var riskErrs *risk.ValidationErrors
	if errors.As(err, &riskErrs) {
		return riskErrs.Errors
	}
	return []error{err}
}

func (r *ErrorRenderer) sourceFor(file string) []byte {
	if file == "<stdin>" || file == "" {
		return r.source
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil
	}
	return data
}

// renderWithSourceContext shows up to two lines either side of the offending
// line, which is marked with a caret.
func (r *ErrorRenderer) renderWithSourceContext(line int, message string, sourceContent []byte) string {
	var buf strings.Builder

	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")

	sourceLines := strings.Split(strings.ReplaceAll(string(sourceContent), "\r\n", "\n"), "\n")

	startLine := line - 3
	endLine := line + 1

	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(sourceLines) {
		endLine = len(sourceLines) - 1
	}

	for i := startLine; i <= endLine; i++ {
		marker := "   "
		if i == line-1 {
			marker = errCaretStyle.Render(" > ")
		}
		buf.WriteString(marker)
		buf.WriteString(errContextStyle.Render(sourceLines[i]))
		buf.WriteByte('\n')

		if i == line-1 {
			buf.WriteString("   ")
			buf.WriteString(errCaretStyle.Render("^"))
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

func (r *ErrorRenderer) renderWithContext(message, context string) string {
	if context == "" {
		return message
	}

	var buf strings.Builder

	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")
	buf.WriteString("   ")
	buf.WriteString(errContextStyle.Render(context))
	buf.WriteByte('\n')

	return buf.String()
}
