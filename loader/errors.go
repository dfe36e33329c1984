package loader

import (
	"fmt"
)

// ParseError is a problem at a position in an input file. Line is zero when the
// problem concerns the whole file.
type ParseError struct {
	File       string
	Line       int
	Column     string
	Message    string
	Underlying error
}

func (e *ParseError) Error() string {
	location := e.File
	if e.Line > 0 {
		location = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	if e.Column != "" {
		return fmt.Sprintf("%s: column %q: %s", location, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", location, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Underlying
}

// NewParseError creates a parse error for a file position.
func NewParseError(file string, line int, column string, err error) *ParseError {
	return &ParseError{
		File:       file,
		Line:       line,
		Column:     column,
		Message:    err.Error(),
		Underlying: err,
	}
}
