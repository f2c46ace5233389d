// Package emaillog loads the classified email log from a delimited file.
package emaillog

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn reports a header without one of the required columns.
	ErrMissingColumn = errors.New("missing column")
	// ErrMalformed reports a row that cannot be turned into a record.
	ErrMalformed = errors.New("malformed row")
)

// ParseError locates a failure inside the log file.
type ParseError struct {
	Path   string
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Line)
	}
	if e.Column != "" {
		return fmt.Sprintf("%s: column %s: %v", loc, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: %v", loc, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
