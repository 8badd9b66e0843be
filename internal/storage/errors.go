package storage

import (
	"errors"
	"fmt"
)

// ErrSourceNotFound is returned by a store whose backing file or table does not exist.
var ErrSourceNotFound = errors.New("snapshot source not found")

// ParseError reports a malformed persisted record.
type ParseError struct {
	Line   int
	Field  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("record %d", e.Line)
	if e.Field != "" {
		msg += fmt.Sprintf(" field %q", e.Field)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }
