package pager

import (
	"errors"
	"fmt"
)

var (
	// ErrSkipped reports a call ignored because its preconditions did not hold:
	// a fetch is already in flight or the list has no more data. It is routine
	// and should not be shown to users as a failure.
	ErrSkipped = errors.New("pager: skipped")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("pager: controller closed")
)

// Op names the controller operation that dispatched a fetch.
type Op string

const (
	OpLoadNext Op = "load next"
	OpRefresh  Op = "refresh"
)

// SourceError wraps a failure returned by the page source.
type SourceError struct {
	Op   Op
	Page int
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s page %d: %v", e.Op, e.Page, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// IsSourceError reports whether err carries a page source failure.
func IsSourceError(err error) bool {
	var se *SourceError
	return errors.As(err, &se)
}
