// services/errors.go
package services

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned (wrapped in a *NotFoundError) when a well-formed query
// matches nothing. It is a terminal result, not a failure.
var ErrNotFound = errors.New("no matching movies")

// NotFoundError carries the query that matched nothing so callers can echo it.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %s", ErrNotFound, e.Query)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidYearError is returned when user-supplied year text is not an integer.
type InvalidYearError struct {
	Text string
}

func (e *InvalidYearError) Error() string {
	return fmt.Sprintf("invalid year %q", e.Text)
}
