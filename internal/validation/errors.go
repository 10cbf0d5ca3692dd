// Package validation checks caller-supplied arguments before any request is
// made. Every failure is an *ArgumentError naming the offending field and
// value; argument errors are never retried.
package validation

import (
	"errors"
	"fmt"
)

// ArgumentError reports an invalid argument.
type ArgumentError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// IsArgumentError reports whether err is or wraps an *ArgumentError.
func IsArgumentError(err error) bool {
	var argErr *ArgumentError
	return errors.As(err, &argErr)
}

func argErr(field string, value any, format string, args ...any) error {
	return &ArgumentError{Field: field, Value: value, Reason: fmt.Sprintf(format, args...)}
}
