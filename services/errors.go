package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknown wraps failures the caller should only see as a generic error.
var ErrUnknown = errors.New("internal server error")

// ValidationError rejects a request before any processing happens.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, ", ") + ")"
}

func newValidationError(msg string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: msg, Fields: fields}
}

// NotFoundError signals that an anchor entity is missing.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found for %s", e.Entity, e.Key)
}

// unknown hides err behind ErrUnknown while keeping it in the chain for
// logging.
func unknown(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnknown, err)
}
