// Package validation provides a typed per-field validation result.
//
// Controllers return *Error instead of letting constraint violations reach
// the persistence layer, so handlers can re-render forms with field messages.
package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Error carries validation messages keyed by field name.
type Error struct {
	Fields map[string][]string
}

// NewError creates an empty validation error.
func NewError() *Error {
	return &Error{Fields: make(map[string][]string)}
}

// Add records a message for a field.
func (e *Error) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors reports whether any field message was recorded.
func (e *Error) HasErrors() bool {
	return len(e.Fields) > 0
}

// ErrOrNil returns the error itself when it has messages, nil otherwise.
func (e *Error) ErrOrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
