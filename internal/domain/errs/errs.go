package errs

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnauthenticated  = errors.New("authentication required")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// ValidationError carries per-field messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func FieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid data: " + strings.Join(parts, "; ")
}

func IsValidation(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	ok := errors.As(err, &vErr)
	return vErr, ok
}

// ConflictError reports a uniqueness violation against the field that caused it.
// It matches ErrConflict via errors.Is.
type ConflictError struct {
	Field string
	Msg   string
}

func NewConflict(field, msg string) *ConflictError {
	return &ConflictError{Field: field, Msg: msg}
}

func (e *ConflictError) Error() string {
	return e.Field + ": " + e.Msg
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
