// Package common defines shared sentinel errors and small helpers used across
// the Kynetix server layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("user already exists")
	ErrorStorage  = errors.New("storage error")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("invalid credentials")
	ErrorValidation   = errors.New("validation failed")

	// Token errors. Both match ErrorUnauthorized.
	ErrInvalidToken = fmt.Errorf("invalid token: %w", ErrorUnauthorized)
	ErrTokenExpired = fmt.Errorf("token expired: %w", ErrorUnauthorized)
)

// ValidationError carries field-level messages for rejected input.
// It matches ErrorValidation via errors.Is.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError ready for Add calls.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add records a message for field. The first message for a field wins.
func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = msg
}

// Empty reports whether no field was rejected.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
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
	return ErrorValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrorValidation
}
