package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrMissingSociety is returned before any network call when the session
	// has no society selected.
	ErrMissingSociety = errors.New("missing_society: select a society first")

	ErrInvalidID       = errors.New("invalid_id")
	ErrUnknownEntity   = errors.New("unknown_entity")
	ErrNotFound        = errors.New("not_found")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// APIError is a non-2xx answer from the upstream society API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream returned %d", e.StatusCode)
}

// ValidationError wraps a failed input check.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	var fieldErrs validator.ValidationErrors
	if errors.As(e.Err, &fieldErrs) {
		parts := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			parts = append(parts, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
		return "validation: " + strings.Join(parts, ", ")
	}
	return "validation: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
