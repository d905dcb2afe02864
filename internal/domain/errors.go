package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrDuplicateTrackingCode = errors.New("tracking code already exists")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrSessionExpired        = errors.New("session expired")
	ErrSessionInvalid        = errors.New("session invalid")
	ErrVerifyTimeout         = errors.New("session verification timed out")
	ErrForbidden             = errors.New("insufficient role")
	ErrInvalidTransition     = errors.New("illegal shipment status transition")
	ErrInvalidRequest        = errors.New("invalid request")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the offending fields so callers can report
// exactly what was malformed or missing.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

func NewValidationError(fields []FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}
