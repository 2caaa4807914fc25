package models

import (
	"errors"
	"fmt"
)

// ErrNotFound reports an unknown team id. Aborts the prediction.
var ErrNotFound = errors.New("team not found")

// ValidationError reports a malformed or self-referential request, or a
// non-finite feature value from upstream. Aborts the prediction.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError.
func Validationf(format string, a ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, a...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// TransientError reports a collaborator timeout or temporary unavailability.
// Distinct from ErrNotFound so callers can retry.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err as a TransientError for operation op.
func Transient(op string, err error) *TransientError {
	return &TransientError{Op: op, Err: err}
}

// IsTransient reports whether err is a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
