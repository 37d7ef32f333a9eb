package unifai

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation, streaming and client operations.
// All use prefix "unifai:" for identification. Callers should use errors.Is/errors.As.
var (
	ErrConstraintViolation   = errors.New("unifai: value violates constraint")
	ErrStreamEmpty           = errors.New("unifai: stream completed but no chunks were produced")
	ErrStreamNotExhausted    = errors.New("unifai: stream not exhausted, consume all chunks before reading output")
	ErrStreamClosed          = errors.New("unifai: stream closed")
	ErrStreamingNotSupported = errors.New("unifai: streaming not supported by model")
	ErrUnsupportedCapability = errors.New("unifai: capability not supported by model")
	ErrUnsupportedParameter  = errors.New("unifai: parameter not supported by model")
	ErrModelNotFound         = errors.New("unifai: model not found")
)

// ConstraintError wraps ErrConstraintViolation with the parameter name and offending value.
// Use errors.Is(err, ErrConstraintViolation) and errors.As(err, &constraintErr) to inspect.
type ConstraintError struct {
	Parameter string // empty when the constraint was called outside a parameter table
	Value     any
	Reason    string
}

// Error implements error.
func (e *ConstraintError) Error() string {
	if e.Parameter == "" {
		return "unifai: " + e.Reason
	}
	return fmt.Sprintf("unifai: parameter %q: %s", e.Parameter, e.Reason)
}

// Unwrap returns ErrConstraintViolation for errors.Is.
func (e *ConstraintError) Unwrap() error { return ErrConstraintViolation }

// Violationf builds a ConstraintError for value with a formatted reason.
func Violationf(value any, format string, args ...any) *ConstraintError {
	return &ConstraintError{Value: value, Reason: fmt.Sprintf(format, args...)}
}

// WithParameter returns a copy of err bound to the parameter name.
// Non-ConstraintError errors are returned unchanged.
func WithParameter(err error, name string) error {
	var ce *ConstraintError
	if !errors.As(err, &ce) {
		return err
	}
	cp := *ce
	cp.Parameter = name
	return &cp
}

// UnsupportedParameterError reports a parameter the model does not declare.
type UnsupportedParameterError struct {
	Parameter string
	ModelID   string
}

// Error implements error.
func (e *UnsupportedParameterError) Error() string {
	return fmt.Sprintf("unifai: parameter %q is not supported by model %q", e.Parameter, e.ModelID)
}

// Unwrap returns ErrUnsupportedParameter for errors.Is.
func (e *UnsupportedParameterError) Unwrap() error { return ErrUnsupportedParameter }

// Compile-time checks that the typed errors implement error.
var (
	_ error = (*ConstraintError)(nil)
	_ error = (*UnsupportedParameterError)(nil)
)
