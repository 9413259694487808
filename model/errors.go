package model

import (
	"errors"
	"fmt"
)

// ValidationError is a bad input or business-rule violation: empty cart,
// missing product, insufficient stock. User-facing, never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundError marks an unknown order, product or category.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NotFoundf(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// TransientConflictError signals that a transaction lost a concurrent write
// race and may safely be retried with a fresh transaction.
type TransientConflictError struct {
	Err error
}

func (e *TransientConflictError) Error() string { return "transient conflict: " + e.Err.Error() }
func (e *TransientConflictError) Unwrap() error { return e.Err }

func IsTransientConflict(err error) bool {
	var tc *TransientConflictError
	return errors.As(err, &tc)
}

// UpstreamError is a failed call to the external payment provider. It aborts
// the surrounding transaction.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *UpstreamError) Unwrap() error { return e.Err }

func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
