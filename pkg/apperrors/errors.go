package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError signals malformed input rejected by a value-object
// constructor. The caller can recover by supplying corrected input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// NewValidation builds a ValidationError for the given field.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError signals a uniqueness violation (email or username already in
// use). The caller must choose different identifying fields.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

func NewConflict(reason string) *ConflictError {
	return &ConflictError{Reason: reason}
}

// DomainError signals an invariant violation inside an aggregate. It points at
// a programming error in the caller, not at bad user input.
type DomainError struct {
	Reason string
}

func (e *DomainError) Error() string { return e.Reason }

func NewDomain(reason string) *DomainError {
	return &DomainError{Reason: reason}
}

// StoreError wraps an infrastructure failure from a backing store. The
// original cause is preserved for errors.Is/As; no retry happens here.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func NewStore(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// Predicates used by the HTTP layer to map errors onto status codes.

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsDomain(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
