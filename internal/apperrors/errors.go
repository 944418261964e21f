// Package apperrors defines the error kinds returned by the core services.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned when no caller identity is present.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the caller is not authorized for the target.
	// It is also used to mask not-found for owner-only lookups so callers cannot
	// probe for resource existence.
	ErrForbidden = errors.New("you do not have rights to manage this resource")
	// ErrNotFound is returned when a public lookup target is absent or unpublished.
	ErrNotFound = errors.New("not found")
	// ErrTaken is returned on a uniqueness violation, whether caught by the
	// pre-check or by the database constraint.
	ErrTaken = errors.New("already taken")
	// ErrInvalid is returned for malformed input.
	ErrInvalid = errors.New("invalid value")
	// ErrInvalidParent is returned when a comment references a parent that does
	// not exist or is attached to a different content unit. It is a kind of
	// ErrInvalid so handlers treat both the same way.
	ErrInvalidParent = fmt.Errorf("%w: parent comment not found on this content unit", ErrInvalid)
)

// FieldError attaches the field at fault to an error kind so the API can tell
// the client which input to highlight.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Invalid returns ErrInvalid annotated with the field at fault and a reason.
func Invalid(field, reason string) error {
	return &FieldError{Field: field, Err: fmt.Errorf("%w: %s", ErrInvalid, reason)}
}

// Taken returns ErrTaken annotated with the field at fault.
func Taken(field string) error {
	return &FieldError{Field: field, Err: ErrTaken}
}

// Field extracts the field name from an error, if it carries one.
func Field(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}
