package domain

import (
	"errors"
	"fmt"
)

// Error kinds shared by validation, composition and aggregation. Callers
// match them with errors.Is; FieldError carries the offending field.
var (
	ErrEmptyCollection         = errors.New("collection must not be empty")
	ErrUnknownReference        = errors.New("referenced object does not exist")
	ErrDuplicateEntry          = errors.New("entry already exists")
	ErrInvalidAmount           = errors.New("amount must be greater than 0")
	ErrSelfReferenceNotAllowed = errors.New("self reference is not allowed")
	ErrMissingRequiredField    = errors.New("required field is missing")
	ErrNotFound                = errors.New("not found")
	ErrInvalidToken            = errors.New("invalid short link token")
	ErrEmptyCart               = errors.New("shopping cart is empty")
	ErrPermissionDenied        = errors.New("permission denied")
	ErrInvalidValue            = errors.New("invalid value")
)

type FieldError struct {
	Field string
	Value any
	Err   error
}

func NewFieldError(field string, value any, err error) *FieldError {
	return &FieldError{Field: field, Value: value, Err: err}
}

func (e *FieldError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v (%v)", e.Field, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// IsClientError reports whether err is a rejected precondition rather than a
// server fault.
func IsClientError(err error) bool {
	for _, kind := range []error{
		ErrEmptyCollection,
		ErrUnknownReference,
		ErrDuplicateEntry,
		ErrInvalidAmount,
		ErrSelfReferenceNotAllowed,
		ErrMissingRequiredField,
		ErrNotFound,
		ErrInvalidToken,
		ErrEmptyCart,
		ErrPermissionDenied,
		ErrInvalidValue,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
