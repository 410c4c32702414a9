package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStatus is returned for an order status outside the enumerated set.
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrEmptyCart is returned when an order is placed from a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")
)

// ValidationError represents malformed, user-correctable input.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
