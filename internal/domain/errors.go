package domain

import (
	"errors"
	"fmt"
)

// Warranty errors
var (
	ErrWarrantyNotFound = errors.New("warranty not found")
	ErrNoReceipt        = errors.New("warranty has no receipt")
)

// Transfer errors
var (
	ErrTokenInvalid           = errors.New("transfer link is invalid")
	ErrTokenAlreadyClaimed    = errors.New("transfer link has already been claimed")
	ErrTokenExpired           = errors.New("transfer link has expired")
	ErrCannotClaimOwnWarranty = errors.New("warranty is already owned by this user")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
