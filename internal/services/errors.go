package services

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks caller-supplied data that violates a constraint.
	ErrValidation = errors.New("validation failed")
	// ErrPersistence is the only thing callers learn about a store failure; the
	// cause is logged where it happened.
	ErrPersistence = errors.New("persistence failure")

	ErrProductNotFound    = errors.New("product not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")

	// ErrEmailAlreadyVerified is returned when a verification resend is not needed.
	ErrEmailAlreadyVerified = errors.New("email already verified")
)

// ProductNotFoundError reports a cart line whose product is absent from the catalog.
type ProductNotFoundError struct {
	ProductID uint
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with ID %d not found", e.ProductID)
}

// Is lets errors.Is(err, ErrProductNotFound) match.
func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

func validationErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// IsClientError reports whether err was caused by the caller's input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrProductNotFound)
}
