package errors

import (
	"errors"
	"fmt"
)

// Common error types for the session token service
var (
	// Configuration errors - fatal at startup
	ErrMissingSecretKey = errors.New("missing or empty secret key")

	// Crypto errors - surfaced to callers as a generic failure
	ErrRandomSource   = errors.New("random source failure")
	ErrSigningFailure = errors.New("token signing failure")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// General errors
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
