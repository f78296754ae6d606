package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")

	ErrEmailTaken            = errors.New("email already registered")
	ErrInvitationPending     = errors.New("an invitation is already pending for this email")
	ErrInvitationAlreadyUsed = errors.New("invitation has already been used")
	ErrSubdomainTaken        = errors.New("subdomain already taken")
	ErrAlreadyBootstrapped   = errors.New("system already bootstrapped")

	ErrInvitationNotFound = errors.New("invalid invitation")
	ErrInvitationExpired  = errors.New("invitation has expired")
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrUserNotFound       = errors.New("user not found")

	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")

	// ErrUnavailable reports a failing dependency (store, random source).
	// The wrapped cause is for logs only.
	ErrUnavailable = errors.New("service temporarily unavailable, try again later")
)

// ValidationError names the offending input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
