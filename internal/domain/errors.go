// Package domain defines core types, interfaces, and errors for the tenant core.
package domain

import "fmt"

// AuthenticationErrorKind classifies authentication failures.
type AuthenticationErrorKind string

const (
	// AuthUnknownIdentity means the external identity reference has no
	// principal mapping. The core never auto-provisions on first login.
	AuthUnknownIdentity AuthenticationErrorKind = "unknown_identity"
	// AuthInvalidToken means the upstream credential could not be parsed
	// or verified.
	AuthInvalidToken AuthenticationErrorKind = "invalid_token"
)

// AuthenticationError indicates an unknown or unverifiable identity.
// Fatal to the request, not retried.
type AuthenticationError struct {
	Kind    AuthenticationErrorKind
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// ScopeNotFoundError indicates a malformed or missing scope identifier, or a
// workspace whose parent organization cannot be resolved. Raised before any
// authorization decision.
type ScopeNotFoundError struct {
	Message string
}

func (e *ScopeNotFoundError) Error() string { return e.Message }

// ConfigConflictError indicates a module override attempted to widen
// enablement beyond its parent layer. Enforced at write time.
type ConfigConflictError struct {
	Message string
}

func (e *ConfigConflictError) Error() string { return e.Message }

// StoreUnavailableError indicates a backing lookup could not complete.
// Propagated verbatim, never treated as an Allow or Deny.
type StoreUnavailableError struct {
	Message string
	Err     error
}

func (e *StoreUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// AccessDeniedError indicates insufficient permissions.
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string { return e.Message }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError indicates a conflict (e.g., duplicate resource).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// ErrAuthentication creates an AuthenticationError with a formatted message.
func ErrAuthentication(kind AuthenticationErrorKind, format string, args ...interface{}) *AuthenticationError {
	return &AuthenticationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ErrScopeNotFound creates a ScopeNotFoundError with a formatted message.
func ErrScopeNotFound(format string, args ...interface{}) *ScopeNotFoundError {
	return &ScopeNotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrConfigConflict creates a ConfigConflictError with a formatted message.
func ErrConfigConflict(format string, args ...interface{}) *ConfigConflictError {
	return &ConfigConflictError{Message: fmt.Sprintf(format, args...)}
}

// ErrStoreUnavailable wraps a failed store read.
func ErrStoreUnavailable(err error, format string, args ...interface{}) *StoreUnavailableError {
	return &StoreUnavailableError{Message: fmt.Sprintf(format, args...), Err: err}
}

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrAccessDenied creates an AccessDeniedError with a formatted message.
func ErrAccessDenied(format string, args ...interface{}) *AccessDeniedError {
	return &AccessDeniedError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}
