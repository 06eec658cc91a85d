package errors

import (
	stderrors "errors"
	"net/http"
	"time"
)

// Identity-specific error types
const (
	ErrorTypeInvalidRecoveryCode ErrorType = "invalid_recovery_code"
	ErrorTypeUnknownDevice       ErrorType = "unknown_device"
	ErrorTypeProvisioningFailed  ErrorType = "provisioning_failed"
)

// IdentityError represents identity-flow errors with security context
type IdentityError struct {
	*AppError
	// ShouldLog determines if this error should be logged at error level.
	// Expected failures (wrong recovery code) don't need to clutter logs.
	ShouldLog bool
	// SecurityEvent indicates if this should be tracked as a security event
	SecurityEvent bool
	// RetryAfter is set for rate-limited errors
	RetryAfter time.Duration
}

// Error implements the error interface
func (e *IdentityError) Error() string {
	return e.AppError.Error()
}

// Unwrap allows errors.Is and errors.As to work correctly
func (e *IdentityError) Unwrap() error {
	return e.AppError
}

// NewInvalidRecoveryCodeError covers both unknown-fingerprint and
// hash-mismatch failures with one message, so callers cannot distinguish
// "no such code" from "wrong code".
func NewInvalidRecoveryCodeError() *IdentityError {
	return &IdentityError{
		AppError: &AppError{
			Type:    ErrorTypeInvalidRecoveryCode,
			Message: "Invalid recovery code",
			Code:    http.StatusUnauthorized,
		},
		ShouldLog:     false,
		SecurityEvent: true,
	}
}

// NewRateLimitedError creates an error for throttled restore attempts
func NewRateLimitedError(retryAfter time.Duration) *IdentityError {
	return &IdentityError{
		AppError: &AppError{
			Type:    ErrorTypeRateLimited,
			Message: "Too many attempts, please try again later",
			Code:    http.StatusTooManyRequests,
		},
		ShouldLog:     false,
		SecurityEvent: true,
		RetryAfter:    retryAfter,
	}
}

// NewUnknownDeviceError signals a device identifier the server no longer
// recognizes. The client must treat this as lost device context, not as
// an invitation to provision.
func NewUnknownDeviceError() *IdentityError {
	return &IdentityError{
		AppError: &AppError{
			Type:    ErrorTypeUnknownDevice,
			Message: "Unknown device",
			Code:    http.StatusNotFound,
		},
		ShouldLog: false,
	}
}

// NewProvisioningFailedError hides store-level detail behind a generic message
func NewProvisioningFailedError(cause error) *IdentityError {
	detail := ""
	if cause != nil {
		detail = cause.Error()
	}
	return &IdentityError{
		AppError: &AppError{
			Type:    ErrorTypeProvisioningFailed,
			Message: "Failed to provision identity",
			Code:    http.StatusInternalServerError,
			Details: detail,
		},
		ShouldLog: true,
	}
}

// IsRateLimited reports whether err is a rate-limited identity error
func IsRateLimited(err error) (time.Duration, bool) {
	var identityErr *IdentityError
	if stderrors.As(err, &identityErr) && identityErr.Type == ErrorTypeRateLimited {
		return identityErr.RetryAfter, true
	}
	return 0, false
}

// GetIdentityError extracts an IdentityError from err, or nil
func GetIdentityError(err error) *IdentityError {
	var identityErr *IdentityError
	if stderrors.As(err, &identityErr) {
		return identityErr
	}
	return nil
}
