package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	// ErrorTypeUnconfigured means no credential record exists for the user;
	// recoverable by completing credential setup.
	ErrorTypeUnconfigured ErrorType = "unconfigured"
	// ErrorTypeInvalidCredentials means the stored credentials were rejected
	// by AWS (bad access key or signature).
	ErrorTypeInvalidCredentials ErrorType = "invalid_credentials"
	// ErrorTypeExpiredCredentials means the session token has expired.
	ErrorTypeExpiredCredentials ErrorType = "expired_credentials"
	// ErrorTypeForbidden means the credentials are valid but not authorized
	// for the attempted operation.
	ErrorTypeForbidden ErrorType = "forbidden"
	// ErrorTypeConsentRequired means the action is metered and the user has
	// not opted in; recoverable by re-submitting with explicit consent.
	ErrorTypeConsentRequired ErrorType = "consent_required"

	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypeExternal   ErrorType = "external"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	// Credential failures, surfaced to action wrappers through a single taxonomy
	ErrCredentialsUnconfigured = NewDomainError(ErrorTypeUnconfigured, "AWS credentials not configured", nil)
	ErrCredentialsInvalid      = NewDomainError(ErrorTypeInvalidCredentials, "AWS rejected the stored credentials", nil)
	ErrCredentialsExpired      = NewDomainError(ErrorTypeExpiredCredentials, "AWS session token expired", nil)
	ErrCredentialsForbidden    = NewDomainError(ErrorTypeForbidden, "AWS denied authorization for the operation", nil)

	// Consent
	ErrConsentRequired = NewDomainError(ErrorTypeConsentRequired, "explicit consent required for metered action", nil)

	// Validation Errors
	ErrInvalidInput            = NewDomainError(ErrorTypeValidation, "invalid input", nil)
	ErrUnknownCategory         = NewDomainError(ErrorTypeValidation, "unknown action category", nil)
	ErrUnknownNotificationType = NewDomainError(ErrorTypeValidation, "unknown notification type", nil)

	// Not Found Errors
	ErrLegacyPreferenceNotFound = NewDomainError(ErrorTypeNotFound, "legacy preference not found", nil)

	// Internal Errors
	ErrInternal      = NewDomainError(ErrorTypeInternal, "internal server error", nil)
	ErrDatabaseError = NewDomainError(ErrorTypeInternal, "database error", nil)

	// External Provider Errors
	ErrProviderUnavailable = NewDomainError(ErrorTypeExternal, "cloud provider unavailable", nil)
	ErrProviderTimeout     = NewDomainError(ErrorTypeExternal, "cloud provider timeout", nil)
	ErrProviderError       = NewDomainError(ErrorTypeExternal, "cloud provider error", nil)
)

// Error type checking helper functions

// IsUnconfiguredError checks if an error is a missing-credentials error
func IsUnconfiguredError(err error) bool {
	return GetErrorType(err) == ErrorTypeUnconfigured
}

// IsCredentialError checks if an error belongs to the credential failure
// taxonomy (unconfigured, invalid, expired, forbidden)
func IsCredentialError(err error) bool {
	switch GetErrorType(err) {
	case ErrorTypeUnconfigured, ErrorTypeInvalidCredentials, ErrorTypeExpiredCredentials, ErrorTypeForbidden:
		return true
	}
	return false
}

// IsConsentRequiredError checks if an error is a consent-required error
func IsConsentRequiredError(err error) bool {
	return GetErrorType(err) == ErrorTypeConsentRequired
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return GetErrorType(err) == ErrorTypeNotFound
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeInternal
}

// IsExternalError checks if an error is an external provider error
func IsExternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeExternal
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// ErrorKind returns the wire-format error kind for the credential failure
// contract consumed by every action wrapper. Empty for non-credential errors.
func ErrorKind(err error) string {
	switch GetErrorType(err) {
	case ErrorTypeUnconfigured:
		return "UNCONFIGURED"
	case ErrorTypeInvalidCredentials:
		return "INVALID"
	case ErrorTypeExpiredCredentials:
		return "EXPIRED"
	case ErrorTypeForbidden:
		return "FORBIDDEN"
	default:
		return ""
	}
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}

// WrapExternal wraps an error as an external provider error
func WrapExternal(message string, err error) error {
	return NewDomainError(ErrorTypeExternal, message, err)
}
