// Package contextutils provides error handling utilities and standardized error types
// for consistent error management across the study application.
package contextutils

import (
	"context"
	"fmt"
	"strings"
)

// ErrorCode represents a standardized error code for API responses
type ErrorCode string

const (
	// Database error codes

	// ErrorCodeDatabaseConnection indicates a database connection error
	ErrorCodeDatabaseConnection ErrorCode = "DATABASE_CONNECTION_ERROR"
	// ErrorCodeDatabaseQuery indicates a database query error
	ErrorCodeDatabaseQuery ErrorCode = "DATABASE_QUERY_ERROR"
	// ErrorCodeRecordNotFound indicates that a requested record was not found
	ErrorCodeRecordNotFound ErrorCode = "RECORD_NOT_FOUND"

	// Validation error codes

	// ErrorCodeInvalidInput indicates that the provided input is invalid
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrorCodeMissingRequired indicates that a required field is missing
	ErrorCodeMissingRequired ErrorCode = "MISSING_REQUIRED_FIELD"
	// ErrorCodeInvalidFormat indicates that the input format is invalid
	ErrorCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	// ErrorCodeValidationFailed indicates that validation has failed
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Service error codes

	// ErrorCodeServiceUnavailable indicates that the service is temporarily unavailable
	ErrorCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrorCodeTimeout indicates that a request has timed out
	ErrorCodeTimeout ErrorCode = "REQUEST_TIMEOUT"
	// ErrorCodeRateLimit indicates that the rate limit has been exceeded
	ErrorCodeRateLimit ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrorCodeInternalError indicates an internal server error
	ErrorCodeInternalError ErrorCode = "INTERNAL_SERVER_ERROR"

	// Study content error codes

	// ErrorCodeContentUnavailable indicates that a content document could not be fetched or parsed
	ErrorCodeContentUnavailable ErrorCode = "CONTENT_UNAVAILABLE"
	// ErrorCodeTabNotFound indicates that the requested tab does not exist
	ErrorCodeTabNotFound ErrorCode = "TAB_NOT_FOUND"
	// ErrorCodeSpeechUnavailable indicates that speech synthesis is disabled or failed
	ErrorCodeSpeechUnavailable ErrorCode = "SPEECH_UNAVAILABLE"
)

// SeverityLevel represents the severity of an error for logging and monitoring
type SeverityLevel string

const (
	// SeverityDebug indicates debug-level errors for development
	SeverityDebug SeverityLevel = "debug"
	// SeverityInfo indicates informational errors
	SeverityInfo SeverityLevel = "info"
	// SeverityWarn indicates warning-level errors
	SeverityWarn SeverityLevel = "warn"
	// SeverityError indicates error-level issues
	SeverityError SeverityLevel = "error"
	// SeverityFatal indicates fatal errors that require immediate attention
	SeverityFatal SeverityLevel = "fatal"
)

// AppError represents a structured error with code, severity, and context
type AppError struct {
	Code     ErrorCode
	Severity SeverityLevel
	Message  string
	Details  string
	Cause    error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison for errors.Is
func (e *AppError) Is(target error) bool {
	if appErr, ok := target.(*AppError); ok {
		return e.Code == appErr.Code
	}
	return false
}

// Error types for consistent error handling with associated codes and severity
var (
	// Database errors
	ErrDatabaseConnection = &AppError{
		Code:     ErrorCodeDatabaseConnection,
		Severity: SeverityError,
		Message:  "Database connection failed",
	}

	ErrDatabaseQuery = &AppError{
		Code:     ErrorCodeDatabaseQuery,
		Severity: SeverityError,
		Message:  "Database query failed",
	}

	ErrRecordNotFound = &AppError{
		Code:     ErrorCodeRecordNotFound,
		Severity: SeverityInfo,
		Message:  "Record not found",
	}

	// Validation errors
	ErrInvalidInput = &AppError{
		Code:     ErrorCodeInvalidInput,
		Severity: SeverityWarn,
		Message:  "Invalid input",
	}

	ErrMissingRequired = &AppError{
		Code:     ErrorCodeMissingRequired,
		Severity: SeverityWarn,
		Message:  "Missing required field",
	}

	ErrInvalidFormat = &AppError{
		Code:     ErrorCodeInvalidFormat,
		Severity: SeverityWarn,
		Message:  "Invalid format",
	}

	ErrValidationFailed = &AppError{
		Code:     ErrorCodeValidationFailed,
		Severity: SeverityWarn,
		Message:  "Validation failed",
	}

	// Service errors
	ErrServiceUnavailable = &AppError{
		Code:     ErrorCodeServiceUnavailable,
		Severity: SeverityError,
		Message:  "Service unavailable",
	}

	ErrTimeout = &AppError{
		Code:     ErrorCodeTimeout,
		Severity: SeverityWarn,
		Message:  "Request timeout",
	}

	ErrRateLimit = &AppError{
		Code:     ErrorCodeRateLimit,
		Severity: SeverityWarn,
		Message:  "Rate limit exceeded",
	}

	ErrInternalError = &AppError{
		Code:     ErrorCodeInternalError,
		Severity: SeverityError,
		Message:  "Internal server error",
	}

	// Study content errors
	ErrContentUnavailable = &AppError{
		Code:     ErrorCodeContentUnavailable,
		Severity: SeverityError,
		Message:  "Content unavailable",
	}

	ErrTabNotFound = &AppError{
		Code:     ErrorCodeTabNotFound,
		Severity: SeverityInfo,
		Message:  "Tab not found",
	}

	ErrSpeechUnavailable = &AppError{
		Code:     ErrorCodeSpeechUnavailable,
		Severity: SeverityWarn,
		Message:  "Speech synthesis unavailable",
	}
)

// NewAppError creates a new AppError with the specified code, severity, message and details
func NewAppError(code ErrorCode, severity SeverityLevel, message, details string) *AppError {
	return &AppError{
		Code:     code,
		Severity: severity,
		Message:  message,
		Details:  details,
	}
}

// NewAppErrorWithCause creates a new AppError with an underlying cause
func NewAppErrorWithCause(code ErrorCode, severity SeverityLevel, message, details string, cause error) *AppError {
	return &AppError{
		Code:     code,
		Severity: severity,
		Message:  message,
		Details:  details,
		Cause:    cause,
	}
}

// WrapError wraps an error with additional context, preserving AppError structure if possible
func WrapError(err error, context string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, wrap it with additional details
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:     appErr.Code,
			Severity: appErr.Severity,
			Message:  context,
			Details:  appErr.Error(),
			Cause:    appErr,
		}
	}

	// For regular errors, create a generic internal error wrapper
	return &AppError{
		Code:     ErrorCodeInternalError,
		Severity: SeverityError,
		Message:  context,
		Details:  err.Error(),
		Cause:    err,
	}
}

// WrapErrorf wraps an error with formatted context, preserving AppError structure if possible
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}

	// Handle %w verb for error wrapping by using fmt.Errorf
	if strings.Contains(format, "%w") {
		// Use fmt.Errorf to properly handle %w verb
		wrappedErr := fmt.Errorf(format, args...)

		// If it's already an AppError, wrap it with the formatted message
		if appErr, ok := err.(*AppError); ok {
			return &AppError{
				Code:     appErr.Code,
				Severity: appErr.Severity,
				Message:  wrappedErr.Error(),
				Details:  appErr.Error(),
				Cause:    wrappedErr,
			}
		}

		// For regular errors, wrap with the formatted error
		return &AppError{
			Code:     ErrorCodeInternalError,
			Severity: SeverityError,
			Message:  wrappedErr.Error(),
			Details:  err.Error(),
			Cause:    wrappedErr,
		}
	}

	// If it's already an AppError, wrap it with additional details
	if appErr, ok := err.(*AppError); ok {
		context := fmt.Sprintf(format, args...)
		return &AppError{
			Code:     appErr.Code,
			Severity: appErr.Severity,
			Message:  context,
			Details:  appErr.Error(),
			Cause:    appErr,
		}
	}

	// For regular errors, create a generic internal error wrapper
	context := fmt.Sprintf(format, args...)
	return &AppError{
		Code:     ErrorCodeInternalError,
		Severity: SeverityError,
		Message:  context,
		Details:  err.Error(),
		Cause:    err,
	}
}

// ErrorWithContextf creates a new error with formatted context
func ErrorWithContextf(format string, args ...interface{}) error {
	return &AppError{
		Code:     ErrorCodeInternalError,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
	}
}

// IsError checks if an error matches a specific AppError type
func IsError(err error, target *AppError) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == target.Code
	}
	return false
}

// AsError attempts to convert an error to an AppError
func AsError(err error, target **AppError) bool {
	if appErr, ok := err.(*AppError); ok {
		*target = appErr
		return true
	}
	return false
}

// GetErrorCode returns the error code from an error if it's an AppError, otherwise returns a default code
func GetErrorCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ErrorCodeInternalError
}

// GetErrorSeverity returns the severity level from an error if it's an AppError, otherwise returns error
func GetErrorSeverity(err error) SeverityLevel {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Severity
	}
	return SeverityError
}

// IsRetryable determines if an error should be retried based on its type and severity
func IsRetryable(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		// Only retry certain types of errors that are likely transient
		switch appErr.Code {
		case ErrorCodeTimeout, ErrorCodeServiceUnavailable, ErrorCodeDatabaseConnection, ErrorCodeContentUnavailable:
			return appErr.Severity != SeverityFatal
		}
	}
	return false
}

// GetErrorLocalizedMessage returns a localized message for the error
func GetErrorLocalizedMessage(err error, locale string) string {
	if appErr, ok := err.(*AppError); ok {
		return GetLocalizedMessageWithDetails(appErr.Code, ParseLocale(locale), appErr.Details)
	}
	return "An error occurred"
}

// ToJSON converts an AppError to a JSON-serializable structure for API responses
func (e *AppError) ToJSON() map[string]interface{} {
	result := map[string]interface{}{
		"code":     string(e.Code),
		"message":  e.Message,
		"severity": string(e.Severity),
		"error":    e.Message, // Include error field for backward compatibility
	}

	if e.Details != "" {
		result["details"] = e.Details
	}

	// Add retryable information
	result["retryable"] = IsRetryable(e)

	if e.Cause != nil {
		// Only include cause in debug mode or for certain error types
		switch e.Severity {
		case SeverityError, SeverityFatal:
			result["cause"] = e.Cause.Error()
		}
	}

	return result
}

// ToJSONWithLocale converts an AppError to a JSON-serializable structure with localized messages
func (e *AppError) ToJSONWithLocale(locale string) map[string]interface{} {
	result := e.ToJSON()
	// Replace the message with localized version and update error field too
	localizedMessage := GetLocalizedMessage(e.Code, ParseLocale(locale))
	result["message"] = localizedMessage
	result["error"] = localizedMessage // Keep error field in sync
	return result
}

// ContextKey represents a context key type for passing values through context
type ContextKey string

const (
	// OwnerIDKey is used to store the preference owner (browser session) in context
	OwnerIDKey ContextKey = "ownerID"
)

// GetOwnerIDFromContext extracts the owner ID from context, returning "" if not found
func GetOwnerIDFromContext(ctx context.Context) string {
	if ownerID, ok := ctx.Value(OwnerIDKey).(string); ok {
		return ownerID
	}
	return ""
}

// WithOwnerID returns a new context with the owner ID set
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, OwnerIDKey, ownerID)
}
