// Package middleware provides gin middleware shared by every route: panic
// recovery, session owner ids, request body validation and rate limiting.
package middleware

import (
	"errors"
	"net/http"

	contextutils "studyapp/internal/utils"

	"github.com/gin-gonic/gin"
)

// HandleAppError handles any AppError and sends appropriate HTTP response
func HandleAppError(c *gin.Context, err error) {
	var appErr *contextutils.AppError
	if errors.As(err, &appErr) {
		StandardizeAppError(c, appErr)
		return
	}
	// Fallback for non-AppError types
	StandardizeAppError(c, contextutils.NewAppErrorWithCause(
		contextutils.ErrorCodeInternalError,
		contextutils.SeverityError,
		"Internal server error",
		err.Error(),
		err,
	))
}

// StandardizeAppError sends a structured error response using AppError
func StandardizeAppError(c *gin.Context, err *contextutils.AppError) {
	_ = c.Error(err)
	errorJSON := err.ToJSON()
	errorJSON["retryable"] = contextutils.IsRetryable(err)
	if lang := c.GetHeader("Accept-Language"); lang != "" {
		errorJSON["localized_message"] = contextutils.GetLocalizedMessage(err.Code, contextutils.ParseLocale(lang))
	}
	c.JSON(HTTPStatus(err.Code), errorJSON)
}

// ServiceUnavailable sends a 503 Service Unavailable error with a standardized payload
func ServiceUnavailable(c *gin.Context, msg string) {
	StandardizeAppError(c, contextutils.NewAppError(
		contextutils.ErrorCodeServiceUnavailable,
		contextutils.SeverityError,
		msg,
		"",
	))
}

// HTTPStatus maps AppError codes to HTTP status codes
func HTTPStatus(code contextutils.ErrorCode) int {
	switch code {
	// 4xx Client Errors
	case contextutils.ErrorCodeInvalidInput, contextutils.ErrorCodeMissingRequired,
		contextutils.ErrorCodeInvalidFormat, contextutils.ErrorCodeValidationFailed:
		return http.StatusBadRequest

	case contextutils.ErrorCodeRecordNotFound, contextutils.ErrorCodeTabNotFound:
		return http.StatusNotFound

	case contextutils.ErrorCodeRateLimit:
		return http.StatusTooManyRequests

	case contextutils.ErrorCodeTimeout:
		return http.StatusRequestTimeout

	// 5xx Server Errors
	case contextutils.ErrorCodeServiceUnavailable, contextutils.ErrorCodeDatabaseConnection,
		contextutils.ErrorCodeContentUnavailable, contextutils.ErrorCodeSpeechUnavailable:
		return http.StatusServiceUnavailable

	case contextutils.ErrorCodeDatabaseQuery, contextutils.ErrorCodeInternalError:
		return http.StatusInternalServerError

	// Default to internal server error for unknown codes
	default:
		return http.StatusInternalServerError
	}
}
