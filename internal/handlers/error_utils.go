package handlers

import (
	"fmt"
	"net/http"

	"studyapp/internal/middleware"
	contextutils "studyapp/internal/utils"

	"github.com/gin-gonic/gin"
)

// StandardizeHTTPError creates consistent HTTP error responses with structured error information
func StandardizeHTTPError(c *gin.Context, statusCode int, message, details string) {
	var errorCode contextutils.ErrorCode
	var severity contextutils.SeverityLevel

	switch statusCode {
	case http.StatusBadRequest:
		errorCode = contextutils.ErrorCodeInvalidInput
		severity = contextutils.SeverityWarn
	case http.StatusNotFound:
		errorCode = contextutils.ErrorCodeRecordNotFound
		severity = contextutils.SeverityInfo
	case http.StatusTooManyRequests:
		errorCode = contextutils.ErrorCodeRateLimit
		severity = contextutils.SeverityWarn
	case http.StatusServiceUnavailable:
		errorCode = contextutils.ErrorCodeServiceUnavailable
		severity = contextutils.SeverityError
	default:
		errorCode = contextutils.ErrorCodeInternalError
		severity = contextutils.SeverityError
	}

	appErr := contextutils.NewAppError(errorCode, severity, message, details)

	_ = c.Error(appErr)
	c.JSON(statusCode, appErr.ToJSON())
}

// HandleValidationError handles input validation errors consistently
func HandleValidationError(c *gin.Context, field string, value interface{}, reason string) {
	appErr := contextutils.NewAppError(
		contextutils.ErrorCodeInvalidInput,
		contextutils.SeverityWarn,
		fmt.Sprintf("Invalid %s", field),
		fmt.Sprintf("Value '%v' is invalid: %s", value, reason),
	)
	middleware.StandardizeAppError(c, appErr)
}

// HandleAppError handles any AppError and sends appropriate HTTP response
func HandleAppError(c *gin.Context, err error) {
	middleware.HandleAppError(c, err)
}
