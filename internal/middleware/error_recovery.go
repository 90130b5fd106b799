package middleware

import (
	"fmt"
	"runtime/debug"

	"studyapp/internal/observability"
	contextutils "studyapp/internal/utils"

	"github.com/gin-gonic/gin"
)

// ErrorRecoveryMiddleware turns a panic in a later handler into a logged
// 500 JSON response.
func ErrorRecoveryMiddleware(logger *observability.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = observability.NewNopLogger()
	}

	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			stackTrace := string(debug.Stack())

			panicErr, ok := rec.(error)
			if !ok {
				panicErr = fmt.Errorf("panic: %v", rec)
			}
			logger.Error(c.Request.Context(), "Panic recovered", panicErr, map[string]interface{}{
				"http.method": c.Request.Method,
				"http.path":   c.Request.URL.Path,
				"stack":       stackTrace,
			})

			appErr := contextutils.NewAppErrorWithCause(
				contextutils.ErrorCodeInternalError,
				contextutils.SeverityFatal,
				"Internal server error",
				"A panic occurred while processing the request",
				panicErr,
			)
			// Add stack trace to error details in development
			if gin.Mode() == gin.DebugMode {
				appErr.Details = fmt.Sprintf("%s\nStack trace: %s", appErr.Details, stackTrace)
			}

			HandleAppError(c, appErr)
			c.Abort()
		}()

		c.Next()
	}
}
