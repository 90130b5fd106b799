package middleware

import (
	"bytes"
	"io"
	"net/http"

	"studyapp/internal/observability"
	contextutils "studyapp/internal/utils"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// MaxRequestBody caps the JSON bodies accepted by validated routes.
const MaxRequestBody = 64 << 10

// RequestValidationMiddleware rejects routes missing from the API
// description with 404 and JSON bodies that do not match the route's
// request schema with 400. The body is restored for the handler.
func RequestValidationMiddleware(loader *SchemaLoader, logger *observability.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = observability.NewNopLogger()
	}

	return func(c *gin.Context) {
		ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "request_validation")
		defer span.End()

		method, route := c.Request.Method, c.FullPath()
		span.SetAttributes(attribute.String("http.route", route), attribute.String("http.method", method))

		ep, ok := loader.Endpoint(method, route)
		if !ok {
			logger.Warn(ctx, "Undocumented API call attempted", map[string]interface{}{
				"method": method,
				"path":   c.Request.URL.Path,
				"ip":     c.ClientIP(),
			})
			HandleAppError(c, contextutils.WrapErrorf(contextutils.ErrRecordNotFound, "%s %s is not documented", method, route))
			c.Abort()
			return
		}

		if !hasBody(method) || ep.RequestSchema == "" {
			c.Next()
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxRequestBody))
		if err != nil {
			HandleAppError(c, contextutils.WrapErrorf(contextutils.ErrInvalidInput, "failed to read request body: %v", err))
			c.Abort()
			return
		}
		if err := loader.ValidateJSON(body, ep.RequestSchema); err != nil {
			logger.Warn(ctx, "Request validation failed", map[string]interface{}{
				"method":      method,
				"path":        route,
				"schema_name": ep.RequestSchema,
				"error":       err.Error(),
			})
			span.SetAttributes(attribute.Bool("validation.failed", true))
			HandleAppError(c, err)
			c.Abort()
			return
		}

		// Restore the request body so handlers can read it
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Next()
	}
}
