package observability

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	contextutils "studyapp/internal/utils"
)

// OwnerSessionKey is the session value holding the browser owner id.
const OwnerSessionKey = "owner_id"

// routeParams are the path parameters copied onto the request span, keyed
// by parameter name.
var routeParams = map[string]string{
	"tab":    "study.tab",
	"pillar": "study.pillar",
	"list":   "study.grammar_list",
	"type":   "study.verb_type",
}

// queryParams are the paradigm query values copied onto the request span.
var queryParams = map[string]string{
	"tense":        "study.tense",
	"construction": "study.construction",
	"pronoun":      "study.pronoun",
}

// GinMiddleware creates OpenTelemetry middleware for Gin HTTP requests
func GinMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// GinTracing returns the otelgin middleware followed by a handler that
// annotates the request span while it is still open: the tab, pillar,
// grammar list and paradigm values of the request, the session owner, and
// for failed requests the error code and severity.
//
//	router.Use(observability.GinTracing("study-server")...)
func GinTracing(serviceName string) gin.HandlersChain {
	return gin.HandlersChain{otelgin.Middleware(serviceName), annotateSpan}
}

func annotateSpan(c *gin.Context) {
	c.Next()

	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(requestAttributes(c)...)

	status := c.Writer.Status()
	if status < http.StatusBadRequest {
		return
	}

	msg, severity, code := describeFailure(status, c.Errors)
	span.RecordError(errors.New(msg))
	span.SetStatus(codes.Error, msg)
	attrs := []attribute.KeyValue{
		attribute.String("error.severity", severity),
		attribute.String("error.handler", c.HandlerName()),
	}
	if code != "" {
		attrs = append(attrs, attribute.String("error.code", code))
	}
	if status >= http.StatusInternalServerError {
		attrs = append(attrs, attribute.Bool("error.server_error", true))
	}
	span.SetAttributes(attrs...)
}

func requestAttributes(c *gin.Context) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	for name, key := range routeParams {
		if v := c.Param(name); v != "" {
			attrs = append(attrs, attribute.String(key, v))
		}
	}
	if c.FullPath() == "/v1/paradigm" {
		for name, key := range queryParams {
			if v := c.Query(name); v != "" {
				attrs = append(attrs, attribute.String(key, v))
			}
		}
	}
	if q, ok := c.GetQuery("q"); ok {
		attrs = append(attrs, attribute.Int("study.search_length", len([]rune(q))))
	}
	if owner := contextutils.GetOwnerIDFromContext(c.Request.Context()); owner != "" {
		attrs = append(attrs, AttributeOwnerID(owner))
	}
	return attrs
}

// describeFailure picks the message, severity and code of a failed request,
// preferring the first AppError attached to the context.
func describeFailure(status int, errs []*gin.Error) (msg, severity, code string) {
	for _, err := range errs {
		var appErr *contextutils.AppError
		if errors.As(err.Err, &appErr) {
			return appErr.Message, string(appErr.Severity), string(appErr.Code)
		}
	}
	if len(errs) > 0 {
		msg = errs[len(errs)-1].Error()
	}

	switch {
	case status >= http.StatusInternalServerError:
		severity = string(contextutils.SeverityError)
		if msg == "" {
			msg = "server error"
		}
	default:
		severity = string(contextutils.SeverityWarn)
		if msg == "" {
			msg = "client error"
		}
	}
	return msg, severity, ""
}
