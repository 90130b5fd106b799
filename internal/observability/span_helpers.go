package observability

import (
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	contextutils "studyapp/internal/utils"
)

// FinishSpan ends a span and records any error pointed to by errPtr,
// tagging it with the AppError code when there is one.
// Use with a named error return: `defer observability.FinishSpan(span, &err)`
func FinishSpan(span trace.Span, errPtr *error) {
	if span == nil {
		return
	}
	if errPtr != nil && *errPtr != nil {
		err := *errPtr
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var appErr *contextutils.AppError
		if errors.As(err, &appErr) {
			span.SetAttributes(
				attribute.String("error.code", string(appErr.Code)),
				attribute.String("error.severity", string(appErr.Severity)),
			)
		}
	}
	span.End()
}
