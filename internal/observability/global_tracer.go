package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "study-app"

var globalTracer trace.Tracer

// InitGlobalTracer initializes the global tracer for the application.
func InitGlobalTracer() {
	globalTracer = otel.Tracer(instrumentationName)
}

// GetGlobalTracer returns the global tracer instance for the application.
func GetGlobalTracer() trace.Tracer {
	if globalTracer == nil {
		// Fallback to default tracer if not initialized
		globalTracer = otel.Tracer(instrumentationName)
	}
	return globalTracer
}

// TraceFunction starts a new span with a descriptive name for the given service and function.
func TraceFunction(ctx context.Context, serviceName, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := GetGlobalTracer()
	spanName := fmt.Sprintf("%s.%s", serviceName, functionName)
	return tracer.Start(ctx, spanName, trace.WithAttributes(attributes...))
}

// TraceHandlerFunction starts a new span for a handler function.
func TraceHandlerFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "handler", functionName, attributes...)
}

// TraceContentFunction starts a new span for content loading.
func TraceContentFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "content", functionName, attributes...)
}

// TraceShellFunction starts a new span for a view shell operation.
func TraceShellFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "shell", functionName, attributes...)
}

// TraceStoreFunction starts a new span for a preference store operation.
func TraceStoreFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "store", functionName, attributes...)
}

// TraceSpeechFunction starts a new span for speech synthesis.
func TraceSpeechFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "speech", functionName, attributes...)
}

// TraceDatabaseFunction starts a new span for a database function.
func TraceDatabaseFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "database", functionName, attributes...)
}

// AttributeTab returns a tracing attribute for a tab name.
func AttributeTab(tab string) attribute.KeyValue {
	return attribute.String("tab", tab)
}

// AttributePillar returns a tracing attribute for a pillar id.
func AttributePillar(id string) attribute.KeyValue {
	return attribute.String("pillar", id)
}

// AttributeDocument returns a tracing attribute for a content document name.
func AttributeDocument(name string) attribute.KeyValue {
	return attribute.String("content.document", name)
}

// AttributeOwnerID returns a tracing attribute for a preference owner.
func AttributeOwnerID(id string) attribute.KeyValue {
	return attribute.String("owner.id", id)
}

// AttributeBackend returns a tracing attribute for a storage backend.
func AttributeBackend(backend string) attribute.KeyValue {
	return attribute.String("store.backend", backend)
}

// AttributeSearch returns a tracing attribute for a search value.
func AttributeSearch(search string) attribute.KeyValue {
	return attribute.String("search", search)
}
