// Package observability provides OpenTelemetry tracing, metrics, and structured logging
// with trace correlation for the study application.
package observability

import (
	"context"
	"errors"
	"os"

	"studyapp/internal/config"
	contextutils "studyapp/internal/utils"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps the zap logger with OpenTelemetry context support
type Logger struct {
	*zap.Logger
}

// NewLogger creates a new logger with OpenTelemetry context support and OTLP export
func NewLogger(cfg *config.OpenTelemetryConfig) *Logger {
	return NewLoggerWithLevel(cfg, zap.InfoLevel)
}

// NewLoggerWithLevel creates a new logger with OpenTelemetry context support and OTLP export
func NewLoggerWithLevel(cfg *config.OpenTelemetryConfig, level zapcore.Level) *Logger {
	if cfg == nil {
		return &Logger{Logger: zap.NewNop()}
	}

	// Create a basic zap logger for stdout
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.StacktraceKey = "stacktrace"

	// Use development config if in development mode
	if os.Getenv("ENV") == "development" {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(level)
	}

	zapLogger, err := zapConfig.Build()
	if err != nil {
		// Fallback to a basic logger if config fails
		zapLogger = zap.NewExample()
	}

	// If OTLP logging is enabled, set up the OTLP exporter
	if cfg.EnableLogging && cfg.Endpoint != "" {
		// Log that we're attempting to set up OTLP export
		zapLogger.Info("Setting up OTLP logging", zap.String("endpoint", cfg.Endpoint), zap.String("protocol", cfg.Protocol))

		// Create OTLP exporter with proper endpoint format
		endpoint := cfg.Endpoint

		// Set up resource attributes
		res, err := resource.New(context.Background(),
			resource.WithAttributes(
				semconv.ServiceName(cfg.ServiceName),
				semconv.ServiceVersion(cfg.ServiceVersion),
			),
		)
		if err != nil {
			// Log the error but continue with stdout logging
			zapLogger.Error("Failed to create otel resource", zap.Error(err))
		} else {
			opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(endpoint)}
			if cfg.Insecure {
				opts = append(opts, otlploggrpc.WithInsecure())
			}
			if len(cfg.Headers) > 0 {
				opts = append(opts, otlploggrpc.WithHeaders(cfg.Headers))
			}
			exporter, err := otlploggrpc.New(context.Background(), opts...)
			if err != nil {
				// Log the error but continue with stdout logging
				zapLogger.Error("Failed to create OTLP exporter", zap.Error(err), zap.String("endpoint", endpoint))
			} else {
				zapLogger.Info("Successfully created OTLP exporter", zap.String("endpoint", endpoint))

				// Create batch processor
				processor := log.NewBatchProcessor(exporter)

				// Create logger provider with resource
				provider := log.NewLoggerProvider(
					log.WithProcessor(processor),
					log.WithResource(res),
				)

				// Create OpenTelemetry core
				otelCore := otelzap.NewCore("studyapp", otelzap.WithLoggerProvider(provider))

				// Create a new zap logger with both stdout and OTLP cores
				cores := []zapcore.Core{
					zapLogger.Core(),
					otelCore,
				}

				// Create a new logger with multiple cores
				multiCore := zapcore.NewTee(cores...)
				zapLogger = zap.New(multiCore)

				zapLogger.Info("OTLP logging successfully configured", zap.String("endpoint", endpoint))
			}
		}
	}

	return &Logger{Logger: zapLogger}
}

// ParseLevel maps a config log level ("debug", "info", "warn", "error") to a
// zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zap.InfoLevel
	}
	return l
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Debug logs a debug message with context
func (l *Logger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {
	l.logWithContext(ctx, zap.DebugLevel, msg, fields...)
}

// Info logs an info message with context
func (l *Logger) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {
	l.logWithContext(ctx, zap.InfoLevel, msg, fields...)
}

// Warn logs a warning message with context
func (l *Logger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	l.logWithContext(ctx, zap.WarnLevel, msg, fields...)
}

// Error logs an error message with context. The AppError code is added as
// error_code when err carries one.
func (l *Logger) Error(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	allFields := mergeFields(fields...)
	if err != nil {
		allFields["error"] = err.Error()
		var appErr *contextutils.AppError
		if errors.As(err, &appErr) {
			allFields["error_code"] = string(appErr.Code)
		}
	}
	l.logWithContext(ctx, zap.ErrorLevel, msg, allFields)
}

// logWithContext adds the trace ids and the session owner of ctx to the
// entry. Explicit fields win over the ones taken from ctx.
func (l *Logger) logWithContext(ctx context.Context, level zapcore.Level, msg string, fields ...map[string]interface{}) {
	ce := l.Logger.Check(level, msg)
	if ce == nil {
		return
	}
	allFields := mergeFields(fields...)

	if spanContext := trace.SpanContextFromContext(ctx); spanContext.IsValid() {
		allFields["trace_id"] = spanContext.TraceID().String()
		allFields["span_id"] = spanContext.SpanID().String()
	}
	if owner := contextutils.GetOwnerIDFromContext(ctx); owner != "" {
		if _, set := allFields["owner_id"]; !set {
			allFields["owner_id"] = owner
		}
	}

	zapFields := make([]zap.Field, 0, len(allFields))
	for k, v := range allFields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	ce.Write(zapFields...)
}

// mergeFields copies every field map into a new one; later maps win.
func mergeFields(fields ...map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{})
	for _, fieldMap := range fields {
		for k, v := range fieldMap {
			merged[k] = v
		}
	}
	return merged
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.Logger.Sync()
}
