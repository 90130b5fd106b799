package observability

import (
	"context"
	"os"

	"studyapp/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
)

// SetupObservability initializes tracing, metrics, and logging for a service.
// logLevel is a config level name; empty means info.
func SetupObservability(cfg *config.OpenTelemetryConfig, serviceName, logLevel string) (result0 trace.TracerProvider, result1 *metric.MeterProvider, result2 *Logger, err error) {
	if serviceName != "" {
		cfg.ServiceName = serviceName
	}

	var tp trace.TracerProvider
	var mp *metric.MeterProvider
	var logger *Logger

	if err := os.Setenv("OTEL_SERVICE_NAME", cfg.ServiceName); err != nil {
		return nil, nil, nil, err
	}
	if err := os.Setenv("OTEL_SERVICE_VERSION", cfg.ServiceVersion); err != nil {
		return nil, nil, nil, err
	}

	logger = NewLoggerWithLevel(cfg, ParseLevel(logLevel))

	if cfg.EnableTracing {
		tp, err = InitStandardTracing(cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		otel.SetTracerProvider(tp)
		InitTracing(cfg)
		InitGlobalTracer()

		logger.Info(context.Background(), "Tracing enabled", map[string]interface{}{"service_name": cfg.ServiceName})
	}

	if cfg.EnableMetrics {
		mp, err = InitMetrics(cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		otel.SetMeterProvider(mp)
	}

	// Instruments are bound to whatever provider is installed; a no-op one
	// when metrics are disabled.
	if err := InitInstruments(); err != nil {
		return nil, nil, nil, err
	}

	return tp, mp, logger, nil
}
