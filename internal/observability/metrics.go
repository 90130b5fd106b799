package observability

import (
	"context"
	"sync"

	"studyapp/internal/config"
	contextutils "studyapp/internal/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// InitMetrics initializes OpenTelemetry metrics
func InitMetrics(cfg *config.OpenTelemetryConfig) (result0 *metric.MeterProvider, err error) {
	ctx := context.Background()

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to create otel resource: %w", err)
	}

	var exporter metric.Exporter
	switch cfg.Protocol {
	case "grpc":
		opts := []otlpmetricgrpc.Option{
			otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
			otlpmetricgrpc.WithHeaders(cfg.Headers),
		}
		if cfg.Insecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}
		exp, err := otlpmetricgrpc.New(ctx, opts...)
		if err != nil {
			return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to create otlp grpc metric exporter: %w", err)
		}
		exporter = exp
	case "http":
		opts := []otlpmetrichttp.Option{
			otlpmetrichttp.WithEndpoint(cfg.Endpoint),
			otlpmetrichttp.WithHeaders(cfg.Headers),
		}
		if cfg.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		exp, err := otlpmetrichttp.New(ctx, opts...)
		if err != nil {
			return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to create otlp http metric exporter: %w", err)
		}
		exporter = exp
	default:
		return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "unsupported otel protocol: %s", cfg.Protocol)
	}

	mp := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter)),
		metric.WithResource(res),
	)
	return mp, nil
}

// Instruments are the counters the study service records.
type Instruments struct {
	TabsRendered       otelmetric.Int64Counter
	ParadigmsGenerated otelmetric.Int64Counter
	SpeechRequests     otelmetric.Int64Counter
	ContentFetches     otelmetric.Int64Counter
}

var (
	instruments     *Instruments
	instrumentsErr  error
	instrumentsOnce sync.Once
)

// InitInstruments creates the counters on the global meter. The global meter
// delegates to a provider installed later, so calling this early is safe.
func InitInstruments() error {
	instrumentsOnce.Do(func() {
		meter := otel.Meter(instrumentationName)
		in := &Instruments{}
		if in.TabsRendered, instrumentsErr = meter.Int64Counter("study.tabs.rendered",
			otelmetric.WithDescription("Tabs rendered for the first time in a session")); instrumentsErr != nil {
			return
		}
		if in.ParadigmsGenerated, instrumentsErr = meter.Int64Counter("study.paradigms.generated",
			otelmetric.WithDescription("Sentence paradigms produced by the generator")); instrumentsErr != nil {
			return
		}
		if in.SpeechRequests, instrumentsErr = meter.Int64Counter("study.speech.requests",
			otelmetric.WithDescription("Speech synthesis requests by outcome")); instrumentsErr != nil {
			return
		}
		if in.ContentFetches, instrumentsErr = meter.Int64Counter("study.content.fetches",
			otelmetric.WithDescription("Content document fetches by outcome")); instrumentsErr != nil {
			return
		}
		instruments = in
	})
	if instrumentsErr != nil {
		return contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to create metric instruments: %w", instrumentsErr)
	}
	return nil
}

func getInstruments() *Instruments {
	if err := InitInstruments(); err != nil {
		return nil
	}
	return instruments
}

// RecordTabRendered counts a first-time tab render.
func RecordTabRendered(ctx context.Context, tab string, failed bool) {
	if in := getInstruments(); in != nil {
		in.TabsRendered.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("tab", tab), attribute.Bool("failed", failed)))
	}
}

// RecordParadigms counts n generated paradigms.
func RecordParadigms(ctx context.Context, n int, source string) {
	if in := getInstruments(); in != nil {
		in.ParadigmsGenerated.Add(ctx, int64(n), otelmetric.WithAttributes(attribute.String("source", source)))
	}
}

// RecordSpeechRequest counts a speech request with its outcome ("ok",
// "error", "limited", "canceled").
func RecordSpeechRequest(ctx context.Context, outcome string) {
	if in := getInstruments(); in != nil {
		in.SpeechRequests.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

// RecordContentFetch counts a document fetch with its outcome.
func RecordContentFetch(ctx context.Context, document string, ok bool) {
	if in := getInstruments(); in != nil {
		in.ContentFetches.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("document", document), attribute.Bool("ok", ok)))
	}
}
