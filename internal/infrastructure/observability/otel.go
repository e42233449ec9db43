package observability

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/santekene/ai-service"

// Metrics holds the HTTP server metrics
type Metrics struct {
	RequestCount    metric.Int64Counter
	RequestDuration metric.Float64Histogram
}

// Setup initializes OpenTelemetry tracing, metrics and runtime instrumentation
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		_ = tracerProvider.Shutdown(ctx)
		return nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(30*time.Second))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	if err := runtime.Start(runtime.WithMeterProvider(meterProvider)); err != nil {
		_ = meterProvider.Shutdown(ctx)
		_ = tracerProvider.Shutdown(ctx)
		return nil, err
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(
			meterProvider.Shutdown(ctx),
			tracerProvider.Shutdown(ctx),
		)
	}

	return shutdown, nil
}

// InitMetrics initializes HTTP server metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	requestCount, err := meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCount:    requestCount,
		RequestDuration: requestDuration,
	}, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	return tracer.Start(ctx, spanName)
}

// RecordError records an error in the current span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}

// SetSpanAttributes sets attributes on a span
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// RecordRequestMetric records an HTTP request metric with attributes
func RecordRequestMetric(ctx context.Context, metrics *Metrics, method, path string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.Int("http.status_code", statusCode),
	}

	metrics.RequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.RequestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

type aiMetrics struct {
	requestCount       metric.Int64Counter
	requestDuration    metric.Float64Histogram
	requestErrors      metric.Int64Counter
	rateLimitWait      metric.Float64Histogram
	degradedCount      metric.Int64Counter
	enrichmentFailures metric.Int64Counter
}

var (
	aiMetricsOnce sync.Once
	aiMetricsInst *aiMetrics
)

func ensureAIMetrics() *aiMetrics {
	aiMetricsOnce.Do(func() {
		meter := otel.Meter(instrumentationName + "/ai")

		requestCount, err := meter.Int64Counter(
			"ai.llm.request.count",
			metric.WithDescription("Number of LLM provider requests"),
		)
		if err != nil {
			return
		}
		requestDuration, err := meter.Float64Histogram(
			"ai.llm.request.duration",
			metric.WithDescription("LLM provider request duration in milliseconds"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			return
		}
		requestErrors, err := meter.Int64Counter(
			"ai.llm.request.errors",
			metric.WithDescription("Number of LLM provider request errors"),
		)
		if err != nil {
			return
		}
		rateLimitWait, err := meter.Float64Histogram(
			"ai.llm.rate_limit.wait",
			metric.WithDescription("Time spent waiting for the client-side rate limiter in milliseconds"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			return
		}
		degradedCount, err := meter.Int64Counter(
			"ai.outcome.degraded",
			metric.WithDescription("Number of fallback payloads served"),
		)
		if err != nil {
			return
		}
		enrichmentFailures, err := meter.Int64Counter(
			"ai.enrichment.failures",
			metric.WithDescription("Number of failed doctor / health-center lookups"),
		)
		if err != nil {
			return
		}

		aiMetricsInst = &aiMetrics{
			requestCount:       requestCount,
			requestDuration:    requestDuration,
			requestErrors:      requestErrors,
			rateLimitWait:      rateLimitWait,
			degradedCount:      degradedCount,
			enrichmentFailures: enrichmentFailures,
		}
	})
	return aiMetricsInst
}

// RecordLLMCall records one provider round-trip
func RecordLLMCall(ctx context.Context, provider, model string, statusCode int, duration time.Duration, err error) {
	m := ensureAIMetrics()
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("ai.provider", provider),
		attribute.String("ai.model", model),
	}
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	m.requestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.requestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		m.requestErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordRateLimitWait records time spent in a client-side limiter
func RecordRateLimitWait(ctx context.Context, provider, model string, wait time.Duration) {
	m := ensureAIMetrics()
	if m == nil {
		return
	}
	m.rateLimitWait.Record(ctx, float64(wait.Milliseconds()), metric.WithAttributes(
		attribute.String("ai.provider", provider),
		attribute.String("ai.model", model),
	))
}

// RecordDegraded counts a fallback payload for an operation
func RecordDegraded(ctx context.Context, operation, reason string) {
	m := ensureAIMetrics()
	if m == nil {
		return
	}
	m.degradedCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("ai.operation", operation),
		attribute.String("ai.reason", reason),
	))
}

// RecordEnrichmentFailure counts a failed recommendation lookup
func RecordEnrichmentFailure(ctx context.Context, lookup string) {
	m := ensureAIMetrics()
	if m == nil {
		return
	}
	m.enrichmentFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("lookup", lookup)))
}
