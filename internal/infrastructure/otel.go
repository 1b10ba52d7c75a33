package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	ServiceName    = "pitchpulse-dashboard"
	ServiceVersion = "0.3.0"
	MeterName      = "pitchpulse"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	TraceExporter  string // "stdout", "none"
	MetricExporter string // "prometheus", "none"
	EnableMetrics  bool
	EnableTracing  bool
	SampleRatio    float64
}

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Logger         *slog.Logger
}

// DefaultOTelConfig returns a default OpenTelemetry configuration
func DefaultOTelConfig() *OTelConfig {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	return &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: ServiceVersion,
		Environment:    env,
		TraceExporter:  "stdout",
		MetricExporter: "prometheus",
		EnableMetrics:  true,
		EnableTracing:  true,
		SampleRatio:    1.0,
	}
}

// InitializeOTel initializes OpenTelemetry tracing and metrics
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig()
	}

	ctx := context.Background()

	logger.InfoContext(ctx, "Initializing OpenTelemetry",
		slog.String("service", cfg.ServiceName),
		slog.String("version", cfg.ServiceVersion),
		slog.String("environment", cfg.Environment),
		slog.Bool("tracing_enabled", cfg.EnableTracing),
		slog.Bool("metrics_enabled", cfg.EnableMetrics))

	res, err := createResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	providers := &OTelProviders{
		Logger: logger,
	}

	if cfg.EnableTracing {
		if err := initializeTracing(ctx, cfg, res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	if cfg.EnableMetrics {
		if err := initializeMetrics(ctx, cfg, res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.InfoContext(ctx, "OpenTelemetry initialization complete")

	return providers, nil
}

// createResource creates the OpenTelemetry resource
func createResource(cfg *OTelConfig) (*resource.Resource, error) {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", generateInstanceID()),
	), nil
}

// initializeTracing sets up OpenTelemetry tracing
func initializeTracing(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err = stdouttrace.New(
			stdouttrace.WithPrettyPrint(),
		)
	case "none":
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)

	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))

	otel.SetTracerProvider(tp)

	providers.Logger.InfoContext(ctx, "Tracing initialized",
		slog.String("exporter", cfg.TraceExporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))

	return nil
}

// initializeMetrics sets up OpenTelemetry metrics
func initializeMetrics(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	switch cfg.MetricExporter {
	case "prometheus":
		exporter, err := prometheus.New()
		if err != nil {
			return fmt.Errorf("failed to create prometheus exporter: %w", err)
		}

		providers.PrometheusHTTP = promhttp.Handler()

		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)

		providers.MeterProvider = mp
		providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))

		otel.SetMeterProvider(mp)

	case "none":
		return nil
	default:
		return fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}

	providers.Logger.InfoContext(ctx, "Metrics initialized",
		slog.String("exporter", cfg.MetricExporter))

	return nil
}

// BusinessMetrics holds all application-specific metrics
type BusinessMetrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	// Operations metrics
	OperationExecutionsTotal   metric.Int64Counter
	OperationExecutionDuration metric.Float64Histogram
	OperationStepsTotal        metric.Int64Counter
	OperationStepDuration      metric.Float64Histogram
	OperationActiveOperations  metric.Int64UpDownCounter
	OperationErrors            metric.Int64Counter
	OperationCancellations     metric.Int64Counter

	// Feed metrics
	FeedRequestsTotal   metric.Int64Counter
	FeedRequestRetries  metric.Int64Counter
	FeedRequestDuration metric.Float64Histogram

	// Dataset metrics
	DatasetRowsWritten  metric.Int64Counter
	DatasetFilesWritten metric.Int64Counter
	SeasonsScraped      metric.Int64Counter

	// System metrics
	SystemErrors metric.Int64Counter
	SystemUptime metric.Float64UpDownCounter
}

// CreateBusinessMetrics creates application-specific metrics
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	httpRequestsTotal, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	httpRequestDuration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	httpActiveRequests, err := meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	operationExecutionsTotal, err := meter.Int64Counter(
		"operation_executions_total",
		metric.WithDescription("Total number of operation executions"),
	)
	if err != nil {
		return nil, err
	}

	operationExecutionDuration, err := meter.Float64Histogram(
		"operation_execution_duration_seconds",
		metric.WithDescription("Operation execution duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	operationStepsTotal, err := meter.Int64Counter(
		"operation_steps_total",
		metric.WithDescription("Total number of operation steps executed"),
	)
	if err != nil {
		return nil, err
	}

	operationStepDuration, err := meter.Float64Histogram(
		"operation_step_duration_seconds",
		metric.WithDescription("Operation step execution duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	operationActiveOperations, err := meter.Int64UpDownCounter(
		"operation_active_operations",
		metric.WithDescription("Number of active operations"),
	)
	if err != nil {
		return nil, err
	}

	operationErrors, err := meter.Int64Counter(
		"operation_errors_total",
		metric.WithDescription("Total number of operation errors"),
	)
	if err != nil {
		return nil, err
	}

	operationCancellations, err := meter.Int64Counter(
		"operation_cancellations_total",
		metric.WithDescription("Total number of operation cancellations"),
	)
	if err != nil {
		return nil, err
	}

	feedRequestsTotal, err := meter.Int64Counter(
		"feed_requests_total",
		metric.WithDescription("Total number of soccer feed requests"),
	)
	if err != nil {
		return nil, err
	}

	feedRequestRetries, err := meter.Int64Counter(
		"feed_request_retries_total",
		metric.WithDescription("Total number of feed request retries"),
	)
	if err != nil {
		return nil, err
	}

	feedRequestDuration, err := meter.Float64Histogram(
		"feed_request_duration_seconds",
		metric.WithDescription("Feed request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	datasetRowsWritten, err := meter.Int64Counter(
		"dataset_rows_written_total",
		metric.WithDescription("Total number of dataset rows written"),
	)
	if err != nil {
		return nil, err
	}

	datasetFilesWritten, err := meter.Int64Counter(
		"dataset_files_written_total",
		metric.WithDescription("Total number of dataset files written"),
	)
	if err != nil {
		return nil, err
	}

	seasonsScraped, err := meter.Int64Counter(
		"seasons_scraped_total",
		metric.WithDescription("Total number of season trees scraped"),
	)
	if err != nil {
		return nil, err
	}

	systemErrors, err := meter.Int64Counter(
		"system_errors_total",
		metric.WithDescription("Total number of system errors"),
	)
	if err != nil {
		return nil, err
	}

	systemUptime, err := meter.Float64UpDownCounter(
		"system_uptime_seconds",
		metric.WithDescription("System uptime in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &BusinessMetrics{
		HTTPRequestsTotal:   httpRequestsTotal,
		HTTPRequestDuration: httpRequestDuration,
		HTTPActiveRequests:  httpActiveRequests,

		OperationExecutionsTotal:   operationExecutionsTotal,
		OperationExecutionDuration: operationExecutionDuration,
		OperationStepsTotal:        operationStepsTotal,
		OperationStepDuration:      operationStepDuration,
		OperationActiveOperations:  operationActiveOperations,
		OperationErrors:            operationErrors,
		OperationCancellations:     operationCancellations,

		FeedRequestsTotal:   feedRequestsTotal,
		FeedRequestRetries:  feedRequestRetries,
		FeedRequestDuration: feedRequestDuration,

		DatasetRowsWritten:  datasetRowsWritten,
		DatasetFilesWritten: datasetFilesWritten,
		SeasonsScraped:      seasonsScraped,

		SystemErrors: systemErrors,
		SystemUptime: systemUptime,
	}, nil
}

// Shutdown gracefully shuts down OpenTelemetry providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}

	p.Logger.InfoContext(ctx, "OpenTelemetry shutdown complete")
	return nil
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// TraceIDFromContext extracts trace ID from context for logging correlation
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// AddSpanEvent adds an event to the current span with structured attributes
func AddSpanEvent(ctx context.Context, name string, attributes map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	attrs := make([]attribute.KeyValue, 0, len(attributes))
	for k, v := range attributes {
		attrs = append(attrs, anyAttribute(k, v))
	}

	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error, options ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.RecordError(err, options...)
	span.SetStatus(codes.Error, err.Error())
}

// SetSpanAttributes sets attributes on the current span
func SetSpanAttributes(ctx context.Context, attributes map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	for k, v := range attributes {
		span.SetAttributes(anyAttribute(k, v))
	}
}

func anyAttribute(k string, v interface{}) attribute.KeyValue {
	switch val := v.(type) {
	case string:
		return attribute.String(k, val)
	case int:
		return attribute.Int(k, val)
	case int64:
		return attribute.Int64(k, val)
	case float64:
		return attribute.Float64(k, val)
	case bool:
		return attribute.Bool(k, val)
	default:
		return attribute.String(k, fmt.Sprintf("%v", val))
	}
}

// RecordOperationMetrics records metrics for operation execution
func RecordOperationMetrics(ctx context.Context, metrics *BusinessMetrics, operationID string, operationType string, duration time.Duration, success bool, err error) {
	if metrics == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("operation.id", operationID),
		attribute.String("operation.type", operationType),
	}

	metrics.OperationExecutionsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))

	statusAttr := attribute.String("status", "success")
	if !success {
		statusAttr = attribute.String("status", "failure")
	}
	durationAttrs := append(attrs, statusAttr)
	metrics.OperationExecutionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(durationAttrs...))

	if err != nil {
		errorAttrs := append(attrs, attribute.String("error.type", fmt.Sprintf("%T", err)))
		metrics.OperationErrors.Add(ctx, 1, metric.WithAttributes(errorAttrs...))
	}
}

// RecordOperationStepMetrics records metrics for operation step execution
func RecordOperationStepMetrics(ctx context.Context, metrics *BusinessMetrics, operationID, stepID, stepType string, duration time.Duration, success bool) {
	if metrics == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("operation.id", operationID),
		attribute.String("step.id", stepID),
		attribute.String("step.type", stepType),
	}

	metrics.OperationStepsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))

	statusAttr := attribute.String("status", "success")
	if !success {
		statusAttr = attribute.String("status", "failure")
	}
	durationAttrs := append(attrs, statusAttr)
	metrics.OperationStepDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(durationAttrs...))
}

// RecordActiveOperationChange records changes in active operation count
func RecordActiveOperationChange(ctx context.Context, metrics *BusinessMetrics, delta int64, operationType string) {
	if metrics == nil {
		return
	}

	metrics.OperationActiveOperations.Add(ctx, delta,
		metric.WithAttributes(attribute.String("operation.type", operationType)))
}

// RecordFeedRequest records a completed feed request with its retry count
func RecordFeedRequest(ctx context.Context, metrics *BusinessMetrics, feed string, status int, retries int, duration time.Duration) {
	if metrics == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("feed", feed),
		attribute.Int("status", status),
	}

	metrics.FeedRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.FeedRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))

	if retries > 0 {
		metrics.FeedRequestRetries.Add(ctx, int64(retries),
			metric.WithAttributes(attribute.String("feed", feed)))
	}
}

// RecordDatasetWrite records rows written to a dataset file
func RecordDatasetWrite(ctx context.Context, metrics *BusinessMetrics, dataset string, rows int) {
	if metrics == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("dataset", dataset),
	}

	metrics.DatasetFilesWritten.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.DatasetRowsWritten.Add(ctx, int64(rows), metric.WithAttributes(attrs...))
}
