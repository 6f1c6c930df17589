package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/restkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns defaults for a local collector.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a periodic OTLP meter provider as the global provider.
// The caller must shut the provider down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("observability: create metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("observability: create resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by the client and resources.
// A nil *Metrics records nothing.
type Metrics struct {
	requestTotal      metric.Int64Counter
	requestDuration   metric.Float64Histogram
	requestActive     metric.Int64UpDownCounter
	operationTotal    metric.Int64Counter
	operationDuration metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requestTotal, err := meter.Int64Counter("restkit.request.total",
		metric.WithDescription("Total number of dispatched requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("observability: create restkit.request.total: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("restkit.request.duration",
		metric.WithDescription("Duration of dispatched requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("observability: create restkit.request.duration: %w", err)
	}

	requestActive, err := meter.Int64UpDownCounter("restkit.request.active",
		metric.WithDescription("Number of in-flight requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("observability: create restkit.request.active: %w", err)
	}

	operationTotal, err := meter.Int64Counter("restkit.operation.total",
		metric.WithDescription("Total number of resource operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("observability: create restkit.operation.total: %w", err)
	}

	operationDuration, err := meter.Float64Histogram("restkit.operation.duration",
		metric.WithDescription("Duration of resource operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("observability: create restkit.operation.duration: %w", err)
	}

	return &Metrics{
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
		requestActive:     requestActive,
		operationTotal:    operationTotal,
		operationDuration: operationDuration,
	}, nil
}

// RecordRequestStart increments the in-flight request count.
func (m *Metrics) RecordRequestStart(ctx context.Context) {
	if m == nil {
		return
	}
	m.requestActive.Add(ctx, 1)
}

// RecordRequestEnd decrements in-flight requests and records the completed request.
func (m *Metrics) RecordRequestEnd(ctx context.Context, client, method, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestActive.Add(ctx, -1)
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("client", client),
		attribute.String("method", method),
		attribute.String("status", status),
	))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("client", client),
		attribute.String("method", method),
	))
}

// RecordOperation records a resource operation.
func (m *Metrics) RecordOperation(ctx context.Context, resource, operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("resource", resource),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("resource", resource),
		attribute.String("operation", operation),
	))
}
