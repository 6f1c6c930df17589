package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kbukum/restkit/validation"
)

// Config enables OTLP export of restkit spans and metrics.
type Config struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	ServiceName    string        `yaml:"service_name" mapstructure:"service_name"`
	ServiceVersion string        `yaml:"service_version" mapstructure:"service_version"`
	Environment    string        `yaml:"environment" mapstructure:"environment"`
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "restkit"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "1.0.0"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricInterval == 0 {
		c.MetricInterval = 15 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// Telemetry holds the providers started by Setup.
type Telemetry struct {
	Metrics  *Metrics
	shutdown []func(context.Context) error
}

// Shutdown flushes and stops the providers. A nil *Telemetry is a no-op.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errs []error
	for _, fn := range t.shutdown {
		errs = append(errs, fn(ctx))
	}
	return errors.Join(errs...)
}

// Setup starts tracing and metrics export when cfg.Enabled. When disabled it
// returns a Telemetry with nil Metrics; the global no-op providers stay in
// place.
func Setup(ctx context.Context, cfg Config) (*Telemetry, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		return &Telemetry{}, nil
	}

	tp, err := InitTracer(ctx, TracerConfig{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
		Environment:    cfg.Environment,
		Endpoint:       cfg.Endpoint,
		Insecure:       cfg.Insecure,
		SampleRate:     cfg.SampleRate,
	})
	if err != nil {
		return nil, err
	}

	mp, err := InitMeter(ctx, MeterConfig{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
		Environment:    cfg.Environment,
		Endpoint:       cfg.Endpoint,
		Insecure:       cfg.Insecure,
		Interval:       cfg.MetricInterval,
	})
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	metrics, err := NewMetrics(mp.Meter(instrumentationName))
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("observability: %w", err)
	}

	return &Telemetry{
		Metrics:  metrics,
		shutdown: []func(context.Context) error{tp.Shutdown, mp.Shutdown},
	}, nil
}
