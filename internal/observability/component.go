package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/skillsenselab/callbridge/internal/component"
)

const componentName = "observability"

// Config is the telemetry section of the application configuration.
type Config struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	Interval   int     `yaml:"interval" mapstructure:"interval"` // seconds
}

// ApplyDefaults fills in default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15
	}
}

// Component owns the tracer and meter providers so bootstrap starts and
// stops them with the rest of the infrastructure. When disabled it is a
// no-op and Metrics returns nil.
type Component struct {
	config  Config
	service string
	version string
	env     string

	mu      sync.Mutex
	tp      *sdktrace.TracerProvider
	mp      *sdkmetric.MeterProvider
	metrics *Metrics
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates the telemetry component. Service identity fields are
// attached to every exported span and metric as resource attributes.
func NewComponent(cfg Config, service, version, environment string) *Component {
	cfg.ApplyDefaults()
	return &Component{
		config:  cfg,
		service: service,
		version: version,
		env:     environment,
	}
}

// Metrics returns the call instruments, or nil when telemetry is disabled
// or the component has not been started. Nil is safe to record on.
func (c *Component) Metrics() *Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metrics
}

// Name returns the component name.
func (c *Component) Name() string { return componentName }

// Start initializes the OTLP tracer and meter providers.
func (c *Component) Start(ctx context.Context) error {
	if !c.config.Enabled {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tp, err := InitTracer(ctx, &TracerConfig{
		ServiceName:    c.service,
		ServiceVersion: c.version,
		Environment:    c.env,
		Endpoint:       c.config.Endpoint,
		Insecure:       c.config.Insecure,
		SampleRate:     c.config.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("initializing tracer: %w", err)
	}
	c.tp = tp

	mp, err := InitMeter(ctx, &MeterConfig{
		ServiceName:    c.service,
		ServiceVersion: c.version,
		Environment:    c.env,
		Endpoint:       c.config.Endpoint,
		Insecure:       c.config.Insecure,
		Interval:       time.Duration(c.config.Interval) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("initializing meter: %w", err)
	}
	c.mp = mp

	metrics, err := NewMetrics(Meter(c.service))
	if err != nil {
		return fmt.Errorf("creating metrics: %w", err)
	}
	c.metrics = metrics

	return nil
}

// Stop flushes and shuts down both providers.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	if c.tp != nil {
		if err := c.tp.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("shutting down tracer: %w", err)
		}
		c.tp = nil
	}
	if c.mp != nil {
		if err := c.mp.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("shutting down meter: %w", err)
		}
		c.mp = nil
	}
	c.metrics = nil
	return firstErr
}

// Health reports whether telemetry export is configured and running.
func (c *Component) Health(_ context.Context) component.Health {
	if !c.config.Enabled {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusHealthy,
			Message: "telemetry disabled",
		}
	}

	c.mu.Lock()
	started := c.tp != nil && c.mp != nil
	c.mu.Unlock()

	if !started {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "telemetry enabled but not started",
		}
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("exporting to %s", c.config.Endpoint),
	}
}

// Describe returns infrastructure summary info for the bootstrap display.
func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.config.Enabled {
		details = fmt.Sprintf("OTLP %s", c.config.Endpoint)
	}
	return component.Description{
		Name:    "Telemetry",
		Type:    "observability",
		Details: details,
	}
}
