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

	"github.com/skillsenselab/callbridge/internal/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) *MeterConfig {
	return &MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
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

// Metrics holds the metric instruments for call bridging. A nil *Metrics is
// valid and records nothing, so callers don't need to branch on whether
// telemetry is enabled.
type Metrics struct {
	callsStarted   metric.Int64Counter
	callsEnded     metric.Int64Counter
	callsActive    metric.Int64UpDownCounter
	speaksTotal    metric.Int64Counter
	webhooksTotal  metric.Int64Counter
	transcriptions metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	callsStarted, err := meter.Int64Counter("calls.started",
		metric.WithDescription("Total outbound calls placed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating calls.started counter: %w", err)
	}

	callsEnded, err := meter.Int64Counter("calls.ended",
		metric.WithDescription("Total calls reaching a terminal status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating calls.ended counter: %w", err)
	}

	callsActive, err := meter.Int64UpDownCounter("calls.active",
		metric.WithDescription("Number of currently tracked active calls"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating calls.active gauge: %w", err)
	}

	speaksTotal, err := meter.Int64Counter("speaks.total",
		metric.WithDescription("Total speak commands by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating speaks.total counter: %w", err)
	}

	webhooksTotal, err := meter.Int64Counter("webhooks.received",
		metric.WithDescription("Total provider webhooks received by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating webhooks.received counter: %w", err)
	}

	transcriptions, err := meter.Int64Counter("transcriptions.total",
		metric.WithDescription("Total completed transcriptions recorded"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcriptions.total counter: %w", err)
	}

	return &Metrics{
		callsStarted:   callsStarted,
		callsEnded:     callsEnded,
		callsActive:    callsActive,
		speaksTotal:    speaksTotal,
		webhooksTotal:  webhooksTotal,
		transcriptions: transcriptions,
	}, nil
}

// RecordCallStarted records a placed call and bumps the active gauge.
func (m *Metrics) RecordCallStarted(ctx context.Context) {
	if m == nil {
		return
	}
	m.callsStarted.Add(ctx, 1)
	m.callsActive.Add(ctx, 1)
}

// RecordCallEnded records a call reaching the given terminal status and
// decrements the active gauge. Call it once per terminal transition.
func (m *Metrics) RecordCallEnded(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.callsEnded.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))
	m.callsActive.Add(ctx, -1)
}

// RecordSpeak records a speak command and its outcome.
func (m *Metrics) RecordSpeak(ctx context.Context, mode string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.speaksTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("status", status),
	))
}

// RecordWebhook records a received provider webhook by kind
// (call-status, transcription, conference).
func (m *Metrics) RecordWebhook(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.webhooksTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
	))
}

// RecordTranscription records a completed transcription appended to a session.
func (m *Metrics) RecordTranscription(ctx context.Context) {
	if m == nil {
		return
	}
	m.transcriptions.Add(ctx, 1)
}
