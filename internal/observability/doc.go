// Package observability provides OpenTelemetry tracing and metrics for the
// call bridge: spans around call commands and webhook ingestion, and counters
// for call, speak and transcription volume.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("callbridge"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanCallStart)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("callbridge"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("callbridge"))
//	metrics.RecordCallStarted(ctx)
//
// In the application both providers are owned by a Component so bootstrap
// starts and stops them alongside the other infrastructure.
package observability
