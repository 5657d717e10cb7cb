package observability

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records dbconfig metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordDispatch records a gateway call and whether it failed.
	RecordDispatch(ctx context.Context, op string, err error)

	// RecordReplacement records a swap of the shared settings instance.
	RecordReplacement(ctx context.Context)

	// RecordSettingChange records an accepted setting update.
	RecordSettingChange(ctx context.Context, setting string)

	// RecordReload records a settings file reload attempt.
	RecordReload(ctx context.Context, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	dispatchCalls  metric.Int64Counter
	dispatchErrors metric.Int64Counter
	replacements   metric.Int64Counter
	changes        metric.Int64Counter
	reloads        metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("dbconfig")

	dispatchCalls, err := meter.Int64Counter("dbconfig.dispatch.calls",
		metric.WithDescription("Number of settings gateway calls"),
	)
	if err != nil {
		return nil, err
	}

	dispatchErrors, err := meter.Int64Counter("dbconfig.dispatch.errors",
		metric.WithDescription("Number of failed settings gateway calls"),
	)
	if err != nil {
		return nil, err
	}

	replacements, err := meter.Int64Counter("dbconfig.instance.replacements",
		metric.WithDescription("Number of shared settings instance replacements"),
	)
	if err != nil {
		return nil, err
	}

	changes, err := meter.Int64Counter("dbconfig.setting.changes",
		metric.WithDescription("Number of accepted setting updates"),
	)
	if err != nil {
		return nil, err
	}

	reloads, err := meter.Int64Counter("dbconfig.file.reloads",
		metric.WithDescription("Number of settings file reload attempts"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		dispatchCalls:  dispatchCalls,
		dispatchErrors: dispatchErrors,
		replacements:   replacements,
		changes:        changes,
		reloads:        reloads,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordDispatch records a gateway call.
func (m *otelMetrics) RecordDispatch(ctx context.Context, op string, err error) {
	attrs := metric.WithAttributes(attribute.String("operation", op))
	m.dispatchCalls.Add(ctx, 1, attrs)
	if err != nil {
		m.dispatchErrors.Add(ctx, 1, attrs)
	}
}

// RecordReplacement records an instance replacement.
func (m *otelMetrics) RecordReplacement(ctx context.Context) {
	m.replacements.Add(ctx, 1)
}

// RecordSettingChange records a setting update.
func (m *otelMetrics) RecordSettingChange(ctx context.Context, setting string) {
	m.changes.Add(ctx, 1, metric.WithAttributes(attribute.String("setting", setting)))
}

// RecordReload records a reload attempt.
func (m *otelMetrics) RecordReload(ctx context.Context, err error) {
	m.reloads.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", err == nil)))
}
