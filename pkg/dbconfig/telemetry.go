package dbconfig

import (
	"log/slog"
	"sync/atomic"

	"github.com/randalmurphal/dbconfig/pkg/dbconfig/observability"
)

// telemetry bundles the logging, metrics and tracing hooks.
type telemetry struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// Option configures telemetry for the package or for a single Gateway.
type Option func(*telemetry)

// WithLogger sets the structured logger. A nil logger disables logging,
// which is the default.
func WithLogger(logger *slog.Logger) Option {
	return func(t *telemetry) {
		t.logger = logger
	}
}

// WithMetrics sets the metrics recorder. Nil selects observability.NoopMetrics.
// Default: observability.NewMetricsRecorder(), which reports through the
// global OTel meter provider.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(t *telemetry) {
		if m == nil {
			m = observability.NoopMetrics{}
		}
		t.metrics = m
	}
}

// WithSpans sets the span manager. Nil selects observability.NoopSpanManager.
// Default: observability.NewSpanManager(), which uses the global OTel
// tracer provider.
func WithSpans(s observability.SpanManager) Option {
	return func(t *telemetry) {
		if s == nil {
			s = observability.NoopSpanManager{}
		}
		t.spans = s
	}
}

var pkgTelemetry atomic.Pointer[telemetry]

func init() {
	pkgTelemetry.Store(&telemetry{
		metrics: observability.NewMetricsRecorder(),
		spans:   observability.NewSpanManager(),
	})
}

// Configure updates the package-wide telemetry used by the singleton, the
// stores, the default gateway and file watchers. Options not given keep
// their current value.
//
//	dbconfig.Configure(dbconfig.WithLogger(slog.Default()))
func Configure(opts ...Option) {
	next := *loadTelemetry()
	for _, opt := range opts {
		opt(&next)
	}
	pkgTelemetry.Store(&next)
}

func loadTelemetry() *telemetry {
	return pkgTelemetry.Load()
}
