package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordDispatch does nothing.
func (NoopMetrics) RecordDispatch(_ context.Context, _ string, _ error) {}

// RecordReplacement does nothing.
func (NoopMetrics) RecordReplacement(_ context.Context) {}

// RecordSettingChange does nothing.
func (NoopMetrics) RecordSettingChange(_ context.Context, _ string) {}

// RecordReload does nothing.
func (NoopMetrics) RecordReload(_ context.Context, _ error) {}

// NoopSpanManager is a SpanManager that does nothing.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartDispatchSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartDispatchSpan(ctx context.Context, _ string, _ bool) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartReloadSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartReloadSpan(ctx context.Context, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}
