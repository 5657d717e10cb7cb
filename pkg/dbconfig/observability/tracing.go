package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer("dbconfig")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartDispatchSpan starts a span for one gateway call.
	// static is true when the call resolved the shared instance itself.
	StartDispatchSpan(ctx context.Context, op string, static bool) (context.Context, trace.Span)

	// StartReloadSpan starts a span for one settings file reload.
	StartReloadSpan(ctx context.Context, path string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartDispatchSpan starts a span for a gateway call.
func (m *otelSpanManager) StartDispatchSpan(ctx context.Context, op string, static bool) (context.Context, trace.Span) {
	return tracer.Start(ctx, "dbconfig.dispatch",
		trace.WithAttributes(
			attribute.String("dbconfig.operation", op),
			attribute.Bool("dbconfig.static", static),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartReloadSpan starts a span for a settings file reload.
func (m *otelSpanManager) StartReloadSpan(ctx context.Context, path string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "dbconfig.reload",
		trace.WithAttributes(attribute.String("dbconfig.file", path)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
