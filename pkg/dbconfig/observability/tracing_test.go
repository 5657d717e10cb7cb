package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest creates a test tracer provider with an in-memory span recorder.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	// Update the package-level tracer
	tracer = otel.Tracer("dbconfig")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		tracer = otel.Tracer("dbconfig")
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}

	return exporter, cleanup
}

func TestStartDispatchSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("creates span with operation attributes", func(t *testing.T) {
		exporter.Reset()

		_, span := sm.StartDispatchSpan(context.Background(), "setHookPrefix", true)
		sm.EndSpanWithError(span, nil)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		s := spans[0]
		assert.Equal(t, "dbconfig.dispatch", s.Name)
		assert.Equal(t, codes.Ok, s.Status.Code)

		var op string
		var static bool
		for _, attr := range s.Attributes {
			switch attr.Key {
			case "dbconfig.operation":
				op = attr.Value.AsString()
			case "dbconfig.static":
				static = attr.Value.AsBool()
			}
		}
		assert.Equal(t, "setHookPrefix", op)
		assert.True(t, static)
	})

	t.Run("records error status", func(t *testing.T) {
		exporter.Reset()

		_, span := sm.StartDispatchSpan(context.Background(), "nope", false)
		sm.EndSpanWithError(span, errors.New("unknown operation"))

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		assert.Equal(t, "unknown operation", spans[0].Status.Description)
		assert.NotEmpty(t, spans[0].Events, "error should be recorded as an event")
	})

	t.Run("returns context with span", func(t *testing.T) {
		exporter.Reset()

		ctx, span := sm.StartDispatchSpan(context.Background(), "getHookPrefix", false)
		defer span.End()

		assert.True(t, span.SpanContext().IsValid())
		assert.NotEqual(t, context.Background(), ctx)
	})
}

func TestStartReloadSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()
	_, span := sm.StartReloadSpan(context.Background(), "/etc/app/dbconfig.yaml")
	sm.EndSpanWithError(span, errors.New("parse yaml"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "dbconfig.reload", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)

	var file string
	for _, attr := range spans[0].Attributes {
		if attr.Key == "dbconfig.file" {
			file = attr.Value.AsString()
		}
	}
	assert.Equal(t, "/etc/app/dbconfig.yaml", file)
}

func TestEndSpanWithError_NilSpan(t *testing.T) {
	sm := NewSpanManager()
	assert.NotPanics(t, func() {
		sm.EndSpanWithError(nil, errors.New("ignored"))
	})
}
