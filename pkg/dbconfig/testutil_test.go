package dbconfig_test

import (
	"context"
	"reflect"
	"sync"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/dbconfig/pkg/dbconfig"
	"github.com/randalmurphal/dbconfig/pkg/dbconfig/dberr"
	"github.com/randalmurphal/dbconfig/pkg/dbconfig/observability"
)

// Query error types used across tests.

// DeadlockError derives from the base type by value.
type DeadlockError struct {
	dberr.QueryError
	Victim string
}

// TimeoutError derives from DeadlockError, two levels down.
type TimeoutError struct {
	DeadlockError
}

// UnrelatedError is an error that does not embed dberr.QueryError.
type UnrelatedError struct {
	Msg string
}

func (e *UnrelatedError) Error() string { return e.Msg }

// TenantSettings is a Settings built by embedding *Store.
type TenantSettings struct {
	*dbconfig.Store
	Tenant string
}

// ReadOnlySettings implements Settings without Store and refuses type changes.
type ReadOnlySettings struct {
	Prefix string
}

func (r *ReadOnlySettings) DatabaseQueryException() reflect.Type { return dberr.Base() }

func (r *ReadOnlySettings) SetDatabaseQueryException(_ reflect.Type) error {
	return &dbconfig.ArgumentError{Op: "setDatabaseQueryException", Want: "read only"}
}

func (r *ReadOnlySettings) HookPrefix() string { return r.Prefix }

func (r *ReadOnlySettings) SetHookPrefix(string) {}

// countingMetrics records calls for assertions.
type countingMetrics struct {
	mu             sync.Mutex
	dispatch       map[string]int
	dispatchErrors map[string]int
	replacements   int
	changes        map[string]int
	reloads        int
	reloadErrors   int
}

var _ observability.MetricsRecorder = (*countingMetrics)(nil)

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{
		dispatch:       make(map[string]int),
		dispatchErrors: make(map[string]int),
		changes:        make(map[string]int),
	}
}

func (m *countingMetrics) RecordDispatch(_ context.Context, op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatch[op]++
	if err != nil {
		m.dispatchErrors[op]++
	}
}

func (m *countingMetrics) RecordReplacement(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replacements++
}

func (m *countingMetrics) RecordSettingChange(_ context.Context, setting string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changes[setting]++
}

func (m *countingMetrics) RecordReload(_ context.Context, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reloads++
	if err != nil {
		m.reloadErrors++
	}
}

func (m *countingMetrics) snapshot() (dispatch, dispatchErrors map[string]int, replacements int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := make(map[string]int, len(m.dispatch))
	for k, v := range m.dispatch {
		d[k] = v
	}
	e := make(map[string]int, len(m.dispatchErrors))
	for k, v := range m.dispatchErrors {
		e[k] = v
	}
	return d, e, m.replacements
}

// spanManager names spans after the operation and records errors.
type spanManager struct {
	tp oteltrace.TracerProvider
}

var _ observability.SpanManager = spanManager{}

func (m spanManager) StartDispatchSpan(ctx context.Context, op string, _ bool) (context.Context, oteltrace.Span) {
	return m.tp.Tracer("dbconfig_test").Start(ctx, op)
}

func (m spanManager) StartReloadSpan(ctx context.Context, path string) (context.Context, oteltrace.Span) {
	return m.tp.Tracer("dbconfig_test").Start(ctx, "reload "+path)
}

func (m spanManager) EndSpanWithError(span oteltrace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}
