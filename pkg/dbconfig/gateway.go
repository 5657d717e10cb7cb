package dbconfig

import (
	"context"
	"fmt"
	"reflect"

	"github.com/randalmurphal/dbconfig/pkg/dbconfig/observability"
)

// Op names an operation the gateway will route.
type Op string

// The allowlist. No other names are routed.
const (
	OpGetDatabaseQueryException Op = "getDatabaseQueryException"
	OpGetHookPrefix             Op = "getHookPrefix"
	OpSetDatabaseQueryException Op = "setDatabaseQueryException"
	OpSetHookPrefix             Op = "setHookPrefix"
)

// Ops returns the allowlist in a fixed order.
func Ops() []Op {
	return []Op{
		OpGetDatabaseQueryException,
		OpGetHookPrefix,
		OpSetDatabaseQueryException,
		OpSetHookPrefix,
	}
}

// ParseOp looks name up in the allowlist. Matching is exact.
func ParseOp(name string) (Op, bool) {
	switch op := Op(name); op {
	case OpGetDatabaseQueryException, OpGetHookPrefix, OpSetDatabaseQueryException, OpSetHookPrefix:
		return op, true
	default:
		return "", false
	}
}

// Gateway routes operations by name to a Settings. The zero value is ready
// to use and follows the package telemetry set with Configure.
type Gateway struct {
	tel *telemetry
}

// NewGateway returns a Gateway with its own telemetry, starting from the
// current package telemetry and applying opts on top.
func NewGateway(opts ...Option) *Gateway {
	tel := *loadTelemetry()
	for _, opt := range opts {
		opt(&tel)
	}
	return &Gateway{tel: &tel}
}

func (g *Gateway) telemetry() *telemetry {
	if g.tel != nil {
		return g.tel
	}
	return loadTelemetry()
}

// Call invokes the named operation on s with args.
//
// Unknown names fail with an *OperationError. Known names forward args to
// the matching Settings method; the result of a getter is returned as is,
// setters return nil. Wrong argument counts or types fail with an
// *ArgumentError, as do errors from the setter itself.
func (g *Gateway) Call(ctx context.Context, s Settings, name string, args ...any) (any, error) {
	return g.call(ctx, s, name, false, args)
}

// CallStatic resolves the shared instance with Current and then behaves
// like Call.
func (g *Gateway) CallStatic(ctx context.Context, name string, args ...any) (any, error) {
	return g.call(ctx, Current(), name, true, args)
}

func (g *Gateway) call(ctx context.Context, s Settings, name string, static bool, args []any) (any, error) {
	tel := g.telemetry()

	ctx, span := tel.spans.StartDispatchSpan(ctx, name, static)
	result, err := dispatch(s, name, args)
	tel.spans.EndSpanWithError(span, err)

	tel.metrics.RecordDispatch(ctx, name, err)
	if err != nil {
		observability.LogDispatchError(tel.logger, name, err)
	}
	return result, err
}

func dispatch(s Settings, name string, args []any) (any, error) {
	op, ok := ParseOp(name)
	if !ok {
		return nil, &OperationError{Name: name}
	}
	if isNil(s) {
		return nil, &ArgumentError{Op: name, Want: "settings instance required", Got: "<nil>"}
	}

	switch op {
	case OpGetDatabaseQueryException:
		if err := checkArity(op, args, 0); err != nil {
			return nil, err
		}
		return s.DatabaseQueryException(), nil

	case OpGetHookPrefix:
		if err := checkArity(op, args, 0); err != nil {
			return nil, err
		}
		return s.HookPrefix(), nil

	case OpSetDatabaseQueryException:
		if err := checkArity(op, args, 1); err != nil {
			return nil, err
		}
		t, ok := args[0].(reflect.Type)
		if !ok {
			return nil, &ArgumentError{Op: string(op), Want: "argument must be a reflect.Type", Got: fmt.Sprintf("%T", args[0])}
		}
		return nil, s.SetDatabaseQueryException(t)

	case OpSetHookPrefix:
		if err := checkArity(op, args, 1); err != nil {
			return nil, err
		}
		prefix, ok := args[0].(string)
		if !ok {
			return nil, &ArgumentError{Op: string(op), Want: "argument must be a string", Got: fmt.Sprintf("%T", args[0])}
		}
		s.SetHookPrefix(prefix)
		return nil, nil
	}

	// ParseOp and the switch above list the same names.
	return nil, &OperationError{Name: name}
}

func checkArity(op Op, args []any, want int) error {
	if len(args) == want {
		return nil
	}
	return &ArgumentError{
		Op:   string(op),
		Want: fmt.Sprintf("expects %d argument(s)", want),
		Got:  fmt.Sprintf("%d", len(args)),
	}
}
