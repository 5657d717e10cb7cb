package dbconfig

import (
	"context"
	"reflect"
)

// std is the gateway behind the package-level calls.
var std Gateway

// Call invokes the named operation on s through the default gateway.
func Call(s Settings, name string, args ...any) (any, error) {
	return std.Call(context.Background(), s, name, args...)
}

// CallStatic invokes the named operation on the shared instance through
// the default gateway.
func CallStatic(name string, args ...any) (any, error) {
	return std.CallStatic(context.Background(), name, args...)
}

// DatabaseQueryException returns the query error type of the shared instance.
func DatabaseQueryException() reflect.Type {
	v, _ := CallStatic(string(OpGetDatabaseQueryException))
	t, _ := v.(reflect.Type)
	return t
}

// SetDatabaseQueryException sets the query error type of the shared instance.
func SetDatabaseQueryException(t reflect.Type) error {
	_, err := CallStatic(string(OpSetDatabaseQueryException), t)
	return err
}

// HookPrefix returns the hook prefix of the shared instance.
func HookPrefix() string {
	v, _ := CallStatic(string(OpGetHookPrefix))
	s, _ := v.(string)
	return s
}

// SetHookPrefix sets the hook prefix of the shared instance.
func SetHookPrefix(prefix string) {
	_, _ = CallStatic(string(OpSetHookPrefix), prefix)
}
