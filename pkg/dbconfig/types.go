package dbconfig

import (
	"fmt"
	"reflect"

	"github.com/randalmurphal/dbconfig/pkg/dbconfig/dberr"
	"github.com/randalmurphal/dbconfig/pkg/dbconfig/registry"
)

// queryErrorTypes maps type names to query error types that settings files
// may refer to. The base type is always present.
var queryErrorTypes = newQueryErrorTypes()

func newQueryErrorTypes() *registry.Registry[string, reflect.Type] {
	r := registry.New[string, reflect.Type]()
	r.Register(dberr.Base().String(), dberr.Base())
	return r
}

// RegisterQueryErrorType makes t selectable by name (t.String()) from
// settings files. t must derive from dberr.QueryError. Registering the same
// type twice is a no-op; registering a different type under a taken name
// fails.
func RegisterQueryErrorType(t reflect.Type) error {
	if !dberr.IsQueryErrorType(t) {
		return &ArgumentError{
			Op:   "registerQueryErrorType",
			Want: fmt.Sprintf("type must be or must extend %v", dberr.Base()),
			Got:  typeName(t),
		}
	}

	name := t.String()
	if existing, loaded := queryErrorTypes.LoadOrStore(name, t); !loaded || existing == t {
		return nil
	}
	return &ArgumentError{
		Op:   "registerQueryErrorType",
		Want: "type name must be unique",
		Got:  name,
	}
}

// LookupQueryErrorType returns the registered type with the given name.
func LookupQueryErrorType(name string) (reflect.Type, bool) {
	return queryErrorTypes.Get(name)
}

// QueryErrorTypes returns the registered type names in ascending order.
func QueryErrorTypes() []string {
	return queryErrorTypes.Keys()
}
