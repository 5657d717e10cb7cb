// Package dberr defines the base error type for failed database queries and
// the type checks used to decide whether a type may stand in for it.
//
// A type "derives" from QueryError when it is QueryError itself or a struct
// that embeds QueryError (by value or by pointer), directly or through another
// embedded struct that does. Pointer forms of those types are accepted too:
//
//	type TimeoutError struct {
//	    dberr.QueryError
//	    After time.Duration
//	}
//
//	dberr.Extends(reflect.TypeFor[*TimeoutError]()) // true
package dberr

import (
	"fmt"
	"reflect"
)

// QueryError is the base error for failed database queries.
type QueryError struct {
	// Query is the statement that failed.
	Query string
	// Err is the underlying driver error.
	Err error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Query == "" {
		return fmt.Sprintf("database query failed: %v", e.Err)
	}
	return fmt.Sprintf("database query failed: %s: %v", e.Query, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *QueryError) Unwrap() error {
	return e.Err
}

var base = reflect.TypeFor[QueryError]()

// Base returns the type identifier of QueryError.
func Base() reflect.Type {
	return base
}

// Extends reports whether t is QueryError or a type derived from it.
// It never instantiates t.
func Extends(t reflect.Type) bool {
	_, ok := pathTo(t)
	return ok
}

// IsQueryErrorType is Extends with a nil check, for validating caller input.
func IsQueryErrorType(t reflect.Type) bool {
	return t != nil && Extends(t)
}

// pathTo returns the field index path from the struct behind t to its
// embedded QueryError. The path is empty when t is QueryError itself.
func pathTo(t reflect.Type) ([]int, bool) {
	if t == nil {
		return nil, false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return search(t, make(map[reflect.Type]bool))
}

func search(t reflect.Type, seen map[reflect.Type]bool) ([]int, bool) {
	if t == base {
		return []int{}, true
	}
	if t.Kind() != reflect.Struct || seen[t] {
		return nil, false
	}
	seen[t] = true

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if rest, ok := search(ft, seen); ok {
			return append([]int{i}, rest...), true
		}
	}
	return nil, false
}

// New builds an error of type t with its embedded QueryError filled in.
// Embedded pointers along the way are allocated. For a pointer or struct t
// the result is always a pointer to the struct, so the pointer-receiver
// Error method of QueryError is promoted.
//
// New panics if t does not derive from QueryError; check with
// IsQueryErrorType first when t comes from outside. When the QueryError is
// only reachable through an unexported embedded field it cannot be set, and a
// plain *QueryError is returned instead.
func New(t reflect.Type, query string, cause error) error {
	path, ok := pathTo(t)
	if !ok {
		panic(fmt.Sprintf("dberr: %v does not derive from %v", t, base))
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	fallback := &QueryError{Query: query, Err: cause}
	root := reflect.New(t)
	v := root.Elem()
	for _, i := range path {
		v = v.Field(i)
		if !v.CanSet() {
			return fallback
		}
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
	}
	qe := v.Addr().Interface().(*QueryError)
	qe.Query = query
	qe.Err = cause

	if err, ok := root.Interface().(error); ok {
		return err
	}
	// t shadows Error with something that isn't the error interface.
	return fallback
}
