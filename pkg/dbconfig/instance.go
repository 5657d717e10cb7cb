package dbconfig

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/randalmurphal/dbconfig/pkg/dbconfig/observability"
)

// The shared instance. Absent until first access or explicit replacement,
// never absent again afterwards.
var (
	slotMu sync.RWMutex
	slot   Settings
)

// Instance resolves or replaces the shared settings instance.
//
// With a nil argument it returns the shared instance, creating one with
// default settings on first use. With a non-nil argument that implements
// Settings, that value becomes the shared instance and is returned. Any
// other argument, including a nil pointer of a Settings type, fails with an
// *ArgumentError wrapping ErrInvalidArgument and leaves the shared instance
// untouched.
func Instance(provided any) (Settings, error) {
	if provided == nil {
		return Current(), nil
	}
	s, ok := provided.(Settings)
	if !ok {
		return nil, &ArgumentError{
			Op:   "instance",
			Want: "provided instance must implement dbconfig.Settings",
			Got:  fmt.Sprintf("%T", provided),
		}
	}
	if err := Use(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the shared instance, creating it on first use.
func Current() Settings {
	slotMu.RLock()
	s := slot
	slotMu.RUnlock()
	if s != nil {
		return s
	}

	slotMu.Lock()
	// Double-check after acquiring write lock
	if slot != nil {
		s = slot
		slotMu.Unlock()
		return s
	}
	store := NewStore()
	slot = store
	slotMu.Unlock()

	observability.LogCreated(loadTelemetry().logger, store.ID())
	return store
}

// Use installs s as the shared instance. The previous instance is dropped,
// not merged: every later Current call sees only the values of s.
func Use(s Settings) error {
	if isNil(s) {
		got := "<nil>"
		if s != nil {
			got = fmt.Sprintf("nil %T", s)
		}
		return &ArgumentError{
			Op:   "instance",
			Want: "provided instance must implement dbconfig.Settings",
			Got:  got,
		}
	}
	if t, ok := nilEmbedded(reflect.ValueOf(s)); ok {
		return &ArgumentError{
			Op:   "instance",
			Want: "provided instance must implement dbconfig.Settings",
			Got:  fmt.Sprintf("%T with nil embedded %v", s, t),
		}
	}
	newID := instanceID(s)

	slotMu.Lock()
	old := slot
	slot = s
	slotMu.Unlock()

	tel := loadTelemetry()
	observability.LogReplaced(tel.logger, instanceID(old), newID)
	tel.metrics.RecordReplacement(context.Background())
	return nil
}

var settingsType = reflect.TypeFor[Settings]()

// nilEmbedded finds a nil embedded field that provides Settings methods,
// such as a struct embedding a *Store that was never set. Calling a
// promoted method through it would dereference nil.
func nilEmbedded(v reflect.Value) (reflect.Type, bool) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, false
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.Pointer, reflect.Interface:
			if fv.IsNil() {
				if f.Type.Implements(settingsType) {
					return f.Type, true
				}
				continue
			}
		case reflect.Struct:
		default:
			continue
		}
		if nt, ok := nilEmbedded(fv); ok {
			return nt, true
		}
	}
	return nil, false
}

// isNil reports whether s is nil or wraps a nil pointer-like value.
func isNil(s Settings) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
