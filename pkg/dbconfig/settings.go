package dbconfig

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/randalmurphal/dbconfig/pkg/dbconfig/dberr"
	"github.com/randalmurphal/dbconfig/pkg/dbconfig/observability"
)

// Setting names as they appear in logs and metrics.
const (
	SettingDatabaseQueryException = "databaseQueryException"
	SettingHookPrefix             = "hookPrefix"
)

// Settings is the capability set of the shared registry. Store is the
// standard implementation; any other type implementing Settings, typically a
// struct embedding *Store, may be installed as the shared instance.
type Settings interface {
	// DatabaseQueryException returns the type used for query errors.
	DatabaseQueryException() reflect.Type

	// SetDatabaseQueryException replaces the query error type. t must be
	// dberr.QueryError or derive from it; otherwise an *ArgumentError is
	// returned and the stored type is unchanged.
	SetDatabaseQueryException(t reflect.Type) error

	// HookPrefix returns the prefix used to namespace hook names.
	HookPrefix() string

	// SetHookPrefix replaces the hook prefix.
	SetHookPrefix(prefix string)
}

// Compile-time interface check.
var _ Settings = (*Store)(nil)

// Store holds the two settings. The zero value is ready to use and reports
// the defaults, but has an empty ID; prefer NewStore.
type Store struct {
	id string

	mu         sync.RWMutex
	queryErr   reflect.Type
	hookPrefix string
}

// NewStore returns a Store with every setting at its default.
func NewStore() *Store {
	return &Store{
		id:       uuid.New().String(),
		queryErr: dberr.Base(),
	}
}

// ID identifies the store in logs. A nil Store has an empty ID.
func (s *Store) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// DatabaseQueryException returns the configured query error type.
// Default: dberr.QueryError.
func (s *Store) DatabaseQueryException() reflect.Type {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.queryErr == nil {
		return dberr.Base()
	}
	return s.queryErr
}

// SetDatabaseQueryException stores t after checking it derives from
// dberr.QueryError. t is stored exactly as given, pointer form included.
func (s *Store) SetDatabaseQueryException(t reflect.Type) error {
	if !dberr.IsQueryErrorType(t) {
		return &ArgumentError{
			Op:   string(OpSetDatabaseQueryException),
			Want: fmt.Sprintf("type must be or must extend %v", dberr.Base()),
			Got:  typeName(t),
		}
	}

	s.mu.Lock()
	old := s.queryErr
	s.queryErr = t
	s.mu.Unlock()

	if old == nil {
		old = dberr.Base()
	}
	s.changed(SettingDatabaseQueryException, old, t)
	return nil
}

// HookPrefix returns the hook prefix. Default: "".
func (s *Store) HookPrefix() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hookPrefix
}

// SetHookPrefix stores prefix unconditionally.
func (s *Store) SetHookPrefix(prefix string) {
	s.mu.Lock()
	old := s.hookPrefix
	s.hookPrefix = prefix
	s.mu.Unlock()

	s.changed(SettingHookPrefix, old, prefix)
}

func (s *Store) changed(setting string, oldVal, newVal any) {
	tel := loadTelemetry()
	observability.LogSettingChanged(tel.logger, setting, oldVal, newVal)
	tel.metrics.RecordSettingChange(context.Background(), setting)
}

// Snapshot is a point-in-time copy of a Settings' values.
type Snapshot struct {
	DatabaseQueryException reflect.Type
	HookPrefix             string
}

// SnapshotOf copies the current values of s.
func SnapshotOf(s Settings) Snapshot {
	return Snapshot{
		DatabaseQueryException: s.DatabaseQueryException(),
		HookPrefix:             s.HookPrefix(),
	}
}

// HookName namespaces an event name with the hook prefix of s.
//
//	s.SetHookPrefix("acme_")
//	dbconfig.HookName(s, "query_failed") // "acme_query_failed"
func HookName(s Settings, name string) string {
	return s.HookPrefix() + name
}

// instanceID returns a log-friendly identifier for s.
func instanceID(s Settings) string {
	if s == nil {
		return ""
	}
	if ider, ok := s.(interface{ ID() string }); ok && ider.ID() != "" {
		return ider.ID()
	}
	return fmt.Sprintf("%T", s)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
