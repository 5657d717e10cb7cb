package dbconfig_test

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/dbconfig/pkg/dbconfig"
	"github.com/randalmurphal/dbconfig/pkg/dbconfig/dberr"
)

// typeComparer lets cmp compare reflect.Type fields by identity.
var typeComparer = cmp.Comparer(func(a, b reflect.Type) bool { return a == b })

func TestNewStore_Defaults(t *testing.T) {
	s := dbconfig.NewStore()

	assert.Equal(t, "", s.HookPrefix())
	assert.Equal(t, dberr.Base(), s.DatabaseQueryException())
	assert.NotEmpty(t, s.ID())
}

func TestNewStore_UniqueIDs(t *testing.T) {
	assert.NotEqual(t, dbconfig.NewStore().ID(), dbconfig.NewStore().ID())
}

func TestStore_NilID(t *testing.T) {
	var s *dbconfig.Store
	assert.NotPanics(t, func() {
		assert.Equal(t, "", s.ID())
	})
}

func TestStore_ZeroValue(t *testing.T) {
	var s dbconfig.Store

	assert.Equal(t, "", s.HookPrefix())
	assert.Equal(t, dberr.Base(), s.DatabaseQueryException())
}

func TestStore_HookPrefixRoundTrip(t *testing.T) {
	tests := []string{"", "acme_", "with space", "ünïcödé_", "a/b:c"}

	for _, prefix := range tests {
		t.Run(prefix, func(t *testing.T) {
			s := dbconfig.NewStore()
			s.SetHookPrefix("previous")
			s.SetHookPrefix(prefix)
			assert.Equal(t, prefix, s.HookPrefix())
		})
	}
}

func TestStore_SetDatabaseQueryException(t *testing.T) {
	tests := []struct {
		name    string
		typ     reflect.Type
		wantErr bool
	}{
		{"base type", dberr.Base(), false},
		{"base pointer", reflect.TypeFor[*dberr.QueryError](), false},
		{"direct subtype", reflect.TypeFor[DeadlockError](), false},
		{"direct subtype pointer", reflect.TypeFor[*DeadlockError](), false},
		{"nested subtype", reflect.TypeFor[*TimeoutError](), false},
		{"unrelated error", reflect.TypeFor[*UnrelatedError](), true},
		{"builtin", reflect.TypeFor[int](), true},
		{"nil", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := dbconfig.NewStore()
			before := s.DatabaseQueryException()

			err := s.SetDatabaseQueryException(tt.typ)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, dbconfig.ErrInvalidArgument)
				assert.Contains(t, err.Error(), "dberr.QueryError")
				assert.Equal(t, before, s.DatabaseQueryException(), "stored value must be unchanged")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.typ, s.DatabaseQueryException())
		})
	}
}

func TestStore_SetDatabaseQueryException_ErrorShape(t *testing.T) {
	s := dbconfig.NewStore()

	err := s.SetDatabaseQueryException(reflect.TypeFor[*UnrelatedError]())

	var argErr *dbconfig.ArgumentError
	require.True(t, errors.As(err, &argErr))
	assert.Equal(t, "setDatabaseQueryException", argErr.Op)
	assert.Equal(t, "*dbconfig_test.UnrelatedError", argErr.Got)
	assert.Equal(t,
		"setDatabaseQueryException: type must be or must extend dberr.QueryError, got *dbconfig_test.UnrelatedError",
		err.Error())
}

func TestStore_RecordsChanges(t *testing.T) {
	metrics := newCountingMetrics()
	dbconfig.ConfigureForTest(t, dbconfig.WithMetrics(metrics))

	s := dbconfig.NewStore()
	s.SetHookPrefix("a_")
	s.SetHookPrefix("b_")
	require.NoError(t, s.SetDatabaseQueryException(reflect.TypeFor[DeadlockError]()))
	require.Error(t, s.SetDatabaseQueryException(reflect.TypeFor[UnrelatedError]()))

	metrics.mu.Lock()
	defer metrics.mu.Unlock()
	assert.Equal(t, 2, metrics.changes[dbconfig.SettingHookPrefix])
	assert.Equal(t, 1, metrics.changes[dbconfig.SettingDatabaseQueryException], "rejected values are not changes")
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := dbconfig.NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetHookPrefix("p_")
			_ = s.SetDatabaseQueryException(reflect.TypeFor[*DeadlockError]())
		}()
		go func() {
			defer wg.Done()
			_ = s.HookPrefix()
			_ = s.DatabaseQueryException()
		}()
	}
	wg.Wait()

	want := dbconfig.Snapshot{
		DatabaseQueryException: reflect.TypeFor[*DeadlockError](),
		HookPrefix:             "p_",
	}
	if diff := cmp.Diff(want, dbconfig.SnapshotOf(s), typeComparer); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotOf_CustomSettings(t *testing.T) {
	snap := dbconfig.SnapshotOf(&ReadOnlySettings{Prefix: "ro_"})

	want := dbconfig.Snapshot{DatabaseQueryException: dberr.Base(), HookPrefix: "ro_"}
	if diff := cmp.Diff(want, snap, typeComparer); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestHookName(t *testing.T) {
	s := dbconfig.NewStore()
	assert.Equal(t, "query_failed", dbconfig.HookName(s, "query_failed"))

	s.SetHookPrefix("acme_")
	assert.Equal(t, "acme_query_failed", dbconfig.HookName(s, "query_failed"))
}

func TestErrorTypes(t *testing.T) {
	opErr := &dbconfig.OperationError{Name: "dropTables"}
	assert.Equal(t, "method dropTables does not exist", opErr.Error())
	assert.ErrorIs(t, opErr, dbconfig.ErrUnknownOperation)
	assert.NotErrorIs(t, opErr, dbconfig.ErrInvalidArgument)

	argErr := &dbconfig.ArgumentError{Op: "instance", Want: "must implement dbconfig.Settings"}
	assert.Equal(t, "instance: must implement dbconfig.Settings", argErr.Error())
	assert.ErrorIs(t, argErr, dbconfig.ErrInvalidArgument)
}
