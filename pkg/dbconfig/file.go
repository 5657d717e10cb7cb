package dbconfig

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/randalmurphal/dbconfig/pkg/dbconfig/config"
)

// Keys recognized in settings files.
const (
	KeyDatabaseQueryException = "database_query_exception"
	KeyHookPrefix             = "hook_prefix"
)

// Apply copies the values in cfg onto s.
//
// Every key is checked before anything is written, so a bad file changes
// nothing. An unrecognized key fails with ErrUnknownSetting; a value of the
// wrong type, or a database_query_exception naming a type that was not
// registered with RegisterQueryErrorType, fails with ErrInvalidArgument.
// Keys absent from cfg leave the matching setting alone.
func Apply(s Settings, cfg config.Config) error {
	if isNil(s) {
		return &ArgumentError{Op: "apply", Want: "settings instance required", Got: "<nil>"}
	}

	var (
		prefix    string
		setPrefix bool
		queryErr  reflect.Type
	)
	for _, key := range cfg.Keys() {
		raw, _ := cfg.Lookup(key)
		switch key {
		case KeyHookPrefix:
			p, ok := raw.(string)
			if !ok {
				return &ArgumentError{Op: "apply", Want: KeyHookPrefix + " must be a string", Got: fmt.Sprintf("%T", raw)}
			}
			prefix, setPrefix = p, true

		case KeyDatabaseQueryException:
			name, ok := raw.(string)
			if !ok {
				return &ArgumentError{Op: "apply", Want: KeyDatabaseQueryException + " must be a type name", Got: fmt.Sprintf("%T", raw)}
			}
			t, ok := LookupQueryErrorType(name)
			if !ok {
				return &ArgumentError{
					Op:   "apply",
					Want: fmt.Sprintf("%s must be one of [%s]", KeyDatabaseQueryException, strings.Join(QueryErrorTypes(), ", ")),
					Got:  name,
				}
			}
			queryErr = t

		default:
			return fmt.Errorf("%w: %q", ErrUnknownSetting, key)
		}
	}

	if queryErr != nil {
		if err := s.SetDatabaseQueryException(queryErr); err != nil {
			return err
		}
	}
	if setPrefix {
		s.SetHookPrefix(prefix)
	}
	return nil
}

// FileSection is the top-level key under which a shared application file
// may nest the settings.
const FileSection = "dbconfig"

// LoadFile reads a YAML or JSON settings file and applies it to s.
// When the file has a FileSection mapping only that mapping is applied and
// the other top-level keys are left for their owners.
func LoadFile(s Settings, path string) error {
	cfg, err := config.FromFile(path)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if sec, ok := cfg.Section(FileSection); ok {
		cfg = sec
	}
	return Apply(s, cfg)
}
