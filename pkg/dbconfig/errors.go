package dbconfig

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to classify failures from any entry point.
var (
	// ErrInvalidArgument indicates a value was rejected by validation:
	// a replacement instance that is not a Settings, a query error type that
	// does not derive from dberr.QueryError, or a call with the wrong arguments.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownOperation indicates a gateway call named an operation
	// outside the allowlist.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrUnknownSetting indicates a settings file contained an unrecognized key.
	ErrUnknownSetting = errors.New("unknown setting")
)

// ArgumentError describes a rejected argument.
type ArgumentError struct {
	// Op is the operation that rejected the argument.
	Op string
	// Want states the requirement that was not met.
	Want string
	// Got describes what was supplied.
	Got string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Want)
	}
	return fmt.Sprintf("%s: %s, got %s", e.Op, e.Want, e.Got)
}

// Unwrap returns ErrInvalidArgument for errors.Is support.
func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// OperationError reports a gateway call to an operation that does not exist.
type OperationError struct {
	// Name is the operation name as supplied by the caller.
	Name string
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	return fmt.Sprintf("method %s does not exist", e.Name)
}

// Unwrap returns ErrUnknownOperation for errors.Is support.
func (e *OperationError) Unwrap() error {
	return ErrUnknownOperation
}
