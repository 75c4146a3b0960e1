package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData means there is nothing to aggregate: no source loaded, or the
	// selection matched zero rows for an operation that needs at least one.
	ErrNoData = errors.New("no data")

	// ErrUnknownColumn is matched by ConfigErrors naming a column the table
	// does not have.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrInvalidSelection is matched by ConfigErrors for malformed requests
	// (metric not configured, empty metric list, bad source list).
	ErrInvalidSelection = errors.New("invalid selection")
)

// ConfigError is a caller bug: the request names something that does not
// exist. It is never a data condition.
type ConfigError struct {
	Field string // "metric", "groupBy", "sources", ...
	Value string
	Err   error // ErrUnknownColumn or ErrInvalidSelection
}

func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError builds a ConfigError for packages outside the engine.
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{Field: field, Value: value, Err: err}
}

func unknownColumn(field, column string) error {
	return &ConfigError{Field: field, Value: column, Err: ErrUnknownColumn}
}

func invalidSelection(field, value string) error {
	return &ConfigError{Field: field, Value: value, Err: ErrInvalidSelection}
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
