package getconf

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Lookup when no layer provides a key.
var ErrNotFound = errors.New("configuration key not found")

// NotFoundError carries the key that wasn't found.
type NotFoundError struct {
	Key Key
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q (env %s)", ErrNotFound, e.Key.Name(), e.Key.EnvVar)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ConversionError is returned when a value can't be converted to the type a
// getter returns.
type ConversionError struct {
	Key    Key
	Source Source
	Value  interface{}
	Type   string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("invalid %s value %q for %q from %s (env %s): %s",
		e.Type, fmt.Sprint(e.Value), e.Key.Name(), e.Source, e.Key.EnvVar, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Must returns v, or panics if err is not nil. It is meant for settings
// files that can't start without their configuration.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
