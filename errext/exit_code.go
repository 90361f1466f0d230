package errext

import (
	"errors"

	"github.com/bors-ltd/getconf/errext/exitcodes"
)

// HasExitCode is implemented by errors that decide the status the getconf
// command exits with.
type HasExitCode interface {
	error
	ExitCode() exitcodes.ExitCode
}

// WithExitCodeIfNone tags err with code unless a code is already set
// somewhere in its chain, so the first failing layer wins: a file that
// can't be parsed stays InvalidConfig even when the lookup wraps it.
func WithExitCodeIfNone(err error, code exitcodes.ExitCode) error {
	if err == nil {
		return nil
	}
	if _, ok := ExitCodeOf(err); ok {
		return err
	}
	return &exitCodeError{err: err, code: code}
}

// ExitCodeOf returns the exit code attached to err, if any.
func ExitCodeOf(err error) (exitcodes.ExitCode, bool) {
	var ecerr HasExitCode
	if !errors.As(err, &ecerr) {
		return 0, false
	}
	return ecerr.ExitCode(), true
}

type exitCodeError struct {
	err  error
	code exitcodes.ExitCode
}

func (e *exitCodeError) Error() string                { return e.err.Error() }
func (e *exitCodeError) Unwrap() error                { return e.err }
func (e *exitCodeError) ExitCode() exitcodes.ExitCode { return e.code }
