package errext

import "errors"

// HasHint is implemented by errors that tell the user what to change, e.g.
// which configuration file to fix or which environment variable to set.
type HasHint interface {
	error
	Hint() string
}

// WithHint attaches hint to err and returns nil for a nil err. A hint
// already present further down the chain is kept in parentheses:
// "set BLUSERS_CONFIG (fix the syntax of /etc/blusers.ini)".
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	var inner HasHint
	if errors.As(err, &inner) {
		hint += " (" + inner.Hint() + ")"
	}
	return &hintError{err: err, hint: hint}
}

type hintError struct {
	err  error
	hint string
}

func (e *hintError) Error() string { return e.err.Error() }
func (e *hintError) Unwrap() error { return e.err }
func (e *hintError) Hint() string  { return e.hint }
