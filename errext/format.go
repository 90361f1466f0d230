// Package errext contains extensions for normal Go errors that are used in getconf.
package errext

import (
	"errors"
)

// Format formats the given error as a message and a map of log fields. The
// hint of a [HasHint] and the code of a [HasExitCode] become fields.
func Format(err error) (string, map[string]interface{}) {
	if err == nil {
		return "", nil
	}

	fields := make(map[string]interface{})
	var herr HasHint
	if errors.As(err, &herr) {
		fields["hint"] = herr.Hint()
	}
	var ecerr HasExitCode
	if errors.As(err, &ecerr) {
		fields["exit_code"] = int(ecerr.ExitCode())
	}

	return err.Error(), fields
}
