// Package exitcodes contains the process exit codes used by the getconf CLI.
package exitcodes

// ExitCode is just a type representing a process exit code for getconf
type ExitCode uint8

// list of exit codes used by getconf
const (
	InvalidConfig    ExitCode = 2 // a configuration file couldn't be parsed
	KeyNotFound      ExitCode = 3 // no layer provides the requested key
	ConversionFailed ExitCode = 4 // the value doesn't convert to the requested type
	InvalidUsage     ExitCode = 64
)
