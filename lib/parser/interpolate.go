package parser

import (
	"errors"
	"fmt"
	"strings"
)

// MaxInterpolationDepth bounds how many %(name)s references may be chained.
const MaxInterpolationDepth = 10

var (
	// ErrInterpolationSyntax is returned for a '%' that isn't followed by
	// '%' or a well formed "(name)s" reference.
	ErrInterpolationSyntax = errors.New("bad interpolation syntax")
	// ErrInterpolationMissing is returned when a reference names an entry
	// that doesn't exist.
	ErrInterpolationMissing = errors.New("interpolation references a missing entry")
	// ErrInterpolationDepth is returned for references nested too deeply,
	// including reference cycles.
	ErrInterpolationDepth = errors.New("interpolation too deeply nested")
)

// InterpolationError reports which entry could not be interpolated.
type InterpolationError struct {
	Section string
	Name    string
	Detail  string
	Err     error
}

func (e *InterpolationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s: %s", e.Section, e.Name, e.Err, e.Detail)
}

func (e *InterpolationError) Unwrap() error {
	return e.Err
}

// Value returns the final value of an entry: %(name)s references are
// replaced by the value of that entry in the same section (or the default
// section) and "%%" becomes "%".
func (d *Document) Value(section, name string) (string, bool, error) {
	entry, ok := d.Entry(section, name)
	if !ok {
		return "", false, nil
	}
	if !entry.Interpolate || !strings.Contains(entry.Value, "%") {
		return entry.Value, true, nil
	}
	var sb strings.Builder
	if err := d.interpolate(&sb, section, strings.ToLower(name), entry.Value, 1); err != nil {
		return "", true, err
	}
	return sb.String(), true, nil
}

func (d *Document) interpolate(sb *strings.Builder, section, name, rest string, depth int) error {
	if depth > MaxInterpolationDepth {
		return &InterpolationError{section, name, rest, ErrInterpolationDepth}
	}
	for rest != "" {
		p := strings.IndexByte(rest, '%')
		if p < 0 {
			sb.WriteString(rest)
			return nil
		}
		sb.WriteString(rest[:p])
		rest = rest[p:]

		if len(rest) < 2 {
			return &InterpolationError{section, name, "'%' must be followed by '%' or '('", ErrInterpolationSyntax}
		}
		switch rest[1] {
		case '%':
			sb.WriteByte('%')
			rest = rest[2:]
		case '(':
			end := strings.IndexByte(rest, ')')
			if end < 3 || end+1 >= len(rest) || rest[end+1] != 's' {
				return &InterpolationError{section, name, "bad interpolation variable reference " + rest, ErrInterpolationSyntax}
			}
			ref := strings.ToLower(rest[2:end])
			rest = rest[end+2:]

			entry, ok := d.Entry(section, ref)
			if !ok {
				return &InterpolationError{section, name, "no entry named " + ref, ErrInterpolationMissing}
			}
			if entry.Interpolate && strings.Contains(entry.Value, "%") {
				if err := d.interpolate(sb, section, ref, entry.Value, depth+1); err != nil {
					return err
				}
			} else {
				sb.WriteString(entry.Value)
			}
		default:
			return &InterpolationError{section, name, "'%' must be followed by '%' or '(', found: " + rest, ErrInterpolationSyntax}
		}
	}
	return nil
}
