package getconf

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/guregu/null.v3"

	"github.com/bors-ltd/getconf/errext"
	"github.com/bors-ltd/getconf/errext/exitcodes"
	"github.com/bors-ltd/getconf/lib/types"
)

// lookupAs resolves key and converts whatever layer provided it. found is
// false when no layer did, in which case the caller's default applies.
func lookupAs[T any](
	g *Getter, key, doc, typ string, conv func(interface{}) (T, error),
) (value T, found bool, err error) {
	k, v, src, err := g.resolve(key, doc)
	if err != nil || src == SourceNone {
		return value, false, err
	}
	value, err = conv(v)
	if err != nil {
		cerr := &ConversionError{Key: k, Source: src, Value: v, Type: typ, Err: err}
		return value, true, errext.WithExitCodeIfNone(cerr, exitcodes.ConversionFailed)
	}
	return value, true, nil
}

// String returns the value of key, or def if no layer provides it.
func (g *Getter) String(key, def, doc string) (string, error) {
	v, found, err := lookupAs(g, key, doc, "string", toString)
	if !found && err == nil {
		return def, nil
	}
	return v, err
}

// Get is the original name of String.
//
// Deprecated: use String.
func (g *Getter) Get(key, def, doc string) (string, error) {
	g.deprecated.Do(func() {
		g.logger.Warn("Use of Get() directly is deprecated. Use String() instead")
	})
	return g.String(key, def, doc)
}

// List returns the value of key split on commas, see ListSep.
func (g *Getter) List(key string, def []string, doc string) ([]string, error) {
	return g.ListSep(key, def, doc, ",")
}

// ListSep returns the value of key split on sep. Items are trimmed and
// empty ones dropped, so "a, b,,c" is [a b c]. A copy of def is returned
// when no layer provides the key.
func (g *Getter) ListSep(key string, def []string, doc, sep string) ([]string, error) {
	v, found, err := lookupAs(g, key, doc, "list", func(v interface{}) ([]string, error) {
		return toList(v, sep)
	})
	if !found && err == nil {
		if def == nil {
			return nil, nil
		}
		return append([]string{}, def...), nil
	}
	return v, err
}

// Bool returns whether the value of key, once surrounding whitespace is
// trimmed, is one of "on", "yes", "true" or "1", case insensitively, so
// " Yes " is true. Any other value is false.
func (g *Getter) Bool(key string, def bool, doc string) (bool, error) {
	v, found, err := lookupAs(g, key, doc, "bool", toBool)
	if !found && err == nil {
		return def, nil
	}
	return v, err
}

// Int returns the value of key as a base 10 integer.
func (g *Getter) Int(key string, def int, doc string) (int, error) {
	v, found, err := lookupAs(g, key, doc, "int", toInt)
	if !found && err == nil {
		return def, nil
	}
	return int(v), err
}

// Float returns the value of key as a float64.
func (g *Getter) Float(key string, def float64, doc string) (float64, error) {
	v, found, err := lookupAs(g, key, doc, "float", toFloat)
	if !found && err == nil {
		return def, nil
	}
	return v, err
}

// Duration returns the value of key as a time.Duration. Besides the
// time.ParseDuration syntax, a day count ("1d12h") and a bare number of
// seconds are accepted.
func (g *Getter) Duration(key string, def time.Duration, doc string) (time.Duration, error) {
	v, found, err := lookupAs(g, key, doc, "duration", types.DurationValue)
	if !found && err == nil {
		return def, nil
	}
	return v, err
}

// NullString is String without a default: the result is invalid when no
// layer provides key.
func (g *Getter) NullString(key, doc string) (null.String, error) {
	v, found, err := lookupAs(g, key, doc, "string", toString)
	return null.NewString(v, found && err == nil), err
}

// NullBool is Bool without a default.
func (g *Getter) NullBool(key, doc string) (null.Bool, error) {
	v, found, err := lookupAs(g, key, doc, "bool", toBool)
	return null.NewBool(v, found && err == nil), err
}

// NullInt is Int without a default.
func (g *Getter) NullInt(key, doc string) (null.Int, error) {
	v, found, err := lookupAs(g, key, doc, "int", toInt)
	return null.NewInt(v, found && err == nil), err
}

// NullFloat is Float without a default.
func (g *Getter) NullFloat(key, doc string) (null.Float, error) {
	v, found, err := lookupAs(g, key, doc, "float", toFloat)
	return null.NewFloat(v, found && err == nil), err
}

// NullDuration is Duration without a default.
func (g *Getter) NullDuration(key, doc string) (types.NullDuration, error) {
	v, found, err := lookupAs(g, key, doc, "duration", types.DurationValue)
	return types.NewNullDuration(v, found && err == nil), err
}

func toString(v interface{}) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []string:
		return strings.Join(s, ","), nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return fmt.Sprint(v), nil
	}
}

func toList(v interface{}, sep string) ([]string, error) {
	switch l := v.(type) {
	case string:
		return splitList(l, sep), nil
	case []string:
		return append([]string{}, l...), nil
	case []interface{}:
		res := make([]string, 0, len(l))
		for _, item := range l {
			s, _ := toString(item)
			res = append(res, s)
		}
		return res, nil
	default:
		return nil, fmt.Errorf("unable to use type %T as a list", v)
	}
}

func splitList(value, sep string) []string {
	res := []string{}
	for _, item := range strings.Split(value, sep) {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}
	return res
}

func toBool(v interface{}) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	s, _ := toString(v)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes", "true", "1":
		return true, nil
	default:
		return false, nil
	}
}

func toInt(v interface{}) (int64, error) {
	if s, ok := v.(string); ok {
		return strconv.ParseInt(strings.TrimSpace(s), 10, 0)
	}
	return types.Int64Value(v)
}

func toFloat(v interface{}) (float64, error) {
	if s, ok := v.(string); ok {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}
	return types.Float64Value(v)
}
