// Package types contains the value types getconf decodes configuration into.
// The Null-prefixed types follow gopkg.in/guregu/null.v3: Valid is false when
// no configuration layer provided a value.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Duration is a time.Duration that reads and writes human-readable strings.
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

// ParseDuration parses the duration syntax accepted in configuration files:
// anything time.ParseDuration understands, a leading day count such as
// "2d" or "1d12h", or a bare number which is taken as seconds.
func ParseDuration(data string) (result time.Duration, err error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if t, errp := strconv.ParseFloat(data, 64); errp == nil {
		return time.Duration(t * float64(time.Second)), nil
	}

	dPos := strings.IndexByte(data, 'd')
	if dPos < 0 {
		return time.ParseDuration(data)
	}

	var rest time.Duration
	if dPos+1 < len(data) { // "1d12h"
		rest, err = time.ParseDuration(data[dPos+1:])
		if err != nil {
			return 0, err
		}
		if rest < 0 {
			return 0, fmt.Errorf("invalid duration '%s'", data)
		}
	}

	days, err := strconv.ParseInt(data[:dPos], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration '%s'", data)
	}
	if days < 0 || strings.HasPrefix(data, "-") {
		rest = -rest
	}
	return time.Duration(days)*24*time.Hour + rest, nil
}

// UnmarshalText converts text data to Duration
func (d *Duration) UnmarshalText(data []byte) error {
	v, err := ParseDuration(string(data))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText returns the human-readable form of d
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalJSON accepts either a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		return d.UnmarshalText([]byte(str))
	}
	t, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("'%s' is not a valid duration value", string(data))
	}
	*d = Duration(t * float64(time.Second))
	return nil
}

// MarshalJSON returns the JSON representation of d
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// NullDuration is a nullable Duration.
type NullDuration struct {
	Duration
	Valid bool
}

// NewNullDuration is a simple helper constructor function
func NewNullDuration(d time.Duration, valid bool) NullDuration {
	return NullDuration{Duration(d), valid}
}

// NullDurationFrom returns a new valid NullDuration from a time.Duration.
func NullDurationFrom(d time.Duration) NullDuration {
	return NullDuration{Duration(d), true}
}

// UnmarshalText converts text data to a NullDuration; empty text is null.
func (d *NullDuration) UnmarshalText(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		*d = NullDuration{}
		return nil
	}
	if err := d.Duration.UnmarshalText(data); err != nil {
		return err
	}
	d.Valid = true
	return nil
}

// UnmarshalJSON converts JSON data to a NullDuration
func (d *NullDuration) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte(`null`)) {
		*d = NullDuration{}
		return nil
	}
	if err := json.Unmarshal(data, &d.Duration); err != nil {
		return err
	}
	d.Valid = true
	return nil
}

// MarshalJSON returns the JSON representation of d
func (d NullDuration) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte(`null`), nil
	}
	return d.Duration.MarshalJSON()
}

// ValueOrZero returns the underlying value if valid, 0 otherwise.
func (d NullDuration) ValueOrZero() time.Duration {
	if !d.Valid {
		return 0
	}
	return time.Duration(d.Duration)
}

// TimeDuration returns a NullDuration's value as a stdlib Duration.
func (d NullDuration) TimeDuration() time.Duration {
	return time.Duration(d.Duration)
}

// Int64Value converts any of the builtin integer types to an int64.
func Int64Value(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, fmt.Errorf("%d is too big", n)
		}
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%d is too big", n)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("unable to use type %T as an integer", v)
	}
}

// Float64Value converts any of the builtin numeric types to a float64.
func Float64Value(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		i, err := Int64Value(v)
		if err != nil {
			return 0, fmt.Errorf("unable to use type %T as a float", v)
		}
		return float64(i), nil
	}
}

// DurationValue converts the values a defaults mapping may hold to a
// time.Duration. Numbers are seconds, strings go through ParseDuration.
func DurationValue(v interface{}) (time.Duration, error) {
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case Duration:
		return time.Duration(d), nil
	case string:
		return ParseDuration(d)
	case float32:
		return time.Duration(float64(d) * float64(time.Second)), nil
	case float64:
		return time.Duration(d * float64(time.Second)), nil
	default:
		n, err := Int64Value(v)
		if err != nil {
			return 0, fmt.Errorf("unable to use type %T as a duration value", v)
		}
		return time.Duration(n) * time.Second, nil
	}
}
