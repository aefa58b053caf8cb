// Package coerce converts loosely typed JSON scalars into the canonical
// scalar types used by the tree engine. Every function is total: malformed
// input degrades to the caller's default instead of an error.
package coerce

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var integerString = regexp.MustCompile(`^\d+$`)

// Bool maps true/"1"/1 to true and false/"0"/0 to false. Anything else,
// including nil and other strings, yields def.
func Bool(v any, def bool) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		switch x {
		case "1":
			return true
		case "0":
			return false
		}
	case json.Number:
		return Bool(string(x), def)
	default:
		if f, ok := numeric(v); ok {
			switch f {
			case 1:
				return true
			case 0:
				return false
			}
		}
	}
	return def
}

// Number converts v with ordinary numeric conversion. A blank string is 0.
// nil stands for a missing field and yields def, as do NaN and unparseable
// values. Infinities also yield def so the result always encodes as JSON.
func Number(v any, def float64) float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return def
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return def
		}
		f = parsed
	case json.Number:
		return Number(string(x), def)
	default:
		n, ok := numeric(v)
		if !ok {
			return def
		}
		f = n
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

// Int is Number truncated toward zero.
func Int(v any, def int) int {
	f := Number(v, math.NaN())
	if math.IsNaN(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return def
	}
	return int(f)
}

// NullableID returns nil for nil or the empty string, otherwise the value
// rendered as a string.
func NullableID(v any) *string {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok && s == "" {
		return nil
	}
	s := String(v)
	return &s
}

// IDToNumberIfIntegerString turns strings of decimal digits into numbers
// and passes every other value through unchanged. Results that do not fit
// an int64 become float64.
func IDToNumberIfIntegerString(v any) any {
	s, ok := v.(string)
	if !ok || !integerString.MatchString(s) {
		return v
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return v
	}
	return f
}

// String renders a scalar for display or id use. nil becomes "".
// Integral floats print without a fractional part.
func String(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Truthy follows JavaScript double negation: nil, false, 0, NaN and ""
// are false; everything else (including "0" and empty containers) is true.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return x != ""
		}
		return f != 0 && !math.IsNaN(f)
	default:
		if f, ok := numeric(v); ok {
			return f != 0 && !math.IsNaN(f)
		}
		return true
	}
}

// ID parses a node id into the numeric form used for selection matching.
// Blank, non-numeric and non-finite ids report false.
func ID(v any) (float64, bool) {
	f := Number(v, math.NaN())
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}
