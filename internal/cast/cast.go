// Package cast provides type conversion helpers for loosely typed parameter values (map[string]any and similar).
package cast

import (
	"math"
	"reflect"
)

// IsNumeric reports whether v is an int, uint or float kind. Booleans and strings are not numeric.
func IsNumeric(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.CanInt() || rv.CanUint() || rv.CanFloat()
}

// IsInteger reports whether v is an int or uint kind.
func IsInteger(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.CanInt() || rv.CanUint()
}

// ToFloat64 converts a numeric value to float64. Supports int/uint/float kinds, including named types.
func ToFloat64(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanFloat():
		return rv.Float(), true
	case rv.CanInt():
		return float64(rv.Int()), true
	case rv.CanUint():
		return float64(rv.Uint()), true
	default:
		return 0, false
	}
}

// ToInt64 converts an integer value to int64. Uints above math.MaxInt64 are rejected.
// Floats are rejected; use IntegralFloat for lossless float conversion.
func ToInt64(v any) (int64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		return rv.Int(), true
	case rv.CanUint():
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	default:
		return 0, false
	}
}

// IntegralFloat converts a float with no fractional part to int64.
// NaN, infinities, fractional values and out-of-range values are rejected.
func IntegralFloat(v any) (int64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	if !rv.CanFloat() {
		return 0, false
	}
	f := rv.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// ToStringSlice converts v to []string. Accepts []string or []any where each element is string.
func ToStringSlice(v any) ([]string, bool) {
	if ss, ok := v.([]string); ok {
		return ss, true
	}
	slice, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(slice))
	for _, e := range slice {
		s, ok := e.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
