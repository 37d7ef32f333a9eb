package constraint

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/skosovsky/unifai"
	"github.com/skosovsky/unifai/internal/cast"
)

// DefaultStepEpsilon is the tolerance for Range step checks when Range.Epsilon is zero.
// It absorbs float drift such as 0.1+0.2 for steps near 1; callers with very small
// or very large steps should set Range.Epsilon explicitly.
const DefaultStepEpsilon = 1e-9

// Range requires a numeric value within [Min, Max], optionally on a Step grid anchored at Min.
// SpecialValues (e.g. -1 for "dynamic") bypass the bounds and the step check.
type Range struct {
	Min           float64
	Max           float64
	Step          *float64
	SpecialValues []float64
	Epsilon       float64
}

// Type implements Constraint.
func (Range) Type() string { return "Range" }

// Validate returns value unchanged (keeping its Go type) when it is in range and on the step grid.
func (r Range) Validate(value any) (any, error) {
	f, ok := cast.ToFloat64(value)
	if !ok {
		return nil, unifai.Violationf(value, "must be numeric, got %s", typeName(value))
	}
	if slices.Contains(r.SpecialValues, f) {
		return value, nil
	}
	if f < r.Min || f > r.Max {
		special := ""
		if len(r.SpecialValues) > 0 {
			special = " or one of " + formatFloats(r.SpecialValues)
		}
		return nil, unifai.Violationf(value, "must be between %s and %s%s, got %v",
			formatFloat(r.Min), formatFloat(r.Max), special, value)
	}
	if r.Step != nil && *r.Step > 0 {
		step := *r.Step
		eps := r.Epsilon
		if eps <= 0 {
			eps = DefaultStepEpsilon
		}
		rem := math.Mod(f-r.Min, step)
		if math.Abs(rem) > eps && math.Abs(rem-step) > eps {
			below := r.Min + math.Trunc((f-r.Min)/step)*step
			above := below + step
			return nil, unifai.Violationf(value, "value must match step %s. Nearest valid: %s or %s, got %v",
				formatFloat(step), formatFloat(below), formatFloat(above), value)
		}
	}
	return value, nil
}

// Int accepts integers, floats without a fractional part and numeric strings; it returns an int.
type Int struct{}

// Type implements Constraint.
func (Int) Type() string { return "Int" }

// Validate converts value to int.
func (Int) Validate(value any) (any, error) {
	switch v := value.(type) {
	case string:
		digits := strings.TrimPrefix(v, "-")
		if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
			return nil, unifai.Violationf(value, "must be int, got %q", v)
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, unifai.Violationf(value, "must be int, got %q", v)
		}
		return n, nil
	case bool:
		return nil, unifai.Violationf(value, "must be int, got bool")
	}
	if n, ok := cast.ToInt64(value); ok {
		return int(n), nil
	}
	if cast.IsInteger(value) {
		return nil, unifai.Violationf(value, "integer %v is out of int range", value)
	}
	if n, ok := cast.IntegralFloat(value); ok {
		return int(n), nil
	}
	if cast.IsNumeric(value) {
		return nil, unifai.Violationf(value, "must be int, got %v", value)
	}
	return nil, unifai.Violationf(value, "must be int, got %s", typeName(value))
}

// Float accepts ints and floats (never bools or strings); it returns a float64.
type Float struct{}

// Type implements Constraint.
func (Float) Type() string { return "Float" }

// Validate converts value to float64.
func (Float) Validate(value any) (any, error) {
	f, ok := cast.ToFloat64(value)
	if !ok {
		return nil, unifai.Violationf(value, "must be float or int, got %s", typeName(value))
	}
	return f, nil
}

// Bool accepts only booleans; 0 and 1 are not coerced.
type Bool struct{}

// Type implements Constraint.
func (Bool) Type() string { return "Bool" }

// Validate returns value when it is a bool.
func (Bool) Validate(value any) (any, error) {
	b, ok := value.(bool)
	if !ok {
		return nil, unifai.Violationf(value, "must be bool, got %s", typeName(value))
	}
	return b, nil
}

// Str accepts strings with optional inclusive rune-length bounds.
type Str struct {
	MinLength *int
	MaxLength *int
}

// Type implements Constraint.
func (Str) Type() string { return "Str" }

// Validate returns value when it is a string of acceptable length.
func (s Str) Validate(value any) (any, error) {
	v, ok := value.(string)
	if !ok {
		return nil, unifai.Violationf(value, "must be string, got %s", typeName(value))
	}
	n := utf8.RuneCountInString(v)
	if s.MinLength != nil && n < *s.MinLength {
		return nil, unifai.Violationf(value, "string too short (min %d), got length %d: %q", *s.MinLength, n, v)
	}
	if s.MaxLength != nil && n > *s.MaxLength {
		return nil, unifai.Violationf(value, "string too long (max %d), got length %d: %q", *s.MaxLength, n, v)
	}
	return v, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatFloats(fs []float64) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = formatFloat(f)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
