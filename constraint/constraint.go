package constraint

import (
	"fmt"
	"maps"
	"slices"

	"github.com/skosovsky/unifai"
)

// Constraint validates and normalizes one parameter value.
type Constraint interface {
	// Type returns the serialization discriminator (e.g. "Range").
	Type() string
	// Validate returns the validated value or an error wrapping unifai.ErrConstraintViolation.
	Validate(value any) (any, error)
}

// Table maps parameter names to constraints. Read-only once attached to a model.
type Table map[string]Constraint

// Validate checks value against the constraint registered for name.
// Nil values are returned as nil (omission is never an error); names without
// a constraint pass through unchanged. Violations are bound to name.
func (t Table) Validate(name string, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	c, ok := t[name]
	if !ok || c == nil {
		return value, nil
	}
	out, err := c.Validate(value)
	if err != nil {
		return nil, unifai.WithParameter(err, name)
	}
	return out, nil
}

// Names returns the parameter names in sorted order.
func (t Table) Names() []string {
	return slices.Sorted(maps.Keys(t))
}

// Clone returns a shallow copy; constraints themselves are immutable.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	return maps.Clone(t)
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}

// Compile-time checks that every variant implements Constraint.
var (
	_ Constraint = Range{}
	_ Constraint = Choice{}
	_ Constraint = Pattern{}
	_ Constraint = Dimensions{}
	_ Constraint = Schema{}
	_ Constraint = Str{}
	_ Constraint = Int{}
	_ Constraint = Float{}
	_ Constraint = Bool{}
	_ Constraint = Media{}
	_ Constraint = MediaList{}
	_ Constraint = ToolSupport{}
)
