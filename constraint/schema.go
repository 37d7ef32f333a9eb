package constraint

import (
	"reflect"

	"github.com/skosovsky/unifai"
)

// Schema requires a type descriptor (reflect.Type) naming a struct, a pointer
// to struct, or a slice of either. Nothing is instantiated.
type Schema struct{}

// Type implements Constraint.
func (Schema) Type() string { return "Schema" }

// Validate returns the reflect.Type unchanged.
func (Schema) Validate(value any) (any, error) {
	t, ok := value.(reflect.Type)
	if !ok || t == nil {
		return nil, unifai.Violationf(value, "must be a struct type descriptor (reflect.Type), got %s", typeName(value))
	}
	if t.Kind() == reflect.Slice {
		if !isRecord(t.Elem()) {
			return nil, unifai.Violationf(value, "list type must be a struct, got %s", t.Elem())
		}
		return t, nil
	}
	if !isRecord(t) {
		return nil, unifai.Violationf(value, "must be a struct type, got %s", t)
	}
	return t, nil
}

// TypeOf returns the type descriptor for T, for use as a Schema-constrained parameter value.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

func isRecord(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}
