package mapper

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/kaptinlin/jsonrepair"

	"github.com/skosovsky/unifai"
	"github.com/skosovsky/unifai/constraint"
	"github.com/skosovsky/unifai/internal/jsonschema"
)

type outputSchema struct {
	name  string
	field string
}

// OutputSchema writes the strict JSON Schema of a requested output type to a
// request field and, on the way back, decodes content into that type.
// The parameter value is a reflect.Type (see constraint.TypeOf) naming a
// struct or a slice of structs.
func OutputSchema(name, field string) Mapper {
	return outputSchema{name: name, field: field}
}

func (o outputSchema) Name() string { return o.name }

func (o outputSchema) Map(req Request, value any, table constraint.Table, _ *Stash) error {
	t, err := o.outputType(value, table)
	if err != nil || t == nil {
		return err
	}
	schema, err := jsonschema.Generate(t)
	if err != nil {
		return fmt.Errorf("output schema for %s: %w", t, err)
	}
	m, err := schema.Map()
	if err != nil {
		return err
	}
	return req.Set(o.field, m)
}

// ParseOutput decodes string or []byte content as JSON into a new value of the
// requested type. Malformed JSON is repaired once before giving up. Content of
// any other type is re-encoded first.
func (o outputSchema) ParseOutput(content any, value any) (any, error) {
	t, err := o.outputType(value, nil)
	if err != nil || t == nil {
		return content, err
	}
	var raw string
	switch c := content.(type) {
	case string:
		raw = c
	case []byte:
		raw = string(c)
	default:
		data, err := json.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("encode content: %w", err)
		}
		raw = string(data)
	}
	return DecodeJSON(raw, t)
}

func (o outputSchema) outputType(value any, table constraint.Table) (reflect.Type, error) {
	v, err := Validate(o.name, value, table)
	if err != nil || v == nil {
		return nil, err
	}
	t, err := constraint.Schema{}.Validate(v)
	if err != nil {
		return nil, unifai.WithParameter(err, o.name)
	}
	return t.(reflect.Type), nil
}

// DecodeJSON unmarshals raw into a new value of type t, retrying once with a
// repaired document. The result has type t.
func DecodeJSON(raw string, t reflect.Type) (any, error) {
	ptr := reflect.New(t)
	err := json.Unmarshal([]byte(raw), ptr.Interface())
	if err == nil {
		return ptr.Elem().Interface(), nil
	}
	repaired, repairErr := jsonrepair.JSONRepair(raw)
	if repairErr != nil {
		return nil, fmt.Errorf("decode %s: %w (repair failed: %v)", t, err, repairErr)
	}
	ptr = reflect.New(t)
	if err := json.Unmarshal([]byte(repaired), ptr.Interface()); err != nil {
		return nil, fmt.Errorf("decode repaired %s: %w", t, err)
	}
	return ptr.Elem().Interface(), nil
}
