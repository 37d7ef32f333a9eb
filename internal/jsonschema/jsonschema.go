package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Schema is the subset of JSON Schema needed for structured outputs.
type Schema struct {
	Type                 string             `json:"type,omitempty"`
	Description          string             `json:"description,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`
	Enum                 []any              `json:"enum,omitempty"`
	Ref                  string             `json:"$ref,omitempty"`
	Defs                 map[string]*Schema `json:"$defs,omitempty"`
}

// Map returns the schema as a generic JSON object, ready to embed in a request.
func (s *Schema) Map() (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: marshal: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("jsonschema: unmarshal: %w", err)
	}
	return out, nil
}

// String returns the compact JSON form.
func (s *Schema) String() string {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

// For returns the schema for T.
func For[T any]() (*Schema, error) {
	return Generate(reflect.TypeFor[T]())
}

// Generate returns the schema for t. Pointers are dereferenced; channels,
// functions and interfaces cannot be described and yield an error.
func Generate(t reflect.Type) (*Schema, error) {
	if t == nil {
		return nil, fmt.Errorf("jsonschema: nil type")
	}
	g := &generator{
		names: make(map[reflect.Type]string),
		defs:  make(map[string]*Schema),
	}
	s, err := g.schema(t)
	if err != nil {
		return nil, err
	}
	if len(g.defs) > 0 {
		s.Defs = g.defs
	}
	return s, nil
}

type generator struct {
	names map[reflect.Type]string // recursive struct types already under $defs
	defs  map[string]*Schema
}

func (g *generator) schema(t reflect.Type) (*Schema, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}, nil
	case reflect.Bool:
		return &Schema{Type: "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}, nil
	case reflect.Slice, reflect.Array:
		items, err := g.schema(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items}, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("jsonschema: map key must be string, got %s", t.Key())
		}
		values, err := g.schema(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "object", AdditionalProperties: values}, nil
	case reflect.Struct:
		return g.object(t)
	default:
		return nil, fmt.Errorf("jsonschema: unsupported kind %s", t.Kind())
	}
}

func (g *generator) object(t reflect.Type) (*Schema, error) {
	if name, ok := g.names[t]; ok {
		return &Schema{Ref: "#/$defs/" + name}, nil
	}
	recursive := refersTo(t, t, make(map[reflect.Type]bool))
	var name string
	if recursive {
		name = defName(t)
		g.names[t] = name
	}

	s := &Schema{Type: "object", Properties: make(map[string]*Schema), AdditionalProperties: false}
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		fieldName, omitEmpty, skip := jsonName(f)
		if skip {
			continue
		}
		fs, err := g.schema(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		required, err := applyTag(f, fs)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		s.Properties[fieldName] = fs
		if required || (f.Type.Kind() != reflect.Pointer && !omitEmpty) {
			s.Required = append(s.Required, fieldName)
		}
	}

	if !recursive {
		return s, nil
	}
	g.defs[name] = s
	return &Schema{Ref: "#/$defs/" + name}, nil
}

func jsonName(f reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name, strings.Contains(opts, "omitempty"), false
}

// applyTag reads `jsonschema:"description=...,enum=a,enum=b,required"`.
func applyTag(f reflect.StructField, s *Schema) (bool, error) {
	tag := f.Tag.Get("jsonschema")
	if tag == "" || s.Ref != "" {
		return tag == "required", nil
	}
	required := false
	for item := range strings.SplitSeq(tag, ",") {
		key, value, hasValue := strings.Cut(item, "=")
		switch {
		case !hasValue && key == "required":
			required = true
		case key == "description":
			s.Description = value
		case key == "enum":
			v, err := enumValue(f.Type, value)
			if err != nil {
				return false, err
			}
			s.Enum = append(s.Enum, v)
		}
	}
	return required, nil
}

func enumValue(t reflect.Type, raw string) (any, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return raw, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.ParseInt(raw, 10, 64)
	case reflect.Float32, reflect.Float64:
		return strconv.ParseFloat(raw, 64)
	case reflect.Bool:
		return strconv.ParseBool(raw)
	default:
		return nil, fmt.Errorf("jsonschema: enum unsupported for %s", t)
	}
}

// refersTo reports whether current reaches target through its fields.
func refersTo(target, current reflect.Type, seen map[reflect.Type]bool) bool {
	if seen[current] {
		return false
	}
	seen[current] = true
	for i := range current.NumField() {
		ft := current.Field(i).Type
		for ft.Kind() == reflect.Pointer || ft.Kind() == reflect.Slice ||
			ft.Kind() == reflect.Array || ft.Kind() == reflect.Map {
			ft = ft.Elem()
		}
		if ft == target {
			return true
		}
		if ft.Kind() == reflect.Struct && refersTo(target, ft, seen) {
			return true
		}
	}
	return false
}

func defName(t reflect.Type) string {
	if t.Name() == "" {
		return "anonymous"
	}
	return strings.ToLower(t.Name())
}
