package constraint

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/skosovsky/unifai"
)

// ErrUnknownConstraint is returned when a Spec names a type outside the closed constraint set.
var ErrUnknownConstraint = errors.New("constraint: unknown constraint type")

// ErrInvalidSpec is returned when a Spec is missing fields its type requires.
var ErrInvalidSpec = errors.New("constraint: invalid constraint spec")

// Spec is the data form of a Constraint, discriminated by Type.
// Only the fields relevant to Type are read.
type Spec struct {
	Type string `yaml:"type" json:"type"`

	// Range
	Min           *float64  `yaml:"min,omitempty" json:"min,omitempty"`
	Max           *float64  `yaml:"max,omitempty" json:"max,omitempty"`
	Step          *float64  `yaml:"step,omitempty" json:"step,omitempty"`
	SpecialValues []float64 `yaml:"special_values,omitempty" json:"special_values,omitempty"`
	Epsilon       float64   `yaml:"epsilon,omitempty" json:"epsilon,omitempty"`

	// Choice
	Options []any `yaml:"options,omitempty" json:"options,omitempty"`

	// Pattern
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	// Dimensions
	MinPixels int               `yaml:"min_pixels,omitempty" json:"min_pixels,omitempty"`
	MaxPixels int               `yaml:"max_pixels,omitempty" json:"max_pixels,omitempty"`
	MinAspect float64           `yaml:"min_aspect_ratio,omitempty" json:"min_aspect_ratio,omitempty"`
	MaxAspect float64           `yaml:"max_aspect_ratio,omitempty" json:"max_aspect_ratio,omitempty"`
	Presets   map[string]string `yaml:"presets,omitempty" json:"presets,omitempty"`

	// Str
	MinLength *int `yaml:"min_length,omitempty" json:"min_length,omitempty"`
	MaxLength *int `yaml:"max_length,omitempty" json:"max_length,omitempty"`

	// Media
	MimeTypes []string `yaml:"mime_types,omitempty" json:"mime_types,omitempty"`
	MaxCount  int      `yaml:"max_count,omitempty" json:"max_count,omitempty"`

	// ToolSupport
	Tools []string `yaml:"tools,omitempty" json:"tools,omitempty"`
}

// Decode builds the Constraint described by s.
func Decode(s Spec) (Constraint, error) {
	switch s.Type {
	case "Range":
		if s.Min == nil || s.Max == nil {
			return nil, fmt.Errorf("%w: Range requires min and max", ErrInvalidSpec)
		}
		if *s.Min > *s.Max {
			return nil, fmt.Errorf("%w: Range min %v exceeds max %v", ErrInvalidSpec, *s.Min, *s.Max)
		}
		return Range{Min: *s.Min, Max: *s.Max, Step: s.Step, SpecialValues: s.SpecialValues, Epsilon: s.Epsilon}, nil
	case "Choice":
		c, err := NewChoice(s.Options...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
		}
		return c, nil
	case "Pattern":
		if _, err := compileAnchored(s.Pattern); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
		}
		return Pattern{Pattern: s.Pattern}, nil
	case "Dimensions":
		return Dimensions{
			MinPixels: s.MinPixels, MaxPixels: s.MaxPixels,
			MinAspect: s.MinAspect, MaxAspect: s.MaxAspect,
			Presets: s.Presets,
		}, nil
	case "Schema":
		return Schema{}, nil
	case "Str":
		return Str{MinLength: s.MinLength, MaxLength: s.MaxLength}, nil
	case "Int":
		return Int{}, nil
	case "Float":
		return Float{}, nil
	case "Bool":
		return Bool{}, nil
	case "ToolSupport":
		return ToolSupport{Tools: s.Tools}, nil
	}
	if kind, plural, ok := mediaType(s.Type); ok {
		var mimes []unifai.MimeType
		for _, m := range s.MimeTypes {
			mimes = append(mimes, unifai.MimeType(m))
		}
		if plural {
			return MediaList{Kind: kind, MimeTypes: mimes, MaxCount: s.MaxCount}, nil
		}
		return Media{Kind: kind, MimeTypes: mimes}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownConstraint, s.Type)
}

// Encode returns the Spec for c. Unknown implementations yield ErrUnknownConstraint.
func Encode(c Constraint) (Spec, error) {
	s := Spec{Type: c.Type()}
	switch v := c.(type) {
	case Range:
		s.Min, s.Max = &v.Min, &v.Max
		s.Step, s.SpecialValues, s.Epsilon = v.Step, v.SpecialValues, v.Epsilon
	case Choice:
		s.Options = v.Options
	case Pattern:
		s.Pattern = v.Pattern
	case Dimensions:
		s.MinPixels, s.MaxPixels = v.MinPixels, v.MaxPixels
		s.MinAspect, s.MaxAspect = v.MinAspect, v.MaxAspect
		s.Presets = v.Presets
	case Str:
		s.MinLength, s.MaxLength = v.MinLength, v.MaxLength
	case Schema, Int, Float, Bool:
	case Media:
		s.MimeTypes = mimeStrings(v.MimeTypes)
	case MediaList:
		s.MimeTypes = mimeStrings(v.MimeTypes)
		s.MaxCount = v.MaxCount
	case ToolSupport:
		s.Tools = v.Tools
	default:
		return Spec{}, fmt.Errorf("%w: %T", ErrUnknownConstraint, c)
	}
	return s, nil
}

func mediaType(t string) (kind unifai.MediaKind, plural, ok bool) {
	name, found := strings.CutSuffix(t, "Constraint")
	if !found {
		return "", false, false
	}
	for _, k := range []unifai.MediaKind{unifai.MediaImage, unifai.MediaVideo, unifai.MediaAudio} {
		switch name {
		case label(k):
			return k, false, true
		case label(k) + "s":
			return k, true, true
		}
	}
	return "", false, false
}

func mimeStrings(mimes []unifai.MimeType) []string {
	if len(mimes) == 0 {
		return nil
	}
	out := make([]string, len(mimes))
	for i, m := range mimes {
		out[i] = string(m)
	}
	return out
}

// UnmarshalYAML decodes a mapping of parameter name to Spec.
func (t *Table) UnmarshalYAML(node *yaml.Node) error {
	var specs map[string]Spec
	if err := node.Decode(&specs); err != nil {
		return err
	}
	return t.fromSpecs(specs)
}

// MarshalYAML encodes the table as a mapping of parameter name to Spec.
func (t Table) MarshalYAML() (any, error) {
	return t.toSpecs()
}

// UnmarshalJSON decodes an object of parameter name to Spec.
func (t *Table) UnmarshalJSON(data []byte) error {
	var specs map[string]Spec
	if err := json.Unmarshal(data, &specs); err != nil {
		return err
	}
	return t.fromSpecs(specs)
}

// MarshalJSON encodes the table as an object of parameter name to Spec.
func (t Table) MarshalJSON() ([]byte, error) {
	specs, err := t.toSpecs()
	if err != nil {
		return nil, err
	}
	return json.Marshal(specs)
}

func (t *Table) fromSpecs(specs map[string]Spec) error {
	out := make(Table, len(specs))
	for name, s := range specs {
		c, err := Decode(s)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", name, err)
		}
		out[name] = c
	}
	*t = out
	return nil
}

func (t Table) toSpecs() (map[string]Spec, error) {
	specs := make(map[string]Spec, len(t))
	for name, c := range t {
		s, err := Encode(c)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", name, err)
		}
		specs[name] = s
	}
	return specs, nil
}
