package mapper

import (
	"errors"
	"fmt"
	"slices"

	"github.com/skosovsky/unifai/constraint"
)

var (
	// ErrMapperOrder is returned when a mapper runs before a mapper it depends on.
	ErrMapperOrder = errors.New("mapper: dependency must run earlier")
	// ErrDuplicateMapper is returned when two mappers share a parameter name.
	ErrDuplicateMapper = errors.New("mapper: duplicate parameter name")
)

// Pipeline is an ordered, immutable list of mappers for one provider capability.
type Pipeline struct {
	mappers []Mapper
}

// NewPipeline checks names are unique and every Ordered mapper comes after its dependencies.
func NewPipeline(mappers ...Mapper) (*Pipeline, error) {
	pos := make(map[string]int, len(mappers))
	for i, m := range mappers {
		if _, dup := pos[m.Name()]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateMapper, m.Name())
		}
		pos[m.Name()] = i
	}
	for i, m := range mappers {
		o, ok := m.(Ordered)
		if !ok {
			continue
		}
		for _, dep := range o.After() {
			j, found := pos[dep]
			if !found || j >= i {
				return nil, fmt.Errorf("%w: %q requires %q before it", ErrMapperOrder, m.Name(), dep)
			}
		}
	}
	return &Pipeline{mappers: slices.Clone(mappers)}, nil
}

// Names returns the parameter names in pipeline order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.mappers))
	for i, m := range p.mappers {
		names[i] = m.Name()
	}
	return names
}

// Has reports whether a mapper consumes name.
func (p *Pipeline) Has(name string) bool {
	return slices.ContainsFunc(p.mappers, func(m Mapper) bool { return m.Name() == name })
}

// Build copies seed and applies every mapper in order. Mappers whose parameter
// is absent or nil are skipped. The seed is never modified.
func (p *Pipeline) Build(seed Request, params Params, table constraint.Table) (Request, error) {
	req := cloneRequest(seed)
	var st Stash
	for _, m := range p.mappers {
		value := params[m.Name()]
		if value == nil {
			continue
		}
		if err := m.Map(req, value, table, &st); err != nil {
			return nil, fmt.Errorf("mapper %q: %w", m.Name(), err)
		}
	}
	return req, nil
}

// ParseOutput passes content through every OutputParser whose parameter was set.
func (p *Pipeline) ParseOutput(content any, params Params) (any, error) {
	for _, m := range p.mappers {
		parser, ok := m.(OutputParser)
		if !ok {
			continue
		}
		value := params[m.Name()]
		if value == nil {
			continue
		}
		out, err := parser.ParseOutput(content, value)
		if err != nil {
			return nil, fmt.Errorf("mapper %q: %w", m.Name(), err)
		}
		content = out
	}
	return content, nil
}

func cloneRequest(r Request) Request {
	out := make(Request, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Request:
		return cloneRequest(t)
	case map[string]any:
		return map[string]any(cloneRequest(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
