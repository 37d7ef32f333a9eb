package mapper

import (
	"github.com/skosovsky/unifai/constraint"
)

// Request is the provider request under construction.
type Request map[string]any

// Params is the caller's parameter bag keyed by unified parameter name.
type Params map[string]any

// Mapper writes one parameter into a Request.
type Mapper interface {
	// Name returns the unified parameter name the mapper consumes.
	Name() string
	// Map validates value against table and mutates req. A nil validated value leaves req untouched.
	Map(req Request, value any, table constraint.Table, st *Stash) error
}

// OutputParser is implemented by mappers that reshape response content when
// their parameter was set on the request.
type OutputParser interface {
	ParseOutput(content any, value any) (any, error)
}

// Ordered is implemented by mappers that read Stash values written by other mappers.
type Ordered interface {
	// After returns the names of mappers that must run first.
	After() []string
}

// MapperFunc is the function form of Mapper.Map.
type MapperFunc func(req Request, value any, table constraint.Table, st *Stash) error

// Func returns a Mapper named name backed by fn.
func Func(name string, fn MapperFunc) Mapper {
	return funcMapper{name: name, fn: fn}
}

type funcMapper struct {
	name string
	fn   MapperFunc
}

func (f funcMapper) Name() string { return f.name }

func (f funcMapper) Map(req Request, value any, table constraint.Table, st *Stash) error {
	return f.fn(req, value, table, st)
}

// Validate checks value against the constraint table entry for name.
// Nil stays nil and names without a constraint pass through.
func Validate(name string, value any, table constraint.Table) (any, error) {
	return table.Validate(name, value)
}
