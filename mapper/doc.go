// Package mapper turns a loosely typed parameter bag into a provider request.
//
// A Pipeline runs its Mappers in declared order over one mutable Request.
// Each mapper validates its parameter against the model's constraint.Table
// and then writes provider fields. Mappers that need a value computed by an
// earlier mapper exchange it through a typed Stash instead of private request
// keys, and declare the dependency with After so that NewPipeline can reject
// a wrong order up front.
//
// Mappers implementing OutputParser also run on the way back: Pipeline.ParseOutput
// decodes provider content into the shape the caller originally asked for.
package mapper
