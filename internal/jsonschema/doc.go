// Package jsonschema derives strict JSON Schemas from Go types by reflection.
//
// Objects are closed (additionalProperties: false) so that providers enforcing
// structured output reject unknown keys. Recursive types are emitted once
// under $defs and referenced with $ref.
package jsonschema
