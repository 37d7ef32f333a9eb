// Package constraint provides the closed set of parameter validators attached
// to a model's parameter table: Range, Choice, Pattern, Dimensions, Schema,
// the primitive coercions Str/Int/Float/Bool, media artifact constraints and
// ToolSupport.
//
// Every constraint is an immutable value with a stable Type discriminator, so
// constraint tables can be declared as YAML or JSON data (see Spec). Validate
// never mutates its input: it returns the value (possibly normalized, e.g. a
// canonical "WxH" string or an int converted from "42") or an error wrapping
// unifai.ErrConstraintViolation.
package constraint
