// Package lifecycle ties a model, a mapper pipeline and a Transport into one
// request/response cycle.
//
// Generate builds the provider request, performs one Transport.Do call and
// assembles a unifai.Output from the response with the Hooks' parse functions.
// Stream builds the same request, opens a Transport.Stream source and returns a
// stream.Engine whose terminal output goes through the pipeline's output parsers.
//
// The client does not retry. Transport errors are returned unchanged.
package lifecycle
