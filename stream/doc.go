// Package stream turns a provider-owned event source into an ordered sequence
// of typed chunks plus one terminal output.
//
// An Engine pulls raw events from a Source, hands each to a ParseChunk hook and
// yields the chunks it returns. Control events (hook returns nil) are skipped
// without returning to the caller. When the source reports io.EOF the engine
// aggregates all chunks into the output, closes the source and enters StateDone.
// Any error from the source or a hook closes the source once, moves the engine
// to StateClosed and is returned unchanged.
//
// Engines are single-consumer and start no goroutines.
package stream
