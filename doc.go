// Package unifai holds the provider-agnostic data model shared by the
// constraint, mapper, stream and lifecycle packages: streamed chunks, terminal
// outputs, usage and finish signals, media artifacts and the error taxonomy.
package unifai
