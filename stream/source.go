package stream

import (
	"context"
	"io"

	"github.com/skosovsky/unifai"
)

// Event is one raw, provider-shaped stream event.
type Event map[string]any

// Source is the transport side of a stream. Recv returns io.EOF once exhausted.
// Close releases the underlying resource; the Engine calls it exactly once.
type Source interface {
	Recv(ctx context.Context) (Event, error)
	Close() error
}

// SourceFunc adapts a receive function to Source. Close is a no-op.
type SourceFunc func(ctx context.Context) (Event, error)

// Recv calls f.
func (f SourceFunc) Recv(ctx context.Context) (Event, error) { return f(ctx) }

// Close implements Source.
func (SourceFunc) Close() error { return nil }

// SliceSource replays fixed events, then returns Err (io.EOF when nil).
// It counts Close calls, which makes it useful in tests and fixtures.
type SliceSource struct {
	Events []Event
	Err    error

	pos    int
	closes int
}

// NewSliceSource returns a SliceSource over events.
func NewSliceSource(events ...Event) *SliceSource {
	return &SliceSource{Events: events}
}

// Recv returns the next event. It honors ctx cancellation.
func (s *SliceSource) Recv(ctx context.Context) (Event, error) {
	if s.closes > 0 {
		return nil, unifai.ErrStreamClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos < len(s.Events) {
		ev := s.Events[s.pos]
		s.pos++
		return ev, nil
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return nil, io.EOF
}

// Close records the call.
func (s *SliceSource) Close() error {
	s.closes++
	return nil
}

// Closes returns how many times Close was called.
func (s *SliceSource) Closes() int { return s.closes }

// Received returns how many events have been handed out.
func (s *SliceSource) Received() int { return s.pos }
