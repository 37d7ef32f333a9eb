package stream

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"slices"

	"github.com/skosovsky/unifai"
)

// State is the engine lifecycle position. Transitions only move forward:
// StateIdle -> StateStreaming -> StateDone or StateClosed.
type State int

const (
	StateIdle State = iota
	StateStreaming
	StateDone
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	case StateDone:
		return "done"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ErrNoHook is returned when a required hook is nil.
var ErrNoHook = errors.New("stream: hook not set")

// Hooks are the provider-supplied parse and aggregate steps.
type Hooks[C, O any] struct {
	// ParseChunk converts one raw event. A nil chunk marks a control event that is skipped.
	ParseChunk func(Event) (*unifai.Chunk[C], error)
	// Aggregate computes the output from every chunk, in order. Called once.
	Aggregate func([]unifai.Chunk[C]) (O, error)
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger for state transitions (debug level) and close failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Engine drives one stream. It is not safe for concurrent use.
type Engine[C, O any] struct {
	src       Source
	hooks     Hooks[C, O]
	logger    *slog.Logger
	state     State
	chunks    []unifai.Chunk[C]
	output    O
	srcClosed bool
}

// New returns an idle engine over src.
func New[C, O any](src Source, hooks Hooks[C, O], opts ...Option) *Engine[C, O] {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine[C, O]{src: src, hooks: hooks, logger: o.logger}
}

// State returns the current lifecycle state.
func (e *Engine[C, O]) State() State { return e.state }

// Chunks returns a copy of the chunks yielded so far.
func (e *Engine[C, O]) Chunks() []unifai.Chunk[C] { return slices.Clone(e.chunks) }

// Next returns the next chunk. It returns io.EOF once the stream completed and
// the output is available, and unifai.ErrStreamClosed after a close or failure.
func (e *Engine[C, O]) Next(ctx context.Context) (unifai.Chunk[C], error) {
	var zero unifai.Chunk[C]
	switch e.state {
	case StateDone:
		return zero, io.EOF
	case StateClosed:
		return zero, unifai.ErrStreamClosed
	case StateIdle:
		e.transition(StateStreaming)
	}
	if e.hooks.ParseChunk == nil {
		return zero, e.fail(ErrNoHook)
	}
	for {
		if err := ctx.Err(); err != nil {
			return zero, e.fail(err)
		}
		ev, err := e.src.Recv(ctx)
		if errors.Is(err, io.EOF) {
			return zero, e.finish()
		}
		if err != nil {
			return zero, e.fail(err)
		}
		chunk, err := e.hooks.ParseChunk(ev)
		if err != nil {
			return zero, e.fail(err)
		}
		if chunk == nil {
			continue
		}
		e.chunks = append(e.chunks, *chunk)
		return *chunk, nil
	}
}

// All ranges over the remaining chunks. A non-nil error is yielded once and
// ends the sequence. Breaking out of the loop closes the engine.
func (e *Engine[C, O]) All(ctx context.Context) iter.Seq2[unifai.Chunk[C], error] {
	return func(yield func(unifai.Chunk[C], error) bool) {
		for {
			chunk, err := e.Next(ctx)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(chunk, err)
				return
			}
			if !yield(chunk, nil) {
				_ = e.Close()
				return
			}
		}
	}
}

// Collect drains the stream and returns the output.
func (e *Engine[C, O]) Collect(ctx context.Context) (O, error) {
	for _, err := range e.All(ctx) {
		if err != nil {
			var zero O
			return zero, err
		}
	}
	return e.Output()
}

// Output returns the aggregated output. It fails with unifai.ErrStreamNotExhausted
// unless the stream completed; after that it returns the same value every time.
func (e *Engine[C, O]) Output() (O, error) {
	if e.state != StateDone {
		var zero O
		return zero, unifai.ErrStreamNotExhausted
	}
	return e.output, nil
}

// Close releases the source and marks the engine closed. Closing a done or
// already closed engine is a no-op.
func (e *Engine[C, O]) Close() error {
	if e.state == StateDone || e.state == StateClosed {
		return nil
	}
	e.transition(StateClosed)
	return e.closeSource()
}

// Use calls fn and closes the engine afterwards, whether fn returns normally,
// returns an error or panics. A close error is reported only when fn succeeded.
func (e *Engine[C, O]) Use(fn func(*Engine[C, O]) error) (err error) {
	defer func() {
		if cerr := e.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(e)
}

func (e *Engine[C, O]) finish() error {
	if len(e.chunks) == 0 {
		return e.fail(unifai.ErrStreamEmpty)
	}
	if e.hooks.Aggregate == nil {
		return e.fail(ErrNoHook)
	}
	out, err := e.hooks.Aggregate(slices.Clone(e.chunks))
	if err != nil {
		return e.fail(err)
	}
	e.output = out
	e.transition(StateDone)
	if cerr := e.closeSource(); cerr != nil {
		e.logger.Warn("stream: close source after completion", "error", cerr)
	}
	return io.EOF
}

// fail closes the source, moves to StateClosed and returns err unchanged.
func (e *Engine[C, O]) fail(err error) error {
	e.transition(StateClosed)
	if cerr := e.closeSource(); cerr != nil {
		e.logger.Warn("stream: close source after failure", "error", cerr, "cause", err)
	}
	return err
}

func (e *Engine[C, O]) closeSource() error {
	if e.srcClosed {
		return nil
	}
	e.srcClosed = true
	return e.src.Close()
}

func (e *Engine[C, O]) transition(to State) {
	e.logger.Debug("stream: state change", "from", e.state.String(), "to", to.String(), "chunks", len(e.chunks))
	e.state = to
}
