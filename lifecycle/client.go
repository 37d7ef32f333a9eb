package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/skosovsky/unifai"
	"github.com/skosovsky/unifai/mapper"
	"github.com/skosovsky/unifai/model"
	"github.com/skosovsky/unifai/stream"
)

// Metadata keys set on every Output.
const (
	MetaModel     = "model"
	MetaProvider  = "provider"
	MetaRequestID = "request_id"
)

// ErrOutputType is returned when an output parser yields a value that is not the client's content type.
var ErrOutputType = errors.New("lifecycle: output parser returned unexpected type")

// Response is one decoded non-streaming provider response body.
type Response map[string]any

// Transport performs the provider call. Implementations own HTTP, auth and timeouts.
type Transport interface {
	Do(ctx context.Context, req mapper.Request) (Response, error)
	Stream(ctx context.Context, req mapper.Request) (stream.Source, error)
}

// Hooks are the provider-specific pieces of one capability.
// Seed may be nil (empty request). ParseContent is required by Generate;
// ParseChunk and Aggregate are required by Stream.
type Hooks[I, C any] struct {
	Seed              func(inputs I) (mapper.Request, error)
	ParseContent      func(resp Response) (C, error)
	ParseUsage        func(resp Response) unifai.Usage
	ParseFinishReason func(resp Response) *unifai.FinishReason
	ParseChunk        func(ev stream.Event) (*unifai.Chunk[C], error)
	Aggregate         func(chunks []unifai.Chunk[C]) (unifai.Output[C], error)
}

// Client runs requests for one model and capability. Safe for concurrent use
// when the Transport is.
type Client[I, C any] struct {
	model      *model.Model
	capability model.Capability
	pipeline   *mapper.Pipeline
	transport  Transport
	hooks      Hooks[I, C]
	opts       options
}

// New returns a client. It fails with unifai.ErrUnsupportedCapability when the
// model does not declare capability.
func New[I, C any](m *model.Model, capability model.Capability, pipeline *mapper.Pipeline, transport Transport, hooks Hooks[I, C], opts ...Option) (*Client[I, C], error) {
	switch {
	case m == nil:
		return nil, errors.New("lifecycle: model must not be nil")
	case pipeline == nil:
		return nil, errors.New("lifecycle: pipeline must not be nil")
	case transport == nil:
		return nil, errors.New("lifecycle: transport must not be nil")
	}
	if !m.SupportsCapability(capability) {
		return nil, fmt.Errorf("%w: model %q does not support %s", unifai.ErrUnsupportedCapability, m.ID, capability)
	}
	o := options{
		logger:    slog.Default(),
		tracer:    noop.NewTracerProvider().Tracer("unifai"),
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Client[I, C]{
		model:      m,
		capability: capability,
		pipeline:   pipeline,
		transport:  transport,
		hooks:      hooks,
		opts:       o,
	}, nil
}

// Model returns the client's model.
func (c *Client[I, C]) Model() *model.Model { return c.model }

// Capability returns the capability the client was built for.
func (c *Client[I, C]) Capability() model.Capability { return c.capability }

// Build validates params and returns the provider request for inputs.
func (c *Client[I, C]) Build(inputs I, params mapper.Params) (mapper.Request, error) {
	if err := c.checkParams(params); err != nil {
		return nil, err
	}
	seed := mapper.Request{}
	if c.hooks.Seed != nil {
		var err error
		if seed, err = c.hooks.Seed(inputs); err != nil {
			return nil, fmt.Errorf("lifecycle: seed: %w", err)
		}
	}
	return c.pipeline.Build(seed, params, c.model.Constraints)
}

// Generate performs one non-streaming request.
func (c *Client[I, C]) Generate(ctx context.Context, inputs I, params mapper.Params) (out unifai.Output[C], err error) {
	if c.hooks.ParseContent == nil {
		return out, fmt.Errorf("%w: ParseContent", stream.ErrNoHook)
	}
	requestID := c.opts.requestID()
	ctx, span := c.startSpan(ctx, "unifai.generate", requestID)
	defer func() { endSpan(span, err) }()

	req, err := c.Build(inputs, params)
	if err != nil {
		return out, err
	}
	if err = c.wait(ctx); err != nil {
		return out, err
	}
	c.opts.logger.DebugContext(ctx, "lifecycle: generate", "model", c.model.ID, "provider", c.model.Provider, "request_id", requestID)
	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return out, err
	}

	content, err := c.hooks.ParseContent(resp)
	if err != nil {
		return out, fmt.Errorf("lifecycle: parse content: %w", err)
	}
	if content, err = c.transform(content, params); err != nil {
		return out, err
	}
	out.Content = content
	if c.hooks.ParseUsage != nil {
		out.Usage = c.hooks.ParseUsage(resp)
	}
	if c.hooks.ParseFinishReason != nil {
		out.FinishReason = c.hooks.ParseFinishReason(resp)
	}
	out.Metadata = c.metadata(nil, requestID)
	return out, nil
}

// Stream opens a streaming request. The caller owns the returned engine and
// must exhaust or close it. The request span stays open until the engine
// releases its source and records receive, parse and aggregate failures.
func (c *Client[I, C]) Stream(ctx context.Context, inputs I, params mapper.Params) (_ *stream.Engine[C, unifai.Output[C]], err error) {
	if !c.model.Streaming {
		return nil, fmt.Errorf("%w: %s", unifai.ErrStreamingNotSupported, c.model.ID)
	}
	switch {
	case c.hooks.ParseChunk == nil:
		return nil, fmt.Errorf("%w: ParseChunk", stream.ErrNoHook)
	case c.hooks.Aggregate == nil:
		return nil, fmt.Errorf("%w: Aggregate", stream.ErrNoHook)
	}
	requestID := c.opts.requestID()
	ctx, span := c.startSpan(ctx, "unifai.stream", requestID)
	defer func() {
		if err != nil {
			endSpan(span, err)
		}
	}()

	req, err := c.Build(inputs, params)
	if err != nil {
		return nil, err
	}
	if err = c.wait(ctx); err != nil {
		return nil, err
	}
	c.opts.logger.DebugContext(ctx, "lifecycle: stream", "model", c.model.ID, "provider", c.model.Provider, "request_id", requestID)
	src, err := c.transport.Stream(ctx, req)
	if err != nil {
		return nil, err
	}

	hooks := stream.Hooks[C, unifai.Output[C]]{
		ParseChunk: func(ev stream.Event) (*unifai.Chunk[C], error) {
			chunk, err := c.hooks.ParseChunk(ev)
			if err != nil {
				recordError(span, err)
			}
			return chunk, err
		},
		Aggregate: func(chunks []unifai.Chunk[C]) (unifai.Output[C], error) {
			out, err := c.aggregate(chunks, params, requestID)
			if err != nil {
				recordError(span, err)
			}
			return out, err
		},
	}
	return stream.New(&spanSource{Source: src, span: span}, hooks, stream.WithLogger(c.opts.logger)), nil
}

func (c *Client[I, C]) aggregate(chunks []unifai.Chunk[C], params mapper.Params, requestID string) (unifai.Output[C], error) {
	out, err := c.hooks.Aggregate(chunks)
	if err != nil {
		return out, err
	}
	if out.Content, err = c.transform(out.Content, params); err != nil {
		return out, err
	}
	out.Metadata = c.metadata(out.Metadata, requestID)
	return out, nil
}

func (c *Client[I, C]) checkParams(params mapper.Params) error {
	for name, v := range params {
		if v == nil || c.pipeline.Has(name) {
			continue
		}
		if c.opts.strict {
			return &unifai.UnsupportedParameterError{Parameter: name, ModelID: c.model.ID}
		}
		c.opts.logger.Warn("lifecycle: ignoring unsupported parameter", "parameter", name, "model", c.model.ID)
	}
	return nil
}

func (c *Client[I, C]) transform(content C, params mapper.Params) (C, error) {
	var zero C
	parsed, err := c.pipeline.ParseOutput(content, params)
	if err != nil {
		return zero, err
	}
	if parsed == nil {
		return zero, nil
	}
	typed, ok := parsed.(C)
	if !ok {
		return zero, fmt.Errorf("%w: %T", ErrOutputType, parsed)
	}
	return typed, nil
}

func (c *Client[I, C]) metadata(base map[string]any, requestID string) map[string]any {
	md := make(map[string]any, len(base)+3)
	maps.Copy(md, base)
	md[MetaModel] = c.model.ID
	md[MetaProvider] = c.model.Provider
	md[MetaRequestID] = requestID
	return md
}

func (c *Client[I, C]) wait(ctx context.Context) error {
	if c.opts.limiter == nil {
		return nil
	}
	if err := c.opts.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("lifecycle: rate limit: %w", err)
	}
	return nil
}

func (c *Client[I, C]) startSpan(ctx context.Context, name, requestID string) (context.Context, trace.Span) {
	return c.opts.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("unifai.model", c.model.ID),
		attribute.String("unifai.provider", c.model.Provider),
		attribute.String("unifai.capability", string(c.capability)),
		attribute.String("unifai.request_id", requestID),
	))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		recordError(span, err)
	}
	span.End()
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// spanSource ends the stream span when the engine releases the source.
type spanSource struct {
	stream.Source
	span  trace.Span
	ended bool
}

func (s *spanSource) Recv(ctx context.Context) (stream.Event, error) {
	ev, err := s.Source.Recv(ctx)
	if err != nil && !errors.Is(err, io.EOF) {
		recordError(s.span, err)
	}
	return ev, err
}

func (s *spanSource) Close() error {
	err := s.Source.Close()
	if !s.ended {
		s.ended = true
		s.span.End()
	}
	return err
}
