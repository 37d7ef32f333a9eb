package lifecycle

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	limiter   *rate.Limiter
	tracer    trace.Tracer
	requestID func() string
	strict    bool
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRateLimiter makes every request wait on l before calling the Transport.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(o *options) {
		o.limiter = l
	}
}

// WithTracer sets the tracer for request spans. Default is a no-op tracer.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithRequestID sets the request ID generator. Default is a random UUID.
func WithRequestID(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.requestID = fn
		}
	}
}

// WithStrictParams rejects parameters no mapper handles with *unifai.UnsupportedParameterError
// instead of logging and ignoring them.
func WithStrictParams() Option {
	return func(o *options) {
		o.strict = true
	}
}
