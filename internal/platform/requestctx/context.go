package requestctx

import (
	"context"

	"go.uber.org/zap"
)

// Component names the storefront surface that serves a request.
type Component string

const (
	ComponentUnknown  Component = ""
	ComponentCheckout Component = "checkout"
	ComponentAdmin    Component = "admin"
	ComponentHealth   Component = "health"
)

// TraceInfo captures trace metadata propagated through request context.
type TraceInfo struct {
	TraceID string
	SpanID  string
	Sampled bool
}

// scope is copied on every write so parent contexts never observe changes.
type scope struct {
	logger    *zap.Logger
	component Component
	trace     TraceInfo
	traced    bool
}

type scopeKey struct{}

var noopLogger = zap.NewNop()

func load(ctx context.Context) scope {
	if ctx == nil {
		return scope{}
	}
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

func store(ctx context.Context, s scope) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithLogger attaches logger; once a component is set it is added as a field.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	s := load(ctx)
	s.logger = logger
	if logger != nil && s.component != ComponentUnknown {
		s.logger = logger.With(zap.String("component", string(s.component)))
	}
	return store(ctx, s)
}

// Logger returns the request logger or a no-op logger.
func Logger(ctx context.Context) *zap.Logger {
	if s := load(ctx); s.logger != nil {
		return s.logger
	}
	return noopLogger
}

// HasLogger reports whether a logger was attached upstream.
func HasLogger(ctx context.Context) bool {
	return load(ctx).logger != nil
}

// WithComponent marks the request as served by c and tags the attached logger once.
func WithComponent(ctx context.Context, c Component) context.Context {
	s := load(ctx)
	if s.component == c {
		return ctx
	}
	if s.logger != nil && c != ComponentUnknown {
		s.logger = s.logger.With(zap.String("component", string(c)))
	}
	s.component = c
	return store(ctx, s)
}

// ComponentOf returns the component recorded on ctx.
func ComponentOf(ctx context.Context) Component {
	return load(ctx).component
}

// WithTrace stores the trace metadata on the context.
func WithTrace(ctx context.Context, info TraceInfo) context.Context {
	s := load(ctx)
	s.trace = info
	s.traced = true
	return store(ctx, s)
}

// Trace retrieves the trace metadata from context when available.
func Trace(ctx context.Context) (TraceInfo, bool) {
	s := load(ctx)
	return s.trace, s.traced
}

// TraceID extracts the trace identifier from context when present.
func TraceID(ctx context.Context) string {
	return load(ctx).trace.TraceID
}
