package ports

import (
	"context"
	"io"
)

// SpanConfig carries the attributes a Tracer.Start call seeds a span with.
type SpanConfig struct {
	Attributes map[string]any
}

// SpanOption configures a SpanConfig.
type SpanOption func(*SpanConfig)

// WithAttribute adds a starting attribute to a span.
func WithAttribute(key string, value any) SpanOption {
	return func(c *SpanConfig) {
		if c.Attributes == nil {
			c.Attributes = make(map[string]any)
		}
		c.Attributes[key] = value
	}
}

// Span is one traced unit of work.
type Span interface {
	io.Writer
	End()
	RecordError(err error)
	SetAttribute(key string, value any)
}

// Tracer starts spans. The default adapter wraps go.opentelemetry.io/otel and is the one
// the graft wiring always provides; the group evaluator holds a Tracer but starts no
// spans with it.
//
//go:generate go run go.uber.org/mock/mockgen -source=tracer.go -destination=mocks/mock_tracer.go -package=mocks
type Tracer interface {
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
	Shutdown(ctx context.Context) error
}
