package telemetry

import (
	"context"

	"go.kiln.dev/kiln/internal/core/ports"
)

// NoOpTracer implements ports.Tracer and discards everything. The graft wiring does not
// use it; it is constructed only by callers that build one directly.
type NoOpTracer struct{}

// NewNoOpTracer constructs a NoOpTracer.
func NewNoOpTracer() *NoOpTracer { return &NoOpTracer{} }

// Start returns ctx unchanged and a span that discards everything written to it.
func (t *NoOpTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, &NoOpSpan{}
}

// Shutdown does nothing.
func (t *NoOpTracer) Shutdown(_ context.Context) error { return nil }

// NoOpSpan implements ports.Span and discards everything.
type NoOpSpan struct{}

// End does nothing.
func (s *NoOpSpan) End() {}

// RecordError does nothing.
func (s *NoOpSpan) RecordError(_ error) {}

// SetAttribute does nothing.
func (s *NoOpSpan) SetAttribute(_ string, _ any) {}

// Write discards p and reports success.
func (s *NoOpSpan) Write(p []byte) (int, error) {
	return len(p), nil
}
