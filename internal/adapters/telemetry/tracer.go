// Package telemetry implements tracing over OpenTelemetry.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trellis.sh/taskrun/internal/core/ports"
)

// instrumentationName identifies this module's tracer.
const instrumentationName = "go.trellis.sh/taskrun"

// OTelTracer is a concrete implementation of ports.Tracer using OpenTelemetry.
// With no SDK provider installed the global tracer is a noop, so tracing has
// no cost unless the host wires an exporter.
type OTelTracer struct {
	tracer trace.Tracer
}

// NewOTelTracer creates a tracer backed by the global tracer provider.
func NewOTelTracer() *OTelTracer {
	return &OTelTracer{tracer: otel.Tracer(instrumentationName)}
}

// Span starts a span and returns a finish function. A non-nil error passed to
// finish records it and marks the span failed.
func (t *OTelTracer) Span(ctx context.Context, name string) (context.Context, func(err error)) {
	ctx, span := t.tracer.Start(ctx, name)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

var _ ports.Tracer = (*OTelTracer)(nil)
