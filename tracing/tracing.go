// Package tracing wraps the OpenTelemetry tracer the Orchestrator uses
// to instrument RenderTile/PointValues/Timeseries, in the style of the
// teacher's storage.breakerTracer (a single package-level Tracer,
// operations named "<subsystem>.<verb>", errors recorded on the span
// rather than swallowed).
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("weathercore/orchestrator")

// Start begins a span named name and returns the derived context
// alongside it, mirroring breakerTracer.Start's call shape.
func Start(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name)
}

// RecordOutcome annotates span with a coarse success/failure outcome
// and, on failure, the error itself.
func RecordOutcome(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("weathercore.outcome", "error"))
		return
	}
	span.SetAttributes(attribute.String("weathercore.outcome", "success"))
}
