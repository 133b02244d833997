package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("firstgoal/internal/interfaces/httpapi")

// The ambient span of an empty context is non-recording; handing it back
// keeps call sites uniform without emitting anything.
var noopSpan = trace.SpanFromContext(context.Background())

// startSpan opens a child span for handler-level work. Calls with no valid
// parent get the noop span, so requests that skipped RequestTracing (the
// health probe) never become root traces. Helper calls below handler
// granularity, like the response writers and middleware, stay unrecorded
// too; one span per pick or verify is the level traces are read at.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() || !isHandlerSpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name)
}

func isHandlerSpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}
