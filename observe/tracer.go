package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// CallMeta identifies an outbound API call for telemetry purposes.
type CallMeta struct {
	Operation string // Operation name, e.g. "pulls.create" (required)
	Namespace string // Operation group within the target API (may be empty)
	Target    string // Upstream API name, e.g. "github" or "openai" (may be empty)
}

// SpanName returns the deterministic span name for this call.
// Format: dispatch.<target>.<operation> or dispatch.<operation>
func (m CallMeta) SpanName() string {
	if m.Target != "" {
		return "dispatch." + m.Target + "." + m.Operation
	}
	return "dispatch." + m.Operation
}

// Tracer wraps OpenTelemetry tracing with call-scoped span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a dispatched call.
	StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with call metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("call.operation", meta.Operation),
		attribute.Bool("call.error", false), // Updated in EndSpan on error
	}
	if meta.Namespace != "" {
		attrs = append(attrs, attribute.String("call.namespace", meta.Namespace))
	}
	if meta.Target != "" {
		attrs = append(attrs, attribute.String("call.target", meta.Target))
	}

	ctx, span := t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)

	return ctx, span
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("call.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// nopTracer is a tracer that does nothing.
type nopTracer struct {
	noop trace.Tracer
}

// NewNopTracer creates a no-op tracer.
func NewNopTracer() Tracer {
	return &nopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *nopTracer) StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *nopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
