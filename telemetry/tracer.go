package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// CacheMeta identifies a cache instance for telemetry purposes.
type CacheMeta struct {
	ID   string // Stable logical cache id (required)
	Kind string // Implementation or chain kind (optional)
}

// Op names a cache operation for spans and metrics.
type Op string

const (
	OpGet    Op = "get"
	OpPut    Op = "put"
	OpRemove Op = "remove"
	OpClear  Op = "clear"
)

// SpanName returns the deterministic span name for an operation on this
// cache. Format: cache.op.<op>
func (m CacheMeta) SpanName(op Op) string {
	return "cache.op." + string(op)
}

// Tracer wraps OpenTelemetry tracing with cache-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndOp must be best-effort and must not panic.
type Tracer interface {
	// StartOp starts a new span for a cache operation.
	StartOp(ctx context.Context, meta CacheMeta, op Op) (context.Context, trace.Span)

	// EndOp ends the span, recording any error.
	EndOp(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartOp starts a new span with cache metadata as attributes.
func (t *tracerImpl) StartOp(ctx context.Context, meta CacheMeta, op Op) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("cache.id", meta.ID),
		attribute.String("cache.op", string(op)),
	}
	if meta.Kind != "" {
		attrs = append(attrs, attribute.String("cache.kind", meta.Kind))
	}

	ctx, span := t.tracer.Start(ctx, meta.SpanName(op),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, span
}

// EndOp ends the span and records the error status if present.
func (t *tracerImpl) EndOp(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartOp(ctx context.Context, meta CacheMeta, op Op) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName(op))
}

func (t *noopTracer) EndOp(span trace.Span, err error) {
	span.End()
}
