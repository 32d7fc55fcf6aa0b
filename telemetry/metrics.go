package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records cache operation metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly; recording is fire-and-forget.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordOp records one cache operation with its duration and error
	// status. For OpGet, hit reports whether the lookup found a value;
	// other operations pass hit=false.
	RecordOp(ctx context.Context, meta CacheMeta, op Op, hit bool, duration time.Duration, err error)

	// RecordTransaction records a transaction outcome ("commit" or
	// "rollback") against the cache the buffer wraps.
	RecordTransaction(ctx context.Context, meta CacheMeta, outcome string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	opCount      metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	txCount      metric.Int64Counter
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	opCount, err := meter.Int64Counter(
		"cache.ops.total",
		metric.WithDescription("Total number of cache operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"cache.ops.errors",
		metric.WithDescription("Total number of cache operation errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"cache.op.duration_ms",
		metric.WithDescription("Cache operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	txCount, err := meter.Int64Counter(
		"cache.tx.total",
		metric.WithDescription("Total number of transaction outcomes"),
		metric.WithUnit("{transaction}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		opCount:      opCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		txCount:      txCount,
	}, nil
}

// RecordOp records metrics for one cache operation.
func (m *metricsImpl) RecordOp(ctx context.Context, meta CacheMeta, op Op, hit bool, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("cache.id", meta.ID),
		attribute.String("cache.op", string(op)),
	}
	if op == OpGet {
		result := "miss"
		if hit {
			result = "hit"
		}
		attrs = append(attrs, attribute.String("cache.result", result))
	}

	opt := metric.WithAttributes(attrs...)

	m.opCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordTransaction records a commit or rollback.
func (m *metricsImpl) RecordTransaction(ctx context.Context, meta CacheMeta, outcome string) {
	m.txCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache.id", meta.ID),
		attribute.String("cache.tx.outcome", outcome),
	))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordOp(ctx context.Context, meta CacheMeta, op Op, hit bool, duration time.Duration, err error) {
}

func (m *noopMetrics) RecordTransaction(ctx context.Context, meta CacheMeta, outcome string) {}
