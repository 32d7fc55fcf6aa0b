package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Cache mirrors the cache contract structurally so a built chain can be
// instrumented without this package depending on the engine. Any
// cachekit cache satisfies it.
type Cache interface {
	ID() string
	Size() int
	Put(ctx context.Context, key string, value any) error
	Get(ctx context.Context, key string) (any, bool, error)
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Instrument wraps a built cache with tracing, metrics, and logging.
//
// Contract:
//   - Concurrency: the returned cache is as safe as the wrapped one.
//   - Errors: errors from the wrapped cache are recorded and propagated
//     unchanged; values pass through without modification.
func Instrument(c Cache, obs Observer) (Cache, error) {
	if c == nil {
		return nil, ErrNilCache
	}
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	meta := CacheMeta{ID: c.ID()}
	return &instrumentedCache{
		next:    c,
		meta:    meta,
		tracer:  newTracer(obs.Tracer()),
		metrics: metrics,
		logger:  obs.Logger().WithCache(meta),
	}, nil
}

// instrumentedCache decorates every operation with a span, an op metric,
// and a debug log line. Purely observational.
type instrumentedCache struct {
	next    Cache
	meta    CacheMeta
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

func (c *instrumentedCache) ID() string { return c.next.ID() }

func (c *instrumentedCache) Size() int { return c.next.Size() }

func (c *instrumentedCache) Put(ctx context.Context, key string, value any) error {
	ctx, span := c.tracer.StartOp(ctx, c.meta, OpPut)
	start := time.Now()
	err := c.next.Put(ctx, key, value)
	c.finish(ctx, span, OpPut, false, start, err)
	return err
}

func (c *instrumentedCache) Get(ctx context.Context, key string) (any, bool, error) {
	ctx, span := c.tracer.StartOp(ctx, c.meta, OpGet)
	start := time.Now()
	value, ok, err := c.next.Get(ctx, key)
	c.finish(ctx, span, OpGet, ok, start, err)
	return value, ok, err
}

func (c *instrumentedCache) Remove(ctx context.Context, key string) error {
	ctx, span := c.tracer.StartOp(ctx, c.meta, OpRemove)
	start := time.Now()
	err := c.next.Remove(ctx, key)
	c.finish(ctx, span, OpRemove, false, start, err)
	return err
}

func (c *instrumentedCache) Clear(ctx context.Context) error {
	ctx, span := c.tracer.StartOp(ctx, c.meta, OpClear)
	start := time.Now()
	err := c.next.Clear(ctx)
	c.finish(ctx, span, OpClear, false, start, err)
	return err
}

func (c *instrumentedCache) finish(ctx context.Context, span trace.Span, op Op, hit bool, start time.Time, err error) {
	duration := time.Since(start)

	c.tracer.EndOp(span, err)
	c.metrics.RecordOp(ctx, c.meta, op, hit, duration, err)

	fields := []Field{
		{Key: "op", Value: string(op)},
		{Key: "duration_ms", Value: float64(duration.Milliseconds())},
	}
	if op == OpGet {
		fields = append(fields, Field{Key: "hit", Value: hit})
	}

	if err != nil {
		fields = append(fields, Field{Key: "error", Value: err.Error()})
		c.logger.Error(ctx, "cache operation failed", fields...)
	} else {
		c.logger.Debug(ctx, "cache operation completed", fields...)
	}
}

var _ Cache = (*instrumentedCache)(nil)
