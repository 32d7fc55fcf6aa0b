package cache

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/jonwraymond/cachekit/telemetry"
)

// Stats is a snapshot of a LoggingCache's cumulative counters.
type Stats struct {
	Requests int64
	Hits     int64
}

// Ratio returns the hit ratio, or zero before any request.
func (s Stats) Ratio() float64 {
	if s.Requests == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Requests)
}

// StatsProvider marks a cache that reports hit/miss statistics. Builder
// uses it to avoid double-wrapping custom implementations that already log.
type StatsProvider interface {
	Stats() Stats
}

// LoggingCache counts requests and hits on Get and reports the running hit
// ratio through debug logging. It is purely observational: control flow,
// values, and errors pass through untouched.
type LoggingCache struct {
	delegate Cache
	logger   telemetry.Logger
	requests *xsync.Counter
	hits     *xsync.Counter
}

// NewLoggingCache wraps delegate. A nil logger disables the debug output
// but keeps the counters.
func NewLoggingCache(delegate Cache, logger telemetry.Logger) *LoggingCache {
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	return &LoggingCache{
		delegate: delegate,
		logger:   logger,
		requests: xsync.NewCounter(),
		hits:     xsync.NewCounter(),
	}
}

func (c *LoggingCache) ID() string { return c.delegate.ID() }

func (c *LoggingCache) Size() int { return c.delegate.Size() }

func (c *LoggingCache) Put(ctx context.Context, key string, value any) error {
	return c.delegate.Put(ctx, key, value)
}

func (c *LoggingCache) Get(ctx context.Context, key string) (any, bool, error) {
	c.requests.Inc()
	value, ok, err := c.delegate.Get(ctx, key)
	if ok {
		c.hits.Inc()
	}
	stats := c.Stats()
	c.logger.Debug(ctx, "cache hit ratio",
		telemetry.Field{Key: "cache.id", Value: c.delegate.ID()},
		telemetry.Field{Key: "requests", Value: stats.Requests},
		telemetry.Field{Key: "hits", Value: stats.Hits},
		telemetry.Field{Key: "ratio", Value: stats.Ratio()},
	)
	return value, ok, err
}

func (c *LoggingCache) Remove(ctx context.Context, key string) error {
	return c.delegate.Remove(ctx, key)
}

func (c *LoggingCache) Clear(ctx context.Context) error {
	return c.delegate.Clear(ctx)
}

// Stats returns a snapshot of the cumulative counters.
func (c *LoggingCache) Stats() Stats {
	return Stats{
		Requests: c.requests.Value(),
		Hits:     c.hits.Value(),
	}
}

var (
	_ Cache         = (*LoggingCache)(nil)
	_ StatsProvider = (*LoggingCache)(nil)
)
