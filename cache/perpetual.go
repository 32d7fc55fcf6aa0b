package cache

import "context"

// PerpetualCache is the stock base store: an unordered key/value map with no
// eviction and no concurrency control. Callers that need bounded memory or
// thread safety wrap it in decorators; both concerns are layered on top,
// never inside.
type PerpetualCache struct {
	id      string
	entries map[string]any
}

// NewPerpetualCache creates an empty base store with the given identity.
func NewPerpetualCache(id string) *PerpetualCache {
	return &PerpetualCache{
		id:      id,
		entries: make(map[string]any),
	}
}

func (c *PerpetualCache) ID() string { return c.id }

func (c *PerpetualCache) Size() int { return len(c.entries) }

func (c *PerpetualCache) Put(_ context.Context, key string, value any) error {
	c.entries[key] = value
	return nil
}

func (c *PerpetualCache) Get(_ context.Context, key string) (any, bool, error) {
	value, ok := c.entries[key]
	return value, ok, nil
}

func (c *PerpetualCache) Remove(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func (c *PerpetualCache) Clear(_ context.Context) error {
	c.entries = make(map[string]any)
	return nil
}

// Ensure PerpetualCache implements Cache
var _ Cache = (*PerpetualCache)(nil)
