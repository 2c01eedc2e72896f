package knowledge

import (
	"context"
	"sync"
	"time"
)

// Cache wraps a Store with a read-through snapshot so that composing the
// system prompt on every turn does not hit the filesystem every time. The
// snapshot is refreshed after ttl elapses; writes pass through and
// invalidate it. Safe for concurrent use.
type Cache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	keys    []string
	entries map[string]Entry
	loaded  time.Time
	valid   bool
}

// NewCache creates a Cache over store. A non-positive ttl caches forever
// (until a write invalidates the snapshot).
func NewCache(store Store, ttl time.Duration) *Cache {
	return &Cache{store: store, ttl: ttl, now: time.Now}
}

func (c *Cache) refresh(ctx context.Context) error {
	if c.valid && (c.ttl <= 0 || c.now().Sub(c.loaded) < c.ttl) {
		return nil
	}

	keys, err := c.store.List(ctx)
	if err != nil {
		return err
	}

	entries := make(map[string]Entry, len(keys))
	if len(keys) > 0 {
		loaded, err := c.store.Load(ctx, keys...)
		if err != nil {
			return err
		}
		for _, e := range loaded {
			entries[e.Key] = e
		}
	}

	c.keys = keys
	c.entries = entries
	c.loaded = c.now()
	c.valid = true
	return nil
}

func (c *Cache) List(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.refresh(ctx); err != nil {
		return nil, err
	}
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out, nil
}

func (c *Cache) Load(ctx context.Context, keys ...string) ([]Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.refresh(ctx); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		e, exists := c.entries[key]
		if !exists {
			// Snapshot may be stale for keys written out of band.
			loaded, err := c.store.Load(ctx, key)
			if err != nil {
				return nil, err
			}
			e = loaded[0]
			c.entries[key] = e
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (c *Cache) Save(ctx context.Context, entries ...Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Save(ctx, entries...); err != nil {
		return err
	}
	c.valid = false
	return nil
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Delete(ctx, keys...); err != nil {
		return err
	}
	c.valid = false
	return nil
}
