// ABOUTME: Read-through LRU cache in front of an ObservationStore.
// ABOUTME: The dataset is read-only, so query results are reused until their TTL lapses.

package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// cacheEntry stores a cached query result and when it was loaded.
type cacheEntry struct {
	value    any
	loadedAt time.Time
}

// CachedStore wraps an ObservationStore and memoizes query results.
// Cached slices are shared between callers and must be treated as read-only.
type CachedStore struct {
	next   ObservationStore
	cache  *lru.Cache
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	// OnLookup, when set, is called after every cache lookup with whether
	// it was served from the cache.
	OnLookup func(hit bool)
}

// NewCachedStore creates a cache holding at most size query results, each
// valid for ttl. A zero ttl keeps entries until they are evicted.
func NewCachedStore(next ObservationStore, size int, ttl time.Duration, logger *slog.Logger) (*CachedStore, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("creating query cache: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedStore{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}, nil
}

// GetAll returns every observation, cached.
func (c *CachedStore) GetAll(ctx context.Context) ([]*Observation, error) {
	v, err := c.load("all", func() (any, error) { return c.next.GetAll(ctx) })
	if err != nil {
		return nil, err
	}
	return v.([]*Observation), nil
}

// GetByID returns one observation, cached. Misses are not cached.
func (c *CachedStore) GetByID(ctx context.Context, id int) (*Observation, error) {
	v, err := c.load(fmt.Sprintf("id:%d", id), func() (any, error) { return c.next.GetByID(ctx, id) })
	if err != nil {
		return nil, err
	}
	return v.(*Observation), nil
}

// GetByTeam returns observations for a team, cached.
func (c *CachedStore) GetByTeam(ctx context.Context, team string) ([]*Observation, error) {
	v, err := c.load("team:"+team, func() (any, error) { return c.next.GetByTeam(ctx, team) })
	if err != nil {
		return nil, err
	}
	return v.([]*Observation), nil
}

// GetByTarget returns observations for a target, cached.
func (c *CachedStore) GetByTarget(ctx context.Context, target string) ([]*Observation, error) {
	v, err := c.load("target:"+target, func() (any, error) { return c.next.GetByTarget(ctx, target) })
	if err != nil {
		return nil, err
	}
	return v.([]*Observation), nil
}

// Count returns the total number of observations, cached.
func (c *CachedStore) Count(ctx context.Context) (int, error) {
	v, err := c.load("count", func() (any, error) { return c.next.Count(ctx) })
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

// Purge drops every cached result.
func (c *CachedStore) Purge() {
	c.cache.Purge()
}

// Close purges the cache and closes the wrapped store.
func (c *CachedStore) Close() error {
	c.cache.Purge()
	return c.next.Close()
}

// load returns a fresh cached value for key or calls fetch and caches its
// result. Errors are never cached.
func (c *CachedStore) load(key string, fetch func() (any, error)) (any, error) {
	if raw, ok := c.cache.Get(key); ok {
		entry := raw.(*cacheEntry)
		if c.ttl <= 0 || c.now().Sub(entry.loadedAt) < c.ttl {
			c.observe(true)
			return entry.value, nil
		}
		c.cache.Remove(key)
	}
	c.observe(false)

	v, err := fetch()
	if err != nil {
		return nil, err
	}

	c.cache.Add(key, &cacheEntry{value: v, loadedAt: c.now()})
	c.logger.Debug("query cached", "key", key)
	return v, nil
}

func (c *CachedStore) observe(hit bool) {
	if c.OnLookup != nil {
		c.OnLookup(hit)
	}
}
