// ABOUTME: Bounded in-memory cache with TTL expiration and oldest-first eviction
// ABOUTME: GetOrCompute collapses concurrent misses for one key into a single computation

package cache

import (
	"container/list"
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	key       string
	data      any
	expiresAt time.Time
}

// Cache is safe for concurrent use. A maxEntries of zero means unbounded.
type Cache struct {
	mu         sync.Mutex
	items      map[string]*list.Element
	order      *list.List // front is oldest insertion
	ttl        time.Duration
	maxEntries int
	group      singleflight.Group
	now        func() time.Time
	stop       chan struct{}
	stopOnce   sync.Once
}

func New(ttl time.Duration, maxEntries int) *Cache {
	c := &Cache{
		items:      make(map[string]*list.Element),
		order:      list.New(),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	go c.startCleanup()
	return c
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		slog.Debug("Cache miss", "key", key)
		return nil, false
	}

	e := el.Value.(*entry)
	if c.now().After(e.expiresAt) {
		c.removeElement(el)
		slog.Debug("Cache expired", "key", key)
		return nil, false
	}

	slog.Debug("Cache hit", "key", key)
	return e.data, true
}

func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL. Re-setting a key counts as a
// fresh insertion for eviction order.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}

	e := &entry{key: key, data: value, expiresAt: c.now().Add(ttl)}
	c.items[key] = c.order.PushBack(e)

	for c.maxEntries > 0 && c.order.Len() > c.maxEntries {
		oldest := c.order.Front()
		slog.Debug("Cache evict", "key", oldest.Value.(*entry).key)
		c.removeElement(oldest)
	}
	slog.Debug("Cache set", "key", key, "ttl", ttl)
}

func (c *Cache) Clear(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// GetOrCompute returns the cached value for key, or runs compute and caches a
// successful result. Concurrent callers with the same key share one compute.
// If ctx ends first the caller gets ctx.Err() while the computation finishes
// in the background and still populates the cache.
func (c *Cache) GetOrCompute(ctx context.Context, key string, compute func() (any, error)) (value any, cached bool, err error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		v, err := compute()
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val, false, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

// Close stops the background sweeper.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}

func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if now.After(el.Value.(*entry).expiresAt) {
			c.removeElement(el)
		}
		el = next
	}
}

func (c *Cache) startCleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stop:
			return
		}
	}
}
