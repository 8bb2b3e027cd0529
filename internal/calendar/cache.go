package calendar

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/acadportal/slaclock/internal/bizday"
	"github.com/acadportal/slaclock/pkg/types"
)

// Compile-time interface satisfaction check.
var _ bizday.Oracle = (*Cache)(nil)

type cacheEntry struct {
	ok      bool
	expires time.Time
}

// Cache memoizes another oracle's answers per calendar day with a TTL.
// Deadline walks ask about the same days over and over; when the inner
// oracle is store-backed this turns O(days) round trips into O(1) per day
// per TTL window. Concurrent misses for the same day are collapsed into a
// single inner lookup. Errors are never cached.
type Cache struct {
	inner bizday.Oracle
	ttl   time.Duration
	now   func() time.Time // injectable for testing

	mu      sync.RWMutex
	entries map[string]cacheEntry
	group   singleflight.Group
}

// NewCache wraps inner with a TTL memo. A non-positive ttl defaults to one hour.
func NewCache(inner bizday.Oracle, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// IsBusinessDay implements bizday.Oracle.
func (c *Cache) IsBusinessDay(ctx context.Context, d time.Time) (bool, error) {
	key := d.Format(types.DateFormat)

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Before(e.expires) {
		return e.ok, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		ok, err := c.inner.IsBusinessDay(ctx, d)
		if err != nil {
			return false, err
		}
		c.mu.Lock()
		c.entries[key] = cacheEntry{ok: ok, expires: c.now().Add(c.ttl)}
		c.mu.Unlock()
		return ok, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}
