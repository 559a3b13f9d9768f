package enrichment

import (
	"context"
	"sync"
	"time"

	"chatbuff.app/backend/internal/model"
)

// DefaultTTL is how long a cached news fetch stays valid.
const DefaultTTL = 30 * time.Minute

// Cache stores news fetches under normalized filter keys. Entries expire
// after the TTL. Implementations must be safe for concurrent use; a
// small duplicate-fetch race between Get and Set is tolerated.
type Cache interface {
	Get(ctx context.Context, key string) ([]model.NewsItem, bool)
	Set(ctx context.Context, key string, items []model.NewsItem)
}

type memoryEntry struct {
	items     []model.NewsItem
	fetchedAt time.Time
}

// MemoryCache is the in-process cache used when no Redis is configured.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]model.NewsItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.fetchedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.items, true
}

func (c *MemoryCache) Set(_ context.Context, key string, items []model.NewsItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{items: items, fetchedAt: c.now()}
}

// SetClock overrides the cache's time source. Test hook.
func (c *MemoryCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
