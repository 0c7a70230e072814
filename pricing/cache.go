package pricing

import (
	"context"
	"sync"
	"time"
)

type cachedQuote struct {
	quote   Quote
	fetched time.Time
}

// MemoryCache keeps successful quotes for ttl. Failures are not cached.
type MemoryCache struct {
	next  Provider
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
	cache map[string]cachedQuote
}

func NewMemoryCache(next Provider, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		next:  next,
		ttl:   ttl,
		now:   time.Now,
		cache: make(map[string]cachedQuote),
	}
}

func (c *MemoryCache) Name() string { return c.next.Name() }

func (c *MemoryCache) Quote(ctx context.Context, ticker string) (Quote, error) {
	c.mu.RLock()
	if cq, ok := c.cache[ticker]; ok && c.now().Sub(cq.fetched) < c.ttl {
		c.mu.RUnlock()
		return cq.quote, nil
	}
	c.mu.RUnlock()

	q, err := c.next.Quote(ctx, ticker)
	if err != nil {
		return Quote{}, err
	}

	c.mu.Lock()
	c.cache[ticker] = cachedQuote{quote: q, fetched: c.now()}
	c.mu.Unlock()
	return q, nil
}
