package shows

import (
	"context"
	"strings"
	"sync"
	"time"
)

type cacheEntry struct {
	shows   []Show
	expires time.Time
}

// CachingProvider wraps another Provider with a TTL-based in-memory cache
// keyed by the normalised search term.
type CachingProvider struct {
	base Provider
	ttl  time.Duration
	now  func() time.Time

	mu    sync.RWMutex
	items map[string]cacheEntry
}

// NewCachingProvider returns a Provider that caches searches for the provided TTL.
func NewCachingProvider(base Provider, ttl time.Duration) *CachingProvider {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachingProvider{
		base:  base,
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]cacheEntry),
	}
}

// Search returns cached results when available, otherwise it delegates to the
// underlying provider and stores the result. Failures are not cached.
func (c *CachingProvider) Search(ctx context.Context, term string) ([]Show, error) {
	if c == nil || c.base == nil {
		return nil, ErrProviderUnavailable
	}

	key := strings.ToLower(strings.TrimSpace(term))
	if key == "" {
		return nil, ErrEmptyTerm
	}
	now := c.now()

	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.shows, nil
	}

	shows, err := c.base.Search(ctx, term)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	for k, e := range c.items {
		if !now.Before(e.expires) {
			delete(c.items, k)
		}
	}
	c.items[key] = cacheEntry{shows: shows, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return shows, nil
}
