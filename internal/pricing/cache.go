package pricing

import (
	"context"
	"sync"
	"time"

	"salesbot-service/internal/models"
	"salesbot-service/internal/util"

	"go.uber.org/zap"
)

// CacheTTL is how long a fetched price entry stays valid. A stale
// entry is treated exactly like a miss.
const CacheTTL = 5 * time.Minute

// Fetcher is the single external lookup the cache sits in front of
type Fetcher interface {
	GetProductByHandle(ctx context.Context, sku string) (*models.PriceData, error)
}

type cacheEntry struct {
	data      *models.PriceData
	fetchedAt time.Time
}

// Cache is a TTL cache over the external price/stock lookup. Only
// successful fetches are cached; a failed lookup is retried on the
// next call rather than being pinned for the TTL window.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	entries map[string]cacheEntry

	// now is swappable for TTL tests
	now func() time.Time
}

// NewCache creates a price cache in front of the given fetcher
func NewCache(fetcher Fetcher, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = CacheTTL
	}
	return &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		logger:  logger,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns fresh price data for a SKU, fetching on a miss.
// Returns nil when no data could be obtained; the caller degrades to
// local catalog data in that case.
func (c *Cache) Get(ctx context.Context, sku string) *models.PriceData {
	if data := c.getCached(sku); data != nil {
		util.PriceCacheHitsTotal.Inc()
		return data
	}

	data, err := c.fetcher.GetProductByHandle(ctx, sku)
	if err != nil {
		util.PriceCacheMissesTotal.WithLabelValues("fetch_failed").Inc()
		c.logger.Warn("Price lookup failed, continuing with local data",
			zap.String("sku", sku),
			zap.Error(err))
		return nil
	}

	util.PriceCacheMissesTotal.WithLabelValues("fetched").Inc()

	c.mu.Lock()
	c.entries[sku] = cacheEntry{data: data, fetchedAt: c.now()}
	c.mu.Unlock()

	return data
}

// getCached returns the cached entry for a SKU if it is still within
// the TTL, nil otherwise. Stale entries are dropped on sight.
func (c *Cache) getCached(sku string) *models.PriceData {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[sku]
	if !ok {
		return nil
	}

	if c.now().Sub(entry.fetchedAt) >= c.ttl {
		delete(c.entries, sku)
		return nil
	}

	return entry.data
}

// Len returns the number of entries currently held, fresh or stale
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
