package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pluginforge.dev/cli/internal/core/domain/plugin"
	"pluginforge.dev/cli/internal/core/ports"
)

// Cache wraps a CatalogSource with per-document freshness windows.
// The catalog and stats are timed independently: a fresh catalog never
// forces a stats fetch and vice versa. The snapshot survives for the
// process lifetime and is only replaced by successful fetches.
type Cache struct {
	source ports.CatalogSource
	ttl    time.Duration
	now    func() time.Time
	logger ports.LoggingGateway

	mu             sync.Mutex
	catalog        *plugin.Catalog
	catalogFetched time.Time
	stats          map[string]int
	statsFetched   time.Time
}

// NewCache creates a cache with the given freshness window.
func NewCache(source ports.CatalogSource, ttl time.Duration, logger ports.LoggingGateway) *Cache {
	return NewCacheWithClock(source, ttl, logger, time.Now)
}

// NewCacheWithClock creates a cache with an injectable clock so tests
// can control freshness expiry.
func NewCacheWithClock(source ports.CatalogSource, ttl time.Duration, logger ports.LoggingGateway, now func() time.Time) *Cache {
	return &Cache{
		source: source,
		ttl:    ttl,
		logger: logger,
		now:    now,
	}
}

// Catalog returns the cached catalog, refreshing it when stale.
// A failed refresh serves the previous snapshot when one exists;
// a first-ever failure with nothing cached is an error.
func (c *Cache) Catalog(ctx context.Context) (*plugin.Catalog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.catalog == nil || now.Sub(c.catalogFetched) > c.ttl {
		catalog, err := c.source.FetchCatalog(ctx)
		if err != nil {
			if c.catalog == nil {
				return nil, fmt.Errorf("%w: %v", plugin.ErrNoCatalog, err)
			}
			c.logger.Log(ports.LogLevelWarn, "registry fetch failed, serving stale catalog", map[string]interface{}{
				"age": now.Sub(c.catalogFetched).String(),
			})
		} else {
			c.catalog = catalog
			c.catalogFetched = now
		}
	}

	return c.catalog, nil
}

// Stats returns the cached install counts, refreshing them when stale.
// Stats are a display enhancement: fetch failures keep the previous
// value and are never surfaced to the caller.
func (c *Cache) Stats(ctx context.Context) map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.statsFetched) > c.ttl {
		stats, err := c.source.FetchStats(ctx)
		if err != nil {
			c.logger.Log(ports.LogLevelDebug, "stats fetch failed", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			c.stats = stats
			c.statsFetched = now
		}
	}

	if c.stats == nil {
		return map[string]int{}
	}
	return c.stats
}
