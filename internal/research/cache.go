package research

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CachedClient deduplicates and caches research queries across runs.
// Benchmarks barely move within a process lifetime, so two runs for the same
// industry and region share one backend call: concurrent callers collapse
// through singleflight, later callers hit the cache.
type CachedClient struct {
	inner Client
	group singleflight.Group
	cache sync.Map
}

func NewCachedClient(inner Client) *CachedClient {
	return &CachedClient{inner: inner}
}

func (c *CachedClient) Search(ctx context.Context, query string) (string, error) {
	if val, ok := c.cache.Load(query); ok {
		return val.(string), nil
	}

	val, err, _ := c.group.Do(query, func() (any, error) {
		text, err := c.inner.Search(ctx, query)
		if err != nil {
			return "", err
		}
		c.cache.Store(query, text)
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return val.(string), nil
}

// Query builds the canonical research query for an industry and region.
// Deterministic on purpose: it doubles as the cache key.
func Query(industry, region string) string {
	return fmt.Sprintf(
		"Current %s business exit readiness benchmarks in %s: owner dependence thresholds, "+
			"customer concentration limits, recurring revenue expectations, EBITDA margins, "+
			"valuation multiples, and improvement strategies. Respond as JSON with keys "+
			"valuation_benchmarks, industry_specific_thresholds, improvement_strategies, "+
			"market_conditions, citations.",
		industry, region)
}
