package search

import (
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// cacheLatencyThreshold gates what gets cached: a query that took
	// longer probably failed somewhere and should be recomputed.
	cacheLatencyThreshold = 60 * time.Second

	// cachedElapsed is the nominal elapsed time reported for hits.
	cachedElapsed = 100 * time.Millisecond
)

// QueryCache is a bounded LRU with TTL over full query results, keyed
// by the exact (question, topK) pair. Safe for concurrent use.
type QueryCache struct {
	lru *expirable.LRU[string, QueryResult]
}

// NewQueryCache creates a cache holding up to size entries for at most
// ttl each. Size zero or negative disables the size bound.
func NewQueryCache(size int, ttl time.Duration) *QueryCache {
	return &QueryCache{lru: expirable.NewLRU[string, QueryResult](size, nil, ttl)}
}

func cacheKey(question string, topK int) string {
	return question + "\x00" + strconv.Itoa(topK)
}

// Get returns the cached result for the question, marked as a hit with
// the nominal fast-path elapsed time.
func (c *QueryCache) Get(question string, topK int) (QueryResult, bool) {
	result, ok := c.lru.Get(cacheKey(question, topK))
	if !ok {
		return QueryResult{}, false
	}
	result.CacheHit = true
	result.Elapsed = cachedElapsed
	return result, true
}

// Put stores a computed result unless it took longer than the latency
// threshold.
func (c *QueryCache) Put(question string, topK int, result QueryResult) {
	if result.Elapsed >= cacheLatencyThreshold {
		return
	}
	c.lru.Add(cacheKey(question, topK), result)
}

// Len returns the number of live entries.
func (c *QueryCache) Len() int {
	return c.lru.Len()
}
