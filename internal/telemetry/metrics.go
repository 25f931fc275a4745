// Package telemetry tracks query metrics for the answer pipeline.
// All data stays in process memory - no external reporting.
package telemetry

import (
	"sync"
	"time"
)

// LatencyBucket represents a latency histogram bucket.
type LatencyBucket string

const (
	BucketP100   LatencyBucket = "p100"   // <100ms
	BucketP500   LatencyBucket = "p500"   // 100-500ms
	BucketP2000  LatencyBucket = "p2000"  // 500ms-2s
	BucketP10000 LatencyBucket = "p10000" // 2-10s
	BucketSlow   LatencyBucket = "slow"   // >=10s
)

// LatencyToBucket converts a duration to its histogram bucket.
func LatencyToBucket(d time.Duration) LatencyBucket {
	ms := d.Milliseconds()
	switch {
	case ms < 100:
		return BucketP100
	case ms < 500:
		return BucketP500
	case ms < 2000:
		return BucketP2000
	case ms < 10000:
		return BucketP10000
	default:
		return BucketSlow
	}
}

// QueryEvent is one answered question.
type QueryEvent struct {
	Category    string
	ResultCount int
	CacheHit    bool
	Degraded    bool
	Latency     time.Duration
}

// Metrics accumulates query counters. Safe for concurrent use.
type Metrics struct {
	mu           sync.RWMutex
	queries      int64
	cacheHits    int64
	zeroResults  int64
	degraded     int64
	totalLatency time.Duration
	byBucket     map[LatencyBucket]int64
	byCategory   map[string]int64
}

// NewMetrics creates an empty metrics accumulator.
func NewMetrics() *Metrics {
	return &Metrics{
		byBucket:   make(map[LatencyBucket]int64),
		byCategory: make(map[string]int64),
	}
}

// Record adds one query event to the counters.
func (m *Metrics) Record(e QueryEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queries++
	if e.CacheHit {
		m.cacheHits++
	}
	if e.ResultCount == 0 {
		m.zeroResults++
	}
	if e.Degraded {
		m.degraded++
	}
	m.totalLatency += e.Latency
	m.byBucket[LatencyToBucket(e.Latency)]++
	if e.Category != "" {
		m.byCategory[e.Category]++
	}
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Queries     int64
	CacheHits   int64
	ZeroResults int64
	Degraded    int64
	AvgLatency  time.Duration
	ByBucket    map[LatencyBucket]int64
	ByCategory  map[string]int64
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Snapshot{
		Queries:     m.queries,
		CacheHits:   m.cacheHits,
		ZeroResults: m.zeroResults,
		Degraded:    m.degraded,
		ByBucket:    make(map[LatencyBucket]int64, len(m.byBucket)),
		ByCategory:  make(map[string]int64, len(m.byCategory)),
	}
	if m.queries > 0 {
		s.AvgLatency = m.totalLatency / time.Duration(m.queries)
	}
	for k, v := range m.byBucket {
		s.ByBucket[k] = v
	}
	for k, v := range m.byCategory {
		s.ByCategory[k] = v
	}
	return s
}

// CacheHitRate returns the fraction of queries served from cache.
func (s Snapshot) CacheHitRate() float64 {
	if s.Queries == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(s.Queries)
}
