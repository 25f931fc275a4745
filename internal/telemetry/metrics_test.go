package telemetry

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLatencyToBucket(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want LatencyBucket
	}{
		{50 * time.Millisecond, BucketP100},
		{100 * time.Millisecond, BucketP500},
		{time.Second, BucketP2000},
		{5 * time.Second, BucketP10000},
		{time.Minute, BucketSlow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LatencyToBucket(tt.d))
	}
}

func TestMetricsRecordAndSnapshot(t *testing.T) {
	m := NewMetrics()

	m.Record(QueryEvent{Category: "speed_limits", ResultCount: 5, Latency: 200 * time.Millisecond})
	m.Record(QueryEvent{Category: "speed_limits", ResultCount: 5, CacheHit: true, Latency: 100 * time.Millisecond})
	m.Record(QueryEvent{Category: "general", ResultCount: 0, Degraded: true, Latency: 600 * time.Millisecond})

	s := m.Snapshot()
	assert.Equal(t, int64(3), s.Queries)
	assert.Equal(t, int64(1), s.CacheHits)
	assert.Equal(t, int64(1), s.ZeroResults)
	assert.Equal(t, int64(1), s.Degraded)
	assert.Equal(t, 300*time.Millisecond, s.AvgLatency)
	assert.Equal(t, int64(2), s.ByCategory["speed_limits"])
	assert.Equal(t, int64(2), s.ByBucket[BucketP500])
	assert.Equal(t, int64(1), s.ByBucket[BucketP2000])
	assert.InDelta(t, 1.0/3.0, s.CacheHitRate(), 1e-9)
}

func TestMetricsConcurrentRecord(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Record(QueryEvent{ResultCount: 1, Latency: time.Millisecond})
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), m.Snapshot().Queries)
}
