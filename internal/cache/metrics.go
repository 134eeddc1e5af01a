package cache

import (
	"sync/atomic"
	"time"
)

func (c *counters) hit() {
	atomic.AddInt64(&c.requests, 1)
	atomic.AddInt64(&c.hits, 1)
}

func (c *counters) miss() {
	atomic.AddInt64(&c.requests, 1)
	atomic.AddInt64(&c.misses, 1)
}

// recordLatency записывает latency операции.
func (c *counters) recordLatency(start time.Time) {
	latency := time.Since(start).Nanoseconds()

	atomic.AddInt64(&c.latencySum, latency)
	atomic.AddInt64(&c.latencyCount, 1)

	for {
		current := atomic.LoadInt64(&c.maxLatency)
		if latency <= current || atomic.CompareAndSwapInt64(&c.maxLatency, current, latency) {
			break
		}
	}
}

// snapshot собирает CacheMetrics из счётчиков
func (c *counters) snapshot() CacheMetrics {
	m := CacheMetrics{
		TotalRequests: atomic.LoadInt64(&c.requests),
		CacheHits:     atomic.LoadInt64(&c.hits),
		CacheMisses:   atomic.LoadInt64(&c.misses),
		LastUpdate:    time.Now(),
	}
	if total := m.CacheHits + m.CacheMisses; total > 0 {
		m.HitRatio = float64(m.CacheHits) / float64(total)
	}
	if count := atomic.LoadInt64(&c.latencyCount); count > 0 {
		m.AvgLatencyMs = float64(atomic.LoadInt64(&c.latencySum)) / float64(count) / 1e6 // нс в мс
		m.MaxLatencyMs = float64(atomic.LoadInt64(&c.maxLatency)) / 1e6
	}
	return m
}
