package monitoring

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds application counters. Scalar counters are atomic; the
// per-upstream maps take the mutex.
type Metrics struct {
	RequestCount    int64
	ErrorCount      int64
	CacheHits       int64
	CacheMisses     int64
	FallbackCount   int64
	RateLimitBlocks int64
	StartTime       time.Time

	upstreamCalls  map[string]int64
	upstreamErrors map[string]int64
	upstreamMutex  sync.RWMutex
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:      time.Now(),
		upstreamCalls:  make(map[string]int64),
		upstreamErrors: make(map[string]int64),
	}
}

// IncrementRequest increments the request count
func (m *Metrics) IncrementRequest() {
	atomic.AddInt64(&m.RequestCount, 1)
}

// IncrementError increments the error count
func (m *Metrics) IncrementError() {
	atomic.AddInt64(&m.ErrorCount, 1)
}

// IncrementCacheHit increments cache hit count
func (m *Metrics) IncrementCacheHit() {
	atomic.AddInt64(&m.CacheHits, 1)
}

// IncrementCacheMiss increments cache miss count
func (m *Metrics) IncrementCacheMiss() {
	atomic.AddInt64(&m.CacheMisses, 1)
}

// IncrementFallback counts a default-data substitution for a failed source.
func (m *Metrics) IncrementFallback() {
	atomic.AddInt64(&m.FallbackCount, 1)
}

// IncrementRateLimitBlock counts a request rejected by the rate limiter.
func (m *Metrics) IncrementRateLimitBlock() {
	atomic.AddInt64(&m.RateLimitBlocks, 1)
}

// IncrementUpstreamCall counts one call to the named upstream source.
func (m *Metrics) IncrementUpstreamCall(source string) {
	m.upstreamMutex.Lock()
	defer m.upstreamMutex.Unlock()

	m.upstreamCalls[source]++
}

// IncrementUpstreamError counts one failed call to the named upstream source.
func (m *Metrics) IncrementUpstreamError(source string) {
	m.upstreamMutex.Lock()
	defer m.upstreamMutex.Unlock()

	m.upstreamErrors[source]++
}

// Snapshot returns a point-in-time view of all counters for the metrics
// endpoint.
func (m *Metrics) Snapshot() map[string]interface{} {
	m.upstreamMutex.RLock()
	calls := make(map[string]int64, len(m.upstreamCalls))
	for k, v := range m.upstreamCalls {
		calls[k] = v
	}
	errs := make(map[string]int64, len(m.upstreamErrors))
	for k, v := range m.upstreamErrors {
		errs[k] = v
	}
	m.upstreamMutex.RUnlock()

	return map[string]interface{}{
		"request_count":    atomic.LoadInt64(&m.RequestCount),
		"error_count":      atomic.LoadInt64(&m.ErrorCount),
		"cache_hits":       atomic.LoadInt64(&m.CacheHits),
		"cache_misses":     atomic.LoadInt64(&m.CacheMisses),
		"fallback_count":   atomic.LoadInt64(&m.FallbackCount),
		"ratelimit_blocks": atomic.LoadInt64(&m.RateLimitBlocks),
		"upstream_calls":   calls,
		"upstream_errors":  errs,
		"uptime_seconds":   time.Since(m.StartTime).Seconds(),
	}
}
