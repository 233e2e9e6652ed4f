// Package ratelimit provides per-client in-memory rate limiting for the HTTP
// surface using token buckets.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/devpulse/devpulse/internal/monitoring"
)

// Config holds rate limiter configuration.
type Config struct {
	RequestsPerMin  int `json:"requests_per_min"`
	BurstMultiplier int `json:"burst_multiplier"`
}

// DefaultConfig returns the standard per-IP policy.
func DefaultConfig() Config {
	return Config{
		RequestsPerMin:  60,
		BurstMultiplier: 2,
	}
}

// Result is the outcome of a rate limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter keeps one token bucket per client key. Buckets are created lazily
// and the whole map is reset when it grows past cleanupThreshold.
type Limiter struct {
	config  Config
	metrics *monitoring.Metrics

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

const cleanupThreshold = 1000

// NewLimiter creates a limiter and starts its cleanup goroutine.
func NewLimiter(config Config, metrics *monitoring.Metrics) *Limiter {
	if config.RequestsPerMin <= 0 {
		config = DefaultConfig()
	}

	l := &Limiter{
		config:   config,
		metrics:  metrics,
		limiters: make(map[string]*rate.Limiter),
	}

	go l.cleanup()

	return l
}

// Allow checks whether the client identified by key may make a request now.
func (l *Limiter) Allow(key string) *Result {
	l.mu.Lock()
	limiter, exists := l.limiters[key]
	if !exists {
		rps := rate.Limit(float64(l.config.RequestsPerMin) / 60.0)
		burst := l.config.RequestsPerMin * l.config.BurstMultiplier
		if burst < 5 {
			burst = 5
		}
		limiter = rate.NewLimiter(rps, burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()

	allowed := limiter.Allow()

	remaining := int(limiter.Tokens())
	if remaining < 0 {
		remaining = 0
	}

	result := &Result{
		Allowed:   allowed,
		Limit:     l.config.RequestsPerMin,
		Remaining: remaining,
	}
	if !allowed {
		result.RetryAfter = time.Minute
	}

	return result
}

// cleanup periodically resets the bucket map once it grows large. Buckets are
// cheap to rebuild, so a full reset beats per-bucket bookkeeping.
func (l *Limiter) cleanup() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		if len(l.limiters) > cleanupThreshold {
			l.limiters = make(map[string]*rate.Limiter)
		}
		l.mu.Unlock()
	}
}

// Size returns the number of tracked client buckets.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.limiters)
}
