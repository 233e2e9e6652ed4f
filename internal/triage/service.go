// Package triage serves cached, prioritized defect backlogs. Like the team
// summary path, reads degrade to deterministic defaults instead of failing.
package triage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/devpulse/devpulse/internal/cache"
	"github.com/devpulse/devpulse/internal/cohort"
	"github.com/devpulse/devpulse/internal/monitoring"
	"github.com/devpulse/devpulse/internal/resilience"
	"github.com/devpulse/devpulse/internal/sources"
	"github.com/devpulse/devpulse/internal/types"
)

// BacklogSource fetches a project's open defects from the tracker upstream.
type BacklogSource interface {
	FetchBacklog(ctx context.Context, projectKey string) (sources.Envelope[[]types.Defect], error)
}

// Service orchestrates the defect tracker into prioritized backlogs. It
// exclusively owns its cache.
type Service struct {
	backlog  BacklogSource
	fallback sources.FallbackProvider
	cache    *cache.Cache
	metrics  *monitoring.Metrics
	logger   *monitoring.Logger
	retry    resilience.RetryConfig
	ttl      time.Duration
}

// NewService creates a triage service with the default cache TTL.
func NewService(backlog BacklogSource, fallback sources.FallbackProvider, metrics *monitoring.Metrics, logger *monitoring.Logger) *Service {
	return NewServiceWithCache(backlog, fallback, metrics, logger, cache.New(cache.DefaultTTL), cache.DefaultTTL)
}

// NewServiceWithCache creates a triage service around an existing cache with
// a caller-chosen TTL.
func NewServiceWithCache(backlog BacklogSource, fallback sources.FallbackProvider, metrics *monitoring.Metrics, logger *monitoring.Logger, c *cache.Cache, ttl time.Duration) *Service {
	return &Service{
		backlog:  backlog,
		fallback: fallback,
		cache:    c,
		metrics:  metrics,
		logger:   logger,
		retry:    resilience.UpstreamRetryConfig(),
		ttl:      ttl,
	}
}

// SetRetryConfig overrides the upstream retry policy.
func (s *Service) SetRetryConfig(cfg resilience.RetryConfig) {
	s.retry = cfg
}

// BacklogCacheKey is the composite cache key for one project's backlog.
func BacklogCacheKey(projectKey string) string {
	return "triage:backlog:" + projectKey
}

// PrioritizeBacklog returns the project's scored, ordered backlog, served
// from cache when a valid entry exists. A failing tracker degrades to the
// fallback backlog; only a failure of scoring itself produces a non-empty
// Error. PrioritizeBacklog never returns a Go error or panics.
func (s *Service) PrioritizeBacklog(ctx context.Context, projectKey string) (resp types.ServiceResponse[cohort.PrioritizedBacklog]) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Backlog prioritization failed", "project", projectKey, "panic", r)
			resp = types.ServiceResponse[cohort.PrioritizedBacklog]{Error: "failed to load backlog"}
		}
	}()

	key := BacklogCacheKey(projectKey)
	if data, found := s.cache.Get(key); found {
		var backlog cohort.PrioritizedBacklog
		if err := json.Unmarshal(data, &backlog); err == nil {
			s.metrics.IncrementCacheHit()
			return types.ServiceResponse[cohort.PrioritizedBacklog]{Data: &backlog}
		}
		s.cache.Delete(key)
	}
	s.metrics.IncrementCacheMiss()

	s.metrics.IncrementUpstreamCall("defect-tracker")
	env, err := resilience.WithRetry(ctx, s.retry, func(ctx context.Context) (sources.Envelope[[]types.Defect], error) {
		return s.backlog.FetchBacklog(ctx, projectKey)
	})

	defects := env.Data
	if err != nil || !env.Success {
		s.metrics.IncrementUpstreamError("defect-tracker")
		s.metrics.IncrementFallback()

		reason := env.Error
		if err != nil {
			reason = err.Error()
		}
		s.logger.FallbackLogger("defect-tracker", projectKey, reason)

		defects = s.fallback.DefaultBacklog(projectKey)
	}

	backlog := cohort.Prioritize(projectKey, defects)

	if data, marshalErr := json.Marshal(backlog); marshalErr == nil {
		s.cache.SetWithTTL(key, data, s.ttl)
	}

	return types.ServiceResponse[cohort.PrioritizedBacklog]{Data: &backlog}
}

// ClearCache invalidates one project's backlog by key, or every entry when
// key is empty.
func (s *Service) ClearCache(key string) {
	if key == "" {
		s.cache.Clear()
		return
	}
	s.cache.Delete(key)
}

// CacheStats exposes the backlog cache's statistics.
func (s *Service) CacheStats() map[string]interface{} {
	return s.cache.Stats()
}
