// Package team serves cached, degradation-tolerant team capacity/risk
// summaries. Read paths never fail: a missing or failing upstream source is
// replaced by deterministic defaults, and only a broken aggregation surfaces
// an error string to the caller.
package team

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/devpulse/devpulse/internal/cache"
	"github.com/devpulse/devpulse/internal/cohort"
	"github.com/devpulse/devpulse/internal/monitoring"
	"github.com/devpulse/devpulse/internal/resilience"
	"github.com/devpulse/devpulse/internal/sources"
	"github.com/devpulse/devpulse/internal/types"
)

// neutralRiskScore is assigned to members with no usable assessment; it sits
// on the moderate band's midpoint so they neither trip nor mask alerts.
const neutralRiskScore = 50

// RosterSource fetches a team's members from the roster upstream.
type RosterSource interface {
	FetchRoster(ctx context.Context, teamID string) (sources.Envelope[[]types.TeamMember], error)
}

// AssessmentSource fetches burnout assessments from the assessment upstream.
type AssessmentSource interface {
	FetchAssessments(ctx context.Context, teamID string) (sources.Envelope[[]types.RiskAssessment], error)
}

// Service orchestrates the roster and assessment sources into team summaries.
// It exclusively owns its cache; no other component reads or writes it.
type Service struct {
	roster      RosterSource
	assessments AssessmentSource
	fallback    sources.FallbackProvider
	cache       *cache.Cache
	metrics     *monitoring.Metrics
	logger      *monitoring.Logger
	retry       resilience.RetryConfig
	ttl         time.Duration
}

// NewService creates a team service with the default cache TTL.
func NewService(roster RosterSource, assessments AssessmentSource, fallback sources.FallbackProvider, metrics *monitoring.Metrics, logger *monitoring.Logger) *Service {
	return NewServiceWithCache(roster, assessments, fallback, metrics, logger, cache.New(cache.DefaultTTL), cache.DefaultTTL)
}

// NewServiceWithCache creates a team service around an existing cache with a
// caller-chosen TTL.
func NewServiceWithCache(roster RosterSource, assessments AssessmentSource, fallback sources.FallbackProvider, metrics *monitoring.Metrics, logger *monitoring.Logger, c *cache.Cache, ttl time.Duration) *Service {
	return &Service{
		roster:      roster,
		assessments: assessments,
		fallback:    fallback,
		cache:       c,
		metrics:     metrics,
		logger:      logger,
		retry:       resilience.UpstreamRetryConfig(),
		ttl:         ttl,
	}
}

// SetRetryConfig overrides the upstream retry policy.
func (s *Service) SetRetryConfig(cfg resilience.RetryConfig) {
	s.retry = cfg
}

// SummaryCacheKey is the composite cache key for one team's summary.
func SummaryCacheKey(teamID string) string {
	return "team:summary:" + teamID
}

// FetchSummary returns the team's capacity/risk summary, served from cache
// when a valid entry exists. Partial upstream failure degrades to defaults;
// only a failure of the aggregation itself produces a non-empty Error, and
// then Data is nil. FetchSummary never returns a Go error or panics.
func (s *Service) FetchSummary(ctx context.Context, teamID string) (resp types.ServiceResponse[cohort.TeamSummary]) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Team summary aggregation failed", "team", teamID, "panic", r)
			resp = types.ServiceResponse[cohort.TeamSummary]{Error: "failed to load team summary"}
		}
	}()

	key := SummaryCacheKey(teamID)
	if data, found := s.cache.Get(key); found {
		var summary cohort.TeamSummary
		if err := json.Unmarshal(data, &summary); err == nil {
			s.metrics.IncrementCacheHit()
			return types.ServiceResponse[cohort.TeamSummary]{Data: &summary}
		}
		// Corrupt entry; drop it and fall through to a fresh fetch.
		s.cache.Delete(key)
	}
	s.metrics.IncrementCacheMiss()

	var (
		rosterEnv sources.Envelope[[]types.TeamMember]
		rosterErr error
		assessEnv sources.Envelope[[]types.RiskAssessment]
		assessErr error
	)

	// Fan out to both sources; each branch records its own outcome and never
	// returns an error, so one failing branch cannot cancel the other.
	g := new(errgroup.Group)
	g.Go(func() error {
		s.metrics.IncrementUpstreamCall("roster")
		rosterEnv, rosterErr = resilience.WithRetry(ctx, s.retry, func(ctx context.Context) (sources.Envelope[[]types.TeamMember], error) {
			return s.roster.FetchRoster(ctx, teamID)
		})
		return nil
	})
	g.Go(func() error {
		s.metrics.IncrementUpstreamCall("assessment")
		assessEnv, assessErr = resilience.WithRetry(ctx, s.retry, func(ctx context.Context) (sources.Envelope[[]types.RiskAssessment], error) {
			return s.assessments.FetchAssessments(ctx, teamID)
		})
		return nil
	})
	g.Wait()

	members := rosterEnv.Data
	if rosterErr != nil || !rosterEnv.Success {
		s.recordFallback("roster", teamID, rosterErr, rosterEnv.Error)
		members = s.fallback.DefaultRoster(teamID)
	}

	assessments := assessEnv.Data
	if assessErr != nil || !assessEnv.Success {
		s.recordFallback("assessment", teamID, assessErr, assessEnv.Error)
		assessments = s.fallback.DefaultAssessments(teamID)
	}

	summary := cohort.Summarize(teamID, mergeAssessments(members, assessments))

	if data, err := json.Marshal(summary); err == nil {
		s.cache.SetWithTTL(key, data, s.ttl)
	}

	return types.ServiceResponse[cohort.TeamSummary]{Data: &summary}
}

// mergeAssessments copies each member with the risk score from their latest
// assessment. Members with no matching assessment get the neutral score.
func mergeAssessments(members []types.TeamMember, assessments []types.RiskAssessment) []types.TeamMember {
	scores := make(map[string]float64, len(assessments))
	for _, a := range assessments {
		scores[a.MemberID] = a.Score
	}

	merged := make([]types.TeamMember, len(members))
	for i, m := range members {
		if score, ok := scores[m.ID]; ok {
			m.RiskScore = score
		} else {
			m.RiskScore = neutralRiskScore
		}
		merged[i] = m
	}
	return merged
}

func (s *Service) recordFallback(source, teamID string, err error, envelopeReason string) {
	s.metrics.IncrementUpstreamError(source)
	s.metrics.IncrementFallback()

	reason := envelopeReason
	if err != nil {
		reason = err.Error()
	}
	s.logger.FallbackLogger(source, teamID, reason)
}

// ClearCache invalidates one team's summary by key, or every entry when key
// is empty. Callers use it to force a refresh after a roster mutation.
func (s *Service) ClearCache(key string) {
	if key == "" {
		s.cache.Clear()
		return
	}
	s.cache.Delete(key)
}

// CacheStats exposes the summary cache's statistics.
func (s *Service) CacheStats() map[string]interface{} {
	return s.cache.Stats()
}
