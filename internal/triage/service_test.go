package triage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpulse/devpulse/internal/cache"
	"github.com/devpulse/devpulse/internal/monitoring"
	"github.com/devpulse/devpulse/internal/resilience"
	"github.com/devpulse/devpulse/internal/scoring"
	"github.com/devpulse/devpulse/internal/sources"
	"github.com/devpulse/devpulse/internal/types"
)

type stubBacklog struct {
	calls int
	env   sources.Envelope[[]types.Defect]
	err   error
}

func (s *stubBacklog) FetchBacklog(ctx context.Context, projectKey string) (sources.Envelope[[]types.Defect], error) {
	s.calls++
	return s.env, s.err
}

// panicFallback panics when asked for a backlog, to exercise the service's
// recover path.
type panicFallback struct {
	sources.StaticFallback
}

func (p *panicFallback) DefaultBacklog(projectKey string) []types.Defect {
	panic("fallback backlog unavailable")
}

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		Retryable:  func(error) bool { return true },
	}
}

func okBacklog(defects ...types.Defect) *stubBacklog {
	return &stubBacklog{env: sources.Envelope[[]types.Defect]{Success: true, Data: defects}}
}

func newTestService(backlog BacklogSource, ttl time.Duration) *Service {
	svc := NewServiceWithCache(
		backlog,
		sources.NewStaticFallback(),
		monitoring.NewMetrics(),
		monitoring.NewLogger(),
		cache.New(ttl),
		ttl,
	)
	svc.SetRetryConfig(fastRetry())
	return svc
}

func TestPrioritizeBacklogScoresAndOrders(t *testing.T) {
	backlog := okBacklog(
		types.Defect{ID: "d-low", Severity: types.SeverityLow, Category: types.CategoryNavigation, ReporterRole: "qa", Area: "settings"},
		types.Defect{ID: "d-crit", Severity: types.SeverityCritical, Category: types.CategoryRuntime, ReporterRole: types.RoleManager, Area: types.AreaAuth},
	)

	resp := newTestService(backlog, time.Minute).PrioritizeBacklog(context.Background(), "proj-x")

	require.NotNil(t, resp.Data)
	assert.Empty(t, resp.Error)
	require.Len(t, resp.Data.Defects, 2)
	assert.Equal(t, "d-crit", resp.Data.Defects[0].Defect.ID)
	assert.Equal(t, scoring.PriorityP0, resp.Data.Defects[0].Priority)
	assert.Equal(t, "proj-x", resp.Data.ProjectKey)
}

func TestPrioritizeBacklogCacheRoundTrip(t *testing.T) {
	backlog := okBacklog(
		types.Defect{ID: "d-1", Severity: types.SeverityMedium, Category: types.CategoryNetwork},
	)
	svc := newTestService(backlog, time.Minute)

	first := svc.PrioritizeBacklog(context.Background(), "proj-x")
	second := svc.PrioritizeBacklog(context.Background(), "proj-x")

	require.NotNil(t, first.Data)
	require.NotNil(t, second.Data)
	assert.Equal(t, first.Data.ScanID, second.Data.ScanID, "cached reads return the same scan")
	assert.Equal(t, 1, backlog.calls, "second read must come from cache")
}

func TestPrioritizeBacklogRefetchesAfterExpiry(t *testing.T) {
	backlog := okBacklog(
		types.Defect{ID: "d-1", Severity: types.SeverityMedium, Category: types.CategoryNetwork},
	)
	svc := newTestService(backlog, 10*time.Millisecond)

	svc.PrioritizeBacklog(context.Background(), "proj-x")
	time.Sleep(20 * time.Millisecond)
	svc.PrioritizeBacklog(context.Background(), "proj-x")

	assert.Equal(t, 2, backlog.calls, "expired entry must trigger exactly one more fetch")
}

func TestPrioritizeBacklogUpstreamFailureDegradesToFallback(t *testing.T) {
	backlog := &stubBacklog{env: sources.Failure[[]types.Defect]("defect-tracker returned status 503")}

	resp := newTestService(backlog, time.Minute).PrioritizeBacklog(context.Background(), "proj-x")

	require.NotNil(t, resp.Data)
	assert.Empty(t, resp.Error)
	assert.NotEmpty(t, resp.Data.Defects, "fallback backlog must not be empty")
	assert.Equal(t, "proj-x-FB-1", resp.Data.Defects[0].Defect.ID)
}

func TestPrioritizeBacklogTransportErrorIsRetriedThenDegrades(t *testing.T) {
	backlog := &stubBacklog{err: errors.New("dial tcp: connection refused")}

	resp := newTestService(backlog, time.Minute).PrioritizeBacklog(context.Background(), "proj-x")

	require.NotNil(t, resp.Data)
	assert.Empty(t, resp.Error)
	assert.Equal(t, 3, backlog.calls, "transport errors are retried before degrading")
}

func TestPrioritizeBacklogRecoversFromPanic(t *testing.T) {
	backlog := &stubBacklog{err: errors.New("dial tcp: connection refused")}
	svc := NewServiceWithCache(
		backlog,
		&panicFallback{},
		monitoring.NewMetrics(),
		monitoring.NewLogger(),
		cache.New(time.Minute),
		time.Minute,
	)
	svc.SetRetryConfig(fastRetry())

	resp := svc.PrioritizeBacklog(context.Background(), "proj-x")

	assert.Nil(t, resp.Data)
	assert.Equal(t, "failed to load backlog", resp.Error)
}

func TestClearCacheForcesRefetch(t *testing.T) {
	backlog := okBacklog(
		types.Defect{ID: "d-1", Severity: types.SeverityMedium, Category: types.CategoryNetwork},
	)
	svc := newTestService(backlog, time.Minute)

	svc.PrioritizeBacklog(context.Background(), "proj-x")
	svc.ClearCache(BacklogCacheKey("proj-x"))
	svc.PrioritizeBacklog(context.Background(), "proj-x")

	assert.Equal(t, 2, backlog.calls)
}

func TestClearCacheEmptyKeyClearsEverything(t *testing.T) {
	backlog := okBacklog(
		types.Defect{ID: "d-1", Severity: types.SeverityMedium, Category: types.CategoryNetwork},
	)
	svc := newTestService(backlog, time.Minute)

	svc.PrioritizeBacklog(context.Background(), "proj-x")
	svc.PrioritizeBacklog(context.Background(), "proj-y")
	svc.ClearCache("")

	stats := svc.CacheStats()
	assert.Equal(t, 0, stats["total_items"])
}
