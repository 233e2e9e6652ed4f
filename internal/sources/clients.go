package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/devpulse/devpulse/internal/resilience"
	"github.com/devpulse/devpulse/internal/types"
)

// Client calls one upstream API behind a circuit breaker. Each upstream
// (defect tracker, roster, assessment service) gets its own Client so a
// failing source trips only its own breaker.
type Client struct {
	name    string
	baseURL string
	http    *http.Client
	breaker *resilience.CircuitBreaker
}

// NewClient creates a source client for the API rooted at baseURL.
func NewClient(name, baseURL string) *Client {
	return &Client{
		name:    name,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			FailureThreshold: 5,
			RecoveryTimeout:  30 * time.Second,
			SuccessThreshold: 3,
		}),
	}
}

// Name identifies the upstream in logs and metrics.
func (c *Client) Name() string {
	return c.name
}

// fetch performs one GET and decodes the envelope. Transport-level non-2xx
// responses are mapped to an unsuccessful envelope rather than an error so
// callers handle both failure shapes the same way.
func fetch[T any](ctx context.Context, c *Client, path string) (Envelope[T], error) {
	var env Envelope[T]

	err := c.breaker.Call(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return fmt.Errorf("building %s request: %w", c.name, err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("calling %s: %w", c.name, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			env = Failure[T](fmt.Sprintf("%s returned status %d", c.name, resp.StatusCode))
			return nil
		}

		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return fmt.Errorf("decoding %s response: %w", c.name, err)
		}
		return nil
	})
	if err != nil {
		return Envelope[T]{}, err
	}

	return env, nil
}

// DefectClient fetches a project's defect backlog from the tracker API.
type DefectClient struct {
	*Client
}

// NewDefectClient creates a defect tracker client.
func NewDefectClient(baseURL string) *DefectClient {
	return &DefectClient{Client: NewClient("defect-tracker", baseURL)}
}

// FetchBacklog returns the open defects for a project.
func (c *DefectClient) FetchBacklog(ctx context.Context, projectKey string) (Envelope[[]types.Defect], error) {
	return fetch[[]types.Defect](ctx, c.Client, "/api/projects/"+projectKey+"/defects")
}

// RosterClient fetches team rosters with workload signals.
type RosterClient struct {
	*Client
}

// NewRosterClient creates a roster client.
func NewRosterClient(baseURL string) *RosterClient {
	return &RosterClient{Client: NewClient("roster", baseURL)}
}

// FetchRoster returns the members of a team.
func (c *RosterClient) FetchRoster(ctx context.Context, teamID string) (Envelope[[]types.TeamMember], error) {
	return fetch[[]types.TeamMember](ctx, c.Client, "/api/teams/"+teamID+"/members")
}

// AssessmentClient fetches burnout-risk assessments.
type AssessmentClient struct {
	*Client
}

// NewAssessmentClient creates an assessment client.
func NewAssessmentClient(baseURL string) *AssessmentClient {
	return &AssessmentClient{Client: NewClient("assessment", baseURL)}
}

// FetchAssessments returns the latest risk assessments for a team's members.
func (c *AssessmentClient) FetchAssessments(ctx context.Context, teamID string) (Envelope[[]types.RiskAssessment], error) {
	return fetch[[]types.RiskAssessment](ctx, c.Client, "/api/teams/"+teamID+"/assessments")
}
