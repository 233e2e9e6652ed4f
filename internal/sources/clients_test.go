package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchDecodesSuccessEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/teams/platform/members", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[{"id":"m1","name":"Dana","capacity":72}]}`))
	}))
	defer server.Close()

	client := NewRosterClient(server.URL)
	env, err := client.FetchRoster(context.Background(), "platform")

	require.NoError(t, err)
	require.True(t, env.Success)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "m1", env.Data[0].ID)
	assert.Equal(t, 72.0, env.Data[0].Capacity)
}

func TestFetchMapsNonOKStatusToUnsuccessfulEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewDefectClient(server.URL)
	env, err := client.FetchBacklog(context.Background(), "web")

	// Transport-level failure is not a Go error; it is an unsuccessful
	// envelope, same as a success:false payload.
	require.NoError(t, err)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "503")
	assert.Empty(t, env.Data)
}

func TestFetchPropagatesPayloadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"error":"assessments not ready"}`))
	}))
	defer server.Close()

	client := NewAssessmentClient(server.URL)
	env, err := client.FetchAssessments(context.Background(), "platform")

	require.NoError(t, err)
	assert.False(t, env.Success)
	assert.Equal(t, "assessments not ready", env.Error)
}

func TestFetchReturnsErrorOnUnreachableUpstream(t *testing.T) {
	// Closed server: the dial fails, which is a real error, not an envelope.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewRosterClient(server.URL)
	_, err := client.FetchRoster(context.Background(), "platform")

	assert.Error(t, err)
}

func TestFetchReturnsErrorOnMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewDefectClient(server.URL)
	_, err := client.FetchBacklog(context.Background(), "web")

	assert.Error(t, err)
}

func TestClientBreakerTripsAfterRepeatedErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewRosterClient(server.URL)
	for i := 0; i < 5; i++ {
		_, err := client.FetchRoster(context.Background(), "platform")
		require.Error(t, err)
	}

	// Sixth call fails fast on the open breaker.
	_, err := client.FetchRoster(context.Background(), "platform")
	assert.ErrorContains(t, err, "circuit breaker is open")
}
