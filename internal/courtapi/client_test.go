package courtapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openveritas/cybercourt/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL, 0, srv.Client())
	require.NoError(t, err)
	return client
}

func TestFlagPost_SendsBodyAndDecodesResponse(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/flag_post", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "you are worthless", body["postContent"])
		assert.Equal(t, "alice", body["victimInfo"])
		assert.Equal(t, "user-1", body["userId"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "success",
			"message": "Initial analysis complete. Violation detected. Ready for courtroom session.",
			"case_id": "c1",
			"case_details": map[string]any{
				"id":     "c1",
				"status": "Under Review",
			},
		})
	})

	resp, err := client.FlagPost(context.Background(), FlagPostRequest{
		PostContent: "you are worthless",
		VictimInfo:  "alice",
		UserID:      "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "c1", resp.CaseID)
	assert.True(t, resp.ViolationDetected())
}

func TestFlagPost_NoViolation(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "success",
			"message": "No violation detected. Case closed.",
			"case_id": "c2",
			"case_details": map[string]any{
				"id":     "c2",
				"status": model.CaseStatusClosed,
			},
		})
	})

	resp, err := client.FlagPost(context.Background(), FlagPostRequest{PostContent: "hi", VictimInfo: "bob", UserID: "u"})
	require.NoError(t, err)
	assert.False(t, resp.ViolationDetected())
}

func TestNon2xx_SurfacesDetailVerbatim(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"detail": "Courtroom session for case_id c1 is already active.",
		})
	})

	_, err := client.StartSession(context.Background(), "c1")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Courtroom session for case_id c1 is already active.", apiErr.Error())
}

func TestUpdates_DecodesSnapshot(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "c1", r.URL.Query().Get("case_id"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"case_id":            "c1",
			"court_status":       "QUERY_ROUNDS",
			"current_turn_agent": "Defense Lawyer",
			"transcript": []map[string]any{
				{"agent_name": "Court", "message": "Phase 2: Query Rounds", "type": "system", "timestamp": 1700000000.5},
				{"agent_name": "Prosecution Lawyer", "message": "Why was this posted?", "type": "query", "timestamp": 1700000002.0},
			},
			"agents_status": map[string]string{"Defense Lawyer": "Acting"},
		})
	})

	snapshot, err := client.Updates(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, model.CourtStatus("QUERY_ROUNDS"), snapshot.CourtStatus)
	assert.Equal(t, "Defense Lawyer", snapshot.CurrentTurnAgent)
	require.Len(t, snapshot.Transcript, 2)
	assert.Equal(t, model.KindQuery, snapshot.Transcript[1].Kind)
	assert.Equal(t, "Acting", snapshot.AgentStatus("Defense Lawyer"))
	assert.Equal(t, "Waiting", snapshot.AgentStatus("Court Judge"))
}

func TestUpdates_RejectsVerdictWithoutCompletedStatus(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"case_id":      "c1",
			"court_status": "VOTING",
			"final_verdict": map[string]any{
				"verdict_type": "Guilty",
			},
		})
	})

	_, err := client.Updates(context.Background(), "c1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "final_verdict")
}

func TestUpdates_RejectsSnapshotMissingStatus(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"case_id": "c1"})
	})

	_, err := client.Updates(context.Background(), "c1")
	require.Error(t, err)
}

func TestDecodeSnapshot_OpaqueInProgressStatus(t *testing.T) {
	t.Parallel()

	// Unknown phases are valid in-progress labels, never errors.
	raw := []byte(`{"case_id":"c1","court_status":"CROSS_EXAMINATION"}`)
	snapshot, err := DecodeSnapshot(raw)
	require.NoError(t, err)
	assert.False(t, snapshot.CourtStatus.Terminal())
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient("   ", 0, nil)
	require.Error(t, err)
}
