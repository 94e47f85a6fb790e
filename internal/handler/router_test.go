package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oha-portal/internal/config"
	"oha-portal/internal/container"
	"oha-portal/pkg/logger"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := &config.Config{
		Environment:    "test",
		LogLevel:       "error",
		AllowedOrigins: []string{"http://localhost:3000"},
		RedisURL:       "redis://" + mr.Addr(),
		KeyPrefix:      "oha",
		AdminPasscode:  "6526",
		LockInPeriod:   7 * 24 * time.Hour,
	}

	c, err := container.New(cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return NewRouter(c)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// list endpoints answer with a bare array; callers decode those
	// from rec.Body themselves
	var decoded map[string]interface{}
	if raw := bytes.TrimSpace(rec.Body.Bytes()); len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded), rec.Body.String())
	}
	return rec, decoded
}

func errType(body map[string]interface{}) string {
	e, _ := body["error"].(map[string]interface{})
	s, _ := e["type"].(string)
	return s
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestProposalLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/proposal", map[string]interface{}{
		"title":       "New bike shed",
		"description": "Replace the old shed",
		"firstName":   "Anna",
		"lastName":    "Berg",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["success"])

	proposal := body["proposal"].(map[string]interface{})
	assert.Equal(t, "draft", proposal["status"])
	proposalID := proposal["id"].(string)

	rec, _ = doJSON(t, router, http.MethodGet, "/api/proposal", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, proposalID, list[0]["id"])

	rec, body = doJSON(t, router, http.MethodPut, "/api/proposal", map[string]interface{}{
		"proposalId": proposalID,
		"status":     "active",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "active", body["proposal"].(map[string]interface{})["status"])

	// backward transition is refused
	rec, body = doJSON(t, router, http.MethodPut, "/api/proposal", map[string]interface{}{
		"proposalId": proposalID,
		"status":     "draft",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_state", errType(body))
}

func TestProposalCreateValidationOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/proposal", map[string]interface{}{
		"title": "missing the rest",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", errType(body))

	req := httptest.NewRequest(http.MethodPost, "/api/proposal", bytes.NewBufferString("{not json"))
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusBadRequest, rec2.Code)
}

func TestVoteOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	_, body := doJSON(t, router, http.MethodPost, "/api/proposal", map[string]interface{}{
		"title":       "New bike shed",
		"description": "Replace the old shed",
		"firstName":   "Anna",
		"lastName":    "Berg",
	})
	proposalID := body["proposal"].(map[string]interface{})["id"].(string)

	vote := map[string]interface{}{
		"proposalId":    proposalID,
		"choice":        "yes",
		"justification": "Because reasons",
		"firstName":     "Anna",
		"lastName":      "Berg",
	}

	// voting on a draft is refused
	rec, body := doJSON(t, router, http.MethodPost, "/api/vote", vote)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_state", errType(body))

	_, _ = doJSON(t, router, http.MethodPut, "/api/proposal", map[string]interface{}{
		"proposalId": proposalID,
		"status":     "active",
	})

	rec, body = doJSON(t, router, http.MethodPost, "/api/vote", vote)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["success"])
	totals := body["totals"].(map[string]interface{})
	assert.Equal(t, float64(1), totals["yes"])

	rec, body = doJSON(t, router, http.MethodGet, "/api/vote", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	userVotes := body["userVotes"].(map[string]interface{})
	assert.Contains(t, userVotes, proposalID)

	rec, body = doJSON(t, router, http.MethodGet, "/api/votes?proposalId="+proposalID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	votes := body["votes"].([]interface{})
	require.Len(t, votes, 1)
	record := votes[0].(map[string]interface{})
	assert.Equal(t, "Anna Berg", record["userName"])

	rec, body = doJSON(t, router, http.MethodPost, "/api/vote", map[string]interface{}{
		"proposalId": "missing", "choice": "yes", "justification": "x",
		"firstName": "Anna", "lastName": "Berg",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errType(body))
}

func TestCommentOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/comment", map[string]interface{}{
		"proposalId": "prop1",
		"text":       "Looks good",
		"firstName":  "Anna",
		"lastName":   "Berg",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["persisted"])
	assert.Equal(t, "Comment posted successfully", body["message"])

	rec, _ = doJSON(t, router, http.MethodGet, "/api/comment?proposalId=prop1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var comments []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comments))
	require.Len(t, comments, 1)
	assert.Equal(t, "Looks good", comments[0]["text"])
}

func TestProposalRequestOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/proposal-request", map[string]interface{}{
		"requestText": "Please discuss the laundry room",
		"firstName":   "Anna",
		"lastName":    "Berg",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["persisted"])

	rec, _ = doJSON(t, router, http.MethodGet, "/api/proposal-request?status=pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var requests []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &requests))
	require.Len(t, requests, 1)
	assert.Equal(t, "pending", requests[0]["status"])
}

func TestMembershipApplicationOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/membership-application", map[string]interface{}{
		"name":        "Anna Berg",
		"phoneNumber": "070-1234567",
		"email":       "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", errType(body))

	rec, body = doJSON(t, router, http.MethodPost, "/api/membership-application", map[string]interface{}{
		"name":        "Anna Berg",
		"phoneNumber": "070-1234567",
		"email":       "anna@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, body["applicationId"])

	rec, body = doJSON(t, router, http.MethodGet, "/api/membership-application", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	applications := body["applications"].([]interface{})
	assert.Len(t, applications, 1)
}

func TestAdminOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/admin", map[string]interface{}{
		"action":   ActionUpdateUserRole,
		"passcode": "0000",
		"userIp":   "203.0.113.7",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authentication", errType(body))

	rec, body = doJSON(t, router, http.MethodPost, "/api/admin", map[string]interface{}{
		"action":   "dropTables",
		"passcode": "6526",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", errType(body))

	// seed a user through the comment endpoint, then mutate it
	_, _ = doJSON(t, router, http.MethodPost, "/api/comment", map[string]interface{}{
		"proposalId": "prop1", "text": "hi", "firstName": "Anna", "lastName": "Berg",
	})

	rec, body = doJSON(t, router, http.MethodPost, "/api/admin", map[string]interface{}{
		"action":   ActionUpdateUserRole,
		"passcode": "6526",
		"userIp":   "203.0.113.7",
		"role":     "Board Member",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Board Member", body["user"].(map[string]interface{})["role"])

	rec, body = doJSON(t, router, http.MethodGet, "/api/admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body["users"].(map[string]interface{}), "203.0.113.7")
}

func TestNotFoundRoute(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errType(body))
}
