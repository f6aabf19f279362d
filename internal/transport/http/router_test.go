package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Vikasyadav0123/Poll-Choice/internal/config"
	"github.com/Vikasyadav0123/Poll-Choice/internal/domain"
	"github.com/Vikasyadav0123/Poll-Choice/internal/infrastructure/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

type createEnvelope struct {
	Poll          domain.Poll `json:"poll"`
	CreatorSecret string      `json:"creatorSecret"`
}

func newTestRouter(t *testing.T) (http.Handler, *memory.PollRepo) {
	t.Helper()
	cfg := &config.Config{
		AppPort:                "0",
		AppEnv:                 "test",
		DefaultDurationMinutes: 10,
		AllowedOrigins:         []string{"*"},
	}
	repo := memory.NewPollRepo()
	return NewRouter(cfg, &Deps{PollRepo: repo}), repo
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func createPoll(t *testing.T, h http.Handler, question string, options []string) createEnvelope {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/polls", map[string]interface{}{
		"question": question,
		"options":  options,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[createEnvelope](t, rec)
}

func seedExpiredPoll(t *testing.T, repo *memory.PollRepo) *domain.Poll {
	t.Helper()
	now := time.Now().UTC()
	p := &domain.Poll{
		PollID:        "expired-poll",
		Question:      "Too late?",
		Options:       []domain.Option{{Text: "a", Votes: 4}, {Text: "b", Votes: 2}},
		CreatorSecret: "expired-secret",
		CreatedAt:     now.Add(-time.Hour),
		ExpiresAt:     now.Add(-time.Minute),
	}
	require.NoError(t, repo.Put(context.Background(), p))
	return p
}

// --- tests ---

func TestCreateAndVoteFlow(t *testing.T) {
	router, _ := newTestRouter(t)

	env := createPoll(t, router, "Favorite color?", []string{"Red", "Blue"})
	assert.NotEmpty(t, env.Poll.PollID)
	assert.Len(t, env.CreatorSecret, 64)
	require.Len(t, env.Poll.Options, 2)

	pollPath := "/api/polls/" + env.Poll.PollID

	rec := doJSON(t, router, http.MethodGet, pollPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// u1 picks Red, u2 picks both
	rec = doJSON(t, router, http.MethodPost, pollPath+"/vote", map[string]interface{}{
		"voterToken": "u1", "selectedIndexes": []int{0},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, pollPath+"/vote", map[string]interface{}{
		"voterToken": "u2", "selectedIndexes": []int{0, 1},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[domain.Poll](t, rec)
	assert.Equal(t, 2, updated.Options[0].Votes)
	assert.Equal(t, 1, updated.Options[1].Votes)

	// u1 has voted, so results are visible: Red wins 67/33
	rec = doJSON(t, router, http.MethodGet, pollPath+"/results?voterToken=u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[map[string]interface{}](t, rec)
	assert.EqualValues(t, 3, res["totalVotes"])
	opts := res["options"].([]interface{})
	red := opts[0].(map[string]interface{})
	blue := opts[1].(map[string]interface{})
	assert.EqualValues(t, 67, red["percent"])
	assert.Equal(t, true, red["winner"])
	assert.EqualValues(t, 33, blue["percent"])
	assert.Equal(t, false, blue["winner"])

	// duplicate vote is rejected and counters stay put
	rec = doJSON(t, router, http.MethodPost, pollPath+"/vote", map[string]interface{}{
		"voterToken": "u1", "selectedIndexes": []int{1},
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodGet, pollPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	after := decode[domain.Poll](t, rec)
	assert.Equal(t, 2, after.Options[0].Votes)
	assert.Equal(t, 1, after.Options[1].Votes)
}

func TestCreateValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"empty question", map[string]interface{}{"question": "", "options": []string{"a", "b"}}},
		{"one option", map[string]interface{}{"question": "Q?", "options": []string{"a"}}},
		{"blank options", map[string]interface{}{"question": "Q?", "options": []string{"a", "   "}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/polls", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/polls", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("negative duration falls back to the default", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/polls", map[string]interface{}{
			"question": "Q?", "options": []string{"a", "b"}, "durationMinutes": -5,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		env := decode[createEnvelope](t, rec)
		assert.WithinDuration(t, env.Poll.CreatedAt.Add(10*time.Minute), env.Poll.ExpiresAt, 2*time.Second)
	})
}

func TestVoteErrors(t *testing.T) {
	router, repo := newTestRouter(t)
	env := createPoll(t, router, "Q?", []string{"a", "b"})
	pollPath := "/api/polls/" + env.Poll.PollID

	t.Run("unknown poll", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/polls/does-not-exist/vote", map[string]interface{}{
			"voterToken": "u1", "selectedIndexes": []int{0},
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing voter token", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, pollPath+"/vote", map[string]interface{}{
			"selectedIndexes": []int{0},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty selection", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, pollPath+"/vote", map[string]interface{}{
			"voterToken": "u1", "selectedIndexes": []int{},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("expired poll still reads but rejects votes", func(t *testing.T) {
		p := seedExpiredPoll(t, repo)

		rec := doJSON(t, router, http.MethodPost, "/api/polls/"+p.PollID+"/vote", map[string]interface{}{
			"voterToken": uuid.NewString(), "selectedIndexes": []int{0},
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = doJSON(t, router, http.MethodGet, "/api/polls/"+p.PollID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[domain.Poll](t, rec)
		assert.Equal(t, 4, got.Options[0].Votes, "final counters remain readable")
	})
}

func TestResultsVisibility(t *testing.T) {
	router, _ := newTestRouter(t)
	env := createPoll(t, router, "Q?", []string{"a", "b"})
	resultsPath := "/api/polls/" + env.Poll.PollID + "/results"

	rec := doJSON(t, router, http.MethodGet, resultsPath, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code, "open poll hides results from strangers")

	rec = doJSON(t, router, http.MethodGet, resultsPath+"?admin="+env.CreatorSecret, nil)
	assert.Equal(t, http.StatusOK, rec.Code, "creator sees results immediately")

	rec = doJSON(t, router, http.MethodPost, "/api/polls/"+env.Poll.PollID+"/vote", map[string]interface{}{
		"voterToken": "u1", "selectedIndexes": []int{0},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, resultsPath+"?voterToken=u1", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "voters see results after voting")

	rec = doJSON(t, router, http.MethodGet, "/api/polls/missing/results", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeletePoll(t *testing.T) {
	router, _ := newTestRouter(t)
	env := createPoll(t, router, "Q?", []string{"a", "b"})
	pollPath := "/api/polls/" + env.Poll.PollID

	rec := doJSON(t, router, http.MethodDelete, pollPath+"?admin=wrong", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodGet, pollPath, nil)
	assert.Equal(t, http.StatusOK, rec.Code, "poll survives a forbidden delete")

	rec = doJSON(t, router, http.MethodDelete, pollPath+"?admin="+env.CreatorSecret, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, pollPath, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "no tombstone, just gone")

	rec = doJSON(t, router, http.MethodDelete, pollPath+"?admin="+env.CreatorSecret, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatorHistory(t *testing.T) {
	router, _ := newTestRouter(t)

	first := createPoll(t, router, "First?", []string{"a", "b"})
	second := createPoll(t, router, "Second?", []string{"x", "y"})

	path := fmt.Sprintf("/api/creator/polls?secrets=%s,%s", first.CreatorSecret, second.CreatorSecret)
	rec := doJSON(t, router, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summaries := decode[[]domain.PollSummary](t, rec)
	require.Len(t, summaries, 2)
	assert.Equal(t, second.Poll.PollID, summaries[0].PollID, "newest first")
	assert.Equal(t, first.Poll.PollID, summaries[1].PollID)

	// a secret only unlocks its own poll
	rec = doJSON(t, router, http.MethodGet, "/api/creator/polls?secrets="+first.CreatorSecret, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summaries = decode[[]domain.PollSummary](t, rec)
	require.Len(t, summaries, 1)
	assert.Equal(t, first.Poll.PollID, summaries[0].PollID)

	rec = doJSON(t, router, http.MethodGet, "/api/creator/polls?secrets="+uuid.NewString(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]domain.PollSummary](t, rec))
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/health-check", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
