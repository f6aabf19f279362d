package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Vikasyadav0123/Poll-Choice/internal/application/poll"
	"github.com/Vikasyadav0123/Poll-Choice/internal/application/results"
	"github.com/Vikasyadav0123/Poll-Choice/internal/application/vote"
	"github.com/Vikasyadav0123/Poll-Choice/internal/domain"
	"github.com/go-chi/chi/v5"
)

// PollHandler handles poll lifecycle and vote endpoints.
type PollHandler struct {
	polls poll.Service
	votes vote.Service
}

func NewPollHandler(polls poll.Service, votes vote.Service) *PollHandler {
	return &PollHandler{polls: polls, votes: votes}
}

func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, secret, err := h.polls.Create(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatePollEnvelope{Poll: p, CreatorSecret: secret})
}

func (h *PollHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.polls.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req domain.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := h.votes.Submit(r.Context(), chi.URLParam(r, "id"), req.VoterToken, req.SelectedIndexes)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Results enforces the visibility rule: creator, expired, or already voted.
// The voter token and admin secret both arrive as query parameters since this
// is a read.
func (h *PollHandler) Results(w http.ResponseWriter, r *http.Request) {
	p, err := h.polls.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	voterToken := r.URL.Query().Get("voterToken")
	secret := r.URL.Query().Get("admin")
	if !h.polls.CanSeeResults(p, voterToken, secret) {
		writeError(w, http.StatusForbidden, "results not visible yet")
		return
	}
	writeJSON(w, http.StatusOK, results.Compute(p, time.Now().UTC()))
}

func (h *PollHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.polls.Delete(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("admin")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "poll deleted"})
}
