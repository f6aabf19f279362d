package handler

import (
	"net/http"
	"strings"

	"github.com/Vikasyadav0123/Poll-Choice/internal/application/poll"
)

// CreatorHandler serves the capability-based history lookup: whoever holds a
// secret has creator rights over that one poll, nothing more.
type CreatorHandler struct {
	polls poll.Service
}

func NewCreatorHandler(polls poll.Service) *CreatorHandler {
	return &CreatorHandler{polls: polls}
}

// List returns summaries for every poll whose creator secret appears in the
// comma-separated `secrets` query parameter, newest first. Unknown secrets
// match nothing and are not an error.
func (h *CreatorHandler) List(w http.ResponseWriter, r *http.Request) {
	var secrets []string
	for _, s := range strings.Split(r.URL.Query().Get("secrets"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			secrets = append(secrets, s)
		}
	}
	summaries, err := h.polls.History(r.Context(), secrets)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}
