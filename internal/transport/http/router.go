package http

import (
	"net/http"

	pollapp "github.com/Vikasyadav0123/Poll-Choice/internal/application/poll"
	voteapp "github.com/Vikasyadav0123/Poll-Choice/internal/application/vote"
	"github.com/Vikasyadav0123/Poll-Choice/internal/config"
	"github.com/Vikasyadav0123/Poll-Choice/internal/transport/http/handler"
	appmiddleware "github.com/Vikasyadav0123/Poll-Choice/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to the write endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	pollSvc := pollapp.NewService(deps.PollRepo, cfg.DefaultDurationMinutes)
	voteSvc := voteapp.NewService(deps.PollRepo)

	healthH := handler.NewHealthHandler()
	pollH := handler.NewPollHandler(pollSvc, voteSvc)
	creatorH := handler.NewCreatorHandler(pollSvc)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health-check", healthH.Ping)

		r.With(sensitiveRL.Limit).Post("/polls", pollH.Create)
		r.Get("/polls/{id}", pollH.Get)
		r.With(sensitiveRL.Limit).Post("/polls/{id}/vote", pollH.Vote)
		r.Get("/polls/{id}/results", pollH.Results)
		r.Delete("/polls/{id}", pollH.Delete)

		r.Get("/creator/polls", creatorH.List)
	})

	return r
}
