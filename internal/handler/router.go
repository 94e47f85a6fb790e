package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"oha-portal/internal/container"
	"oha-portal/internal/middleware"
)

// NewRouter wires the portal's HTTP surface onto a chi router.
func NewRouter(c *container.Container) *chi.Mux {
	log := c.Logger

	corsConfig := &middleware.CORSConfig{
		AllowedOrigins:   c.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}

	r := chi.NewRouter()
	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	healthHandler := NewHealthHandler(c.Store, log)
	proposalHandler := NewProposalHandler(c.Proposals, log)
	voteHandler := NewVoteHandler(c.Votes, log)
	commentHandler := NewCommentHandler(c.Comments, log)
	requestHandler := NewRequestHandler(c.Requests, log)
	applicationHandler := NewApplicationHandler(c.Applications, log)
	adminHandler := NewAdminHandler(c.Admin, log)

	r.Get("/health", healthHandler.Check)

	r.Route("/api", func(r chi.Router) {
		r.Route("/proposal", func(r chi.Router) {
			r.Get("/", proposalHandler.List)
			r.Post("/", proposalHandler.Create)
			r.Put("/", proposalHandler.UpdateStatus)
		})

		r.Route("/vote", func(r chi.Router) {
			r.Get("/", voteHandler.UserVotes)
			r.Post("/", voteHandler.Cast)
		})
		r.Get("/votes", voteHandler.List)

		r.Route("/comment", func(r chi.Router) {
			r.Get("/", commentHandler.List)
			r.Post("/", commentHandler.Create)
		})

		r.Route("/proposal-request", func(r chi.Router) {
			r.Get("/", requestHandler.List)
			r.Post("/", requestHandler.Create)
		})

		r.Route("/membership-application", func(r chi.Router) {
			r.Get("/", applicationHandler.List)
			r.Post("/", applicationHandler.Create)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/", adminHandler.Snapshot)
			r.Post("/", adminHandler.Action)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"type":"not_found","message":"Endpoint not found"}}`))
	})

	log.Info("Router configured successfully")
	return r
}
