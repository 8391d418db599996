// Package api provides the REST API for browsing benchmark results.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/spatialbench/spatialbench-go/internal/config"
	"github.com/spatialbench/spatialbench-go/internal/results"
	"github.com/spatialbench/spatialbench-go/pkg/auth"
)

// Server is the HTTP server for the results API.
type Server struct {
	config  *config.Config
	router  chi.Router
	handler *Handler
}

// NewServer creates a new API server. The archive may be nil when no
// MongoDB is configured; the history endpoints then return 404.
func NewServer(cfg *config.Config, archive *results.Store) *Server {
	s := &Server{config: cfg}
	s.handler = NewHandler(cfg, archive)
	s.router = s.setupRoutes()
	return s
}

// setupRoutes configures the router with all API routes.
func (s *Server) setupRoutes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.config.Server.WriteTimeout))

	r.Get("/health", s.handler.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(s.config.Server.AuthToken))
		r.Get("/results", s.handler.ListResults)
		r.Get("/results/{engine}", s.handler.GetEngineResults)
		r.Get("/summary", s.handler.GetSummary)

		r.Route("/runs", func(r chi.Router) {
			r.Get("/", s.handler.ListRuns)
			r.Get("/{id}", s.handler.GetRun)
		})
	})

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router returns the chi router for custom configuration.
func (s *Server) Router() chi.Router {
	return s.router
}
