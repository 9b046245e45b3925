// Package api exposes the document ranking service over HTTP: synchronous
// outline extraction, asynchronous persona ranking with a pollable job
// registry, and embedding latency stats.
package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/docrank/internal/config"
	"github.com/dgallion1/docrank/internal/embed"
	"github.com/dgallion1/docrank/internal/lang"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for docrank.
type Server struct {
	router     chi.Router
	provider   embed.Provider
	identifier lang.Identifier
	stats      *embed.Stats
	jobs       *JobStore
	log        *slog.Logger
	cfg        config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(provider embed.Provider, identifier lang.Identifier, stats *embed.Stats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		provider:   provider,
		identifier: identifier,
		stats:      stats,
		jobs:       NewJobStore(cfg.JobTTL),
		log:        log,
		cfg:        cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// API endpoints, authenticated when a key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/outline", s.handleOutline)
		r.Post("/api/rank", s.handleRank)
		r.Get("/api/rank/{jobID}", s.handleRankStatus)
		r.Get("/api/stats/embedding", s.handleEmbeddingStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
