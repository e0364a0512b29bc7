package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/headingkit/internal/config"
	"github.com/dgallion1/headingkit/internal/pipeline"
)

// Server is the HTTP API server for headingkit.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          *config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg *config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		log:          log,
		cfg:          cfg,
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
	r.Use(middleware.RealIP)
	r.Use(middleware.CleanPath)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.API.APIKey, s.log))

		r.Post("/api/headings/tree", s.handleTree)
		r.Post("/api/headings/sort", s.handleSort)
		r.Post("/api/headings/cut", s.handleCut)
		r.Post("/api/headings/move", s.handleMove)
		r.Post("/api/text/strikethrough", s.handleStrikethrough)

		r.Get("/api/sort/presets", s.handlePresets)
		r.Post("/api/sort/batch", s.handleBatchSort)
		r.Get("/api/sort/batch/{jobID}", s.handleBatchStatus)
		r.Get("/api/stats/pipeline", s.handlePipelineStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
