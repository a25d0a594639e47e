package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/repcoach/internal/exercise"
	"github.com/claude/repcoach/internal/session"
	"github.com/claude/repcoach/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       *storage.DB
	sessions *session.Manager
	registry *exercise.Registry
	log      *slog.Logger
	apiKey   string
	ts       WhoIsClient
	router   chi.Router
}

// New creates a new Server with all routes configured. db may be nil when
// running without persistence (replay tooling, tests).
func New(db *storage.DB, sessions *session.Manager, registry *exercise.Registry, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:       db,
		sessions: sessions,
		registry: registry,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale wires the tsnet local client used to resolve caller identity.
func (s *Server) SetTailscale(ts WhoIsClient) {
	s.ts = ts
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Live session endpoints (API key required): the per-frame update
	// surface and session lifecycle.
	s.router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/", s.handleCreateSession)
		r.Get("/", s.handleListSessions)
		r.Get("/{id}", s.handleGetSession)
		r.Post("/{id}/frames", s.handleFrame)
		r.Post("/{id}/reset", s.handleResetSession)
		r.Delete("/{id}", s.handleEndSession)
	})

	// Read-only endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/exercises", s.handleListExercises)
	s.router.Get("/api/v1/exercises/{name}", s.handleGetExercise)
	s.router.Get("/api/v1/history", s.handleHistory)
	s.router.Get("/api/v1/history/{id}/reps", s.handleRepEvents)
	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/me", s.handleMe)
	s.router.Get("/healthz", s.handleHealthz)
}
