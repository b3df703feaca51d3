// Package httpapi exposes the JSON HTTP surface: auth endpoints, the
// protected profile/problems/concepts routes, and the health check. It is the
// only layer that maps error kinds to HTTP statuses.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/codequest-dev/codequest/internal/logging"
	"github.com/codequest-dev/codequest/internal/server/services"
)

type Server struct {
	address string
	db      *sql.DB
	users   *services.UserService
	quests  *services.QuestService
	profile *services.ProfileService
	logger  logging.Logger
}

func NewServer(address string, db *sql.DB, us *services.UserService, qs *services.QuestService, ps *services.ProfileService, l logging.Logger) *Server {
	return &Server{
		address: address,
		db:      db,
		users:   us,
		quests:  qs,
		profile: ps,
		logger:  l.With("module", "http_server"),
	}
}

// Router builds the full route tree. Split out from Run so tests can mount it
// on httptest servers.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Post("/signup", s.handleSignup)
	r.Post("/login", s.handleLogin)
	r.Get("/healthz", s.handleHealthz)

	r.Group(func(r chi.Router) {
		r.Use(s.requireUser)

		r.Get("/profile", s.handleGetProfile)
		r.Post("/profile/avatar", s.handleAvatarUpload)
		r.Get("/concepts", s.handleListConcepts)
		r.Post("/concepts/explain", s.handleExplainConcept)
		r.Post("/problems/generate", s.handleGenerateProblems)
		r.Post("/problems/evaluate", s.handleEvaluateSolution)
		r.Post("/problems/run", s.handleRunTests)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error(r.Context(), "health check db ping failed", "error", err.Error())
		writeDetail(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
