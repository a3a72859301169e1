// Package web provides the HTTP JSON API for the import service. The
// browser frontend drives imports through it; all parsing and
// reconciliation logic lives in the importer package.
package web

import (
	"context"
	"net/http"

	"github.com/garrymalacolmjevons/butters-hr-import/internal/config"
	"github.com/garrymalacolmjevons/butters-hr-import/internal/importer"
	"github.com/garrymalacolmjevons/butters-hr-import/internal/store"
	wmw "github.com/garrymalacolmjevons/butters-hr-import/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

// Store is the persistence surface the handlers need. Satisfied by
// *store.Store; faked in tests.
type Store interface {
	Snapshot(ctx context.Context, importType string) (map[string]importer.Record, error)
	Apply(ctx context.Context, importType, fileName string, result *importer.ImportResult, summary importer.ReconciliationSummary) (store.RunRecord, error)
	Run(ctx context.Context, id uuid.UUID) (store.RunRecord, error)
	Runs(ctx context.Context, importType string, limit int) ([]store.RunRecord, error)
}

// Server is the HTTP server for the import API.
type Server struct {
	store  Store
	cfg    *config.Config
	router *chi.Mux
	server *http.Server
}

// NewServer creates a Server with middleware and routes configured.
func NewServer(st Store, cfg *config.Config) *Server {
	s := &Server{
		store:  st,
		cfg:    cfg,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(wmw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/imports", s.handleListImports)
		r.Get("/template/{importType}", s.handleTemplate)

		r.Post("/import/{importType}", s.handleImport)
		r.Post("/import/{importType}/preview", s.handlePreview)

		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{runID}", s.handleGetRun)
	})
}

// Handler exposes the router, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening. Blocks until the server stops.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
