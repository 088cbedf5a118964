// Package server provides the web UI and HTTP API for resumatch.
package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/hyperjump/resumatch/internal/config"
	"github.com/hyperjump/resumatch/internal/embedding"
	"github.com/hyperjump/resumatch/internal/extract"
	"github.com/hyperjump/resumatch/internal/keyword"
	"github.com/hyperjump/resumatch/internal/match"
	"github.com/hyperjump/resumatch/internal/render"
	"github.com/hyperjump/resumatch/internal/session"
)

// Deps are the components the server wires into handlers.
type Deps struct {
	Service   *match.Service
	Store     session.Store
	Scorer    *match.Scorer
	Coverage  *keyword.Matcher
	Extractor *extract.Extractor
	Renderer  *render.Renderer
	Embedder  embedding.Embedder
}

// Server is the HTTP server for the resumatch UI and API.
type Server struct {
	deps     Deps
	config   *config.Config
	logger   *zap.Logger
	page     *template.Template
	markdown goldmark.Markdown
	server   *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(deps Deps, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Extractor == nil {
		deps.Extractor = extract.NewExtractor()
	}
	page, err := parsePage()
	if err != nil {
		return nil, err
	}
	return &Server{
		deps:     deps,
		config:   cfg,
		logger:   logger,
		page:     page,
		markdown: goldmark.New(),
	}, nil
}

// Router returns the HTTP handler with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if s.config.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.config.Server.RequestTimeout))
	}
	r.Use(middleware.Compress(5))

	r.Get("/", s.handleIndex)
	r.Post("/inputs", s.handleInputs)
	r.Post("/analyze", s.handleAnalyze)
	r.Post("/generate", s.handleGenerate)
	r.Post("/retry", s.handleRetry)
	r.Post("/reset", s.handleReset)
	r.Get("/download", s.handleDownload)
	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/match", s.handleAPIMatch)
		r.Post("/render", s.handleAPIRender)
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
