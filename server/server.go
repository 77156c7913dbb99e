// Package server exposes the import pipeline over a JSON REST API: triggering imports,
// reading back import history and inspecting the task queue.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/feedimport/pkg/domain"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/importer.go -pkg mocks -skip-ensure -fmt goimports . Importer
//go:generate moq -out mocks/history.go -pkg mocks -skip-ensure -fmt goimports . History
//go:generate moq -out mocks/queue.go -pkg mocks -skip-ensure -fmt goimports . Queue

// Server represents HTTP server instance
type Server struct {
	config   ConfigProvider
	importer Importer
	history  History
	queue    Queue
	version  string
	debug    bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Importer creates import attempts and queues them
type Importer interface {
	Enqueue(ctx context.Context, feedURL, category string) (string, error)
	EnqueueAll(ctx context.Context) ([]domain.EnqueueResult, error)
}

// History reads back import attempts
type History interface {
	ListImportLogs(ctx context.Context, page, limit int) (*domain.HistoryPage, error)
	GetImportLog(ctx context.Context, importID string) (*domain.ImportLog, error)
	ImportStats(ctx context.Context) (domain.ImportStats, error)
}

// Queue reports broker state
type Queue interface {
	Stats(ctx context.Context) (domain.QueueStats, error)
	Failed(ctx context.Context, limit int) ([]domain.Task, error)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// New initializes a new server instance
func New(cfg ConfigProvider, importer Importer, history History, queue Queue, version string, debug bool) *Server {
	s := &Server{
		config:   cfg,
		importer: importer,
		history:  history,
		queue:    queue,
		version:  version,
		debug:    debug,
		router:   routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	lgr.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("feedimport", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024))
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("POST /import", s.importHandler)
		r.HandleFunc("POST /import-all", s.importAllHandler)
		r.HandleFunc("GET /history", s.historyHandler)
		r.HandleFunc("GET /history/{id}", s.importLogHandler)
		r.HandleFunc("GET /queue", s.queueHandler)
	})
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
