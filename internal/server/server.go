// Package server exposes the check-and-run pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/mmkal/workert/internal/playground"
)

// Server is the HTTP front for the playground pipeline. It keeps no state
// across requests; every request owns its own check result and sandbox.
type Server struct {
	play   *playground.Playground
	router chi.Router
	log    *zap.Logger
	http   *http.Server
}

// New creates a new Server around a playground pipeline.
func New(play *playground.Playground, log *zap.Logger) *Server {
	s := &Server{
		play:   play,
		router: chi.NewRouter(),
		log:    log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/", s.handleRun)
	r.Get("/", s.handleGet)
	r.Get("/ws", s.handleWebSocket)
	r.Options("/*", s.handleOptions)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
}

// Handler wraps the router with permissive cross-origin headers; the
// playground is meant to be called from anywhere.
func (s *Server) Handler() http.Handler {
	return cors.AllowAll().Handler(s.router)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Start begins listening on the given port.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.http = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	s.log.Info("workert server starting", zap.String("addr", addr))
	return s.http.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return s.http.Shutdown(shutdownCtx)
}
