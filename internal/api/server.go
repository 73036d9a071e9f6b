// Package api is the HTTP surface of goclippings: compile a clippings
// document from a list of URLs, download it or have it emailed.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/hyperifyio/goclippings/internal/app"
)

// Server routes HTTP requests onto the app layer.
type Server struct {
	router chi.Router
	app    *app.App
	log    zerolog.Logger
}

// NewServer creates and configures the HTTP server.
func NewServer(a *app.App, log zerolog.Logger) *Server {
	s := &Server{app: a, log: log}
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
	r.Use(requestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Post("/api/clippings", s.handleCompile)
	r.Post("/api/clippings/email", s.handleEmail)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
