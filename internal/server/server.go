// Package server provides the HTTP server of airsketch: the JSON API, the
// live result websocket and the metrics endpoint.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/airsketch/internal/app"
	"github.com/ayusman/airsketch/internal/gesture"
	"github.com/ayusman/airsketch/internal/plugin"
	"github.com/ayusman/airsketch/internal/server/api"
	"github.com/ayusman/airsketch/internal/store"
	"github.com/ayusman/airsketch/pkg/metrics"
)

// EventSource publishes recognition events. *app.App satisfies it.
type EventSource interface {
	Subscribe(fn func(app.Event)) (unsubscribe func())
}

// Config holds the server configuration. Routes whose dependency is nil
// are not registered.
type Config struct {
	StaticDir string
	Store     *store.Store
	Engine    *gesture.Engine
	Plugins   *plugin.Manager
	Events    EventSource
	Metrics   *metrics.Manager
}

// Server represents the HTTP server for the airsketch application.
type Server struct {
	config  Config
	mux     *http.ServeMux
	start   time.Time
	results *ResultsHandler
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.handle("/api/health", http.HandlerFunc(s.handleHealth))

	if s.config.Engine != nil {
		patterns := api.NewPatternHandler(s.config.Engine)
		s.handle("/api/patterns", patterns)
		s.handle("/api/patterns/", patterns)
		s.handle("/api/recognize", api.NewRecognizeHandler(s.config.Engine))
	}

	if s.config.Store != nil {
		var plugins api.PluginLookup
		if s.config.Plugins != nil {
			plugins = s.config.Plugins
		}
		bindings := api.NewBindingHandler(s.config.Store, s.config.Engine, plugins)
		s.handle("/api/bindings", bindings)
		s.handle("/api/bindings/", bindings)

		history := api.NewHistoryHandler(s.config.Store)
		s.handle("/api/history", history)
		s.handle("/api/history/", history)
	}

	if s.config.Events != nil {
		s.results = NewResultsHandler(s.config.Events)
		s.mux.Handle("/api/results", s.results)
	}

	if s.config.Metrics != nil {
		s.mux.Handle("/metrics", s.config.Metrics.Handler())
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// handle registers h, counting responses per route when metrics are on.
func (s *Server) handle(pattern string, h http.Handler) {
	if s.config.Metrics != nil {
		h = instrument(s.config.Metrics, routeLabel(pattern), h)
	}
	s.mux.Handle(pattern, h)
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close disconnects websocket clients.
func (s *Server) Close() {
	if s.results != nil {
		s.results.Close()
	}
}

// Clients returns the number of connected result subscribers.
func (s *Server) Clients() int {
	if s.results == nil {
		return 0
	}
	return s.results.Clients()
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.Engine != nil {
		response["templates"] = s.config.Engine.Templates().Len()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
