// Package server provides the HTTP server for the SignSpeak translator.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/signspeak/internal/metrics"
	"github.com/ayusman/signspeak/internal/server/api"
	"github.com/ayusman/signspeak/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Engine    api.Engine
	// Frames supplies the annotated preview for /api/stream.
	Frames  FrameSource
	Metrics *metrics.Metrics
}

// Server represents the HTTP server for the SignSpeak application.
type Server struct {
	config Config
	router *mux.Router
	live   *LiveHandler
	start  time.Time
	log    *logrus.Entry
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		router: mux.NewRouter(),
		live:   NewLiveHandler(config.Metrics),
		start:  time.Now(),
		log:    logrus.WithField("component", "server"),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	r := s.router
	r.MethodNotAllowedHandler = http.HandlerFunc(api.MethodNotAllowed)
	r.NotFoundHandler = http.HandlerFunc(api.NotFound)

	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/api/live", s.live).Methods(http.MethodGet)

	if e := s.config.Engine; e != nil {
		transcript := api.NewTranscriptHandler(e)
		r.HandleFunc("/api/transcript", transcript.Get).Methods(http.MethodGet)
		r.HandleFunc("/api/transcript", transcript.Clear).Methods(http.MethodDelete)
		r.HandleFunc("/api/transcript/speak", transcript.Speak).Methods(http.MethodPost)
		r.HandleFunc("/api/detection", transcript.GetDetection).Methods(http.MethodGet)
		r.HandleFunc("/api/detection", transcript.SetDetection).Methods(http.MethodPut)

		frames := api.NewFramesHandler(e)
		r.HandleFunc("/api/frames", frames.Create).Methods(http.MethodPost)
	}

	if s.config.Store != nil {
		sessions := api.NewSessionsHandler(s.config.Store, s.config.Engine)
		r.HandleFunc("/api/sessions", sessions.List).Methods(http.MethodGet)
		r.HandleFunc("/api/sessions/{id}", sessions.Delete).Methods(http.MethodDelete)
		r.HandleFunc("/api/sessions/{id}/tokens", sessions.Tokens).Methods(http.MethodGet)
		r.HandleFunc("/api/sessions/{id}/tokens", sessions.DeleteTokens).Methods(http.MethodDelete)
	}

	if s.config.Frames != nil {
		r.Handle("/api/stream", NewStreamHandler(s.config.Frames)).Methods(http.MethodGet)
	}

	if s.config.Metrics != nil {
		r.Handle("/metrics", s.config.Metrics.Handler()).Methods(http.MethodGet)
	}

	// Serve static files if StaticDir is configured. API paths are excluded so
	// that a wrong method on them still reports 405.
	if s.config.StaticDir != "" {
		r.PathPrefix("/").
			MatcherFunc(func(req *http.Request, _ *mux.RouteMatch) bool {
				return !strings.HasPrefix(req.URL.Path, "/api/")
			}).
			Handler(http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Live returns the live feed; every published frame result is sent to its
// connected clients.
func (s *Server) Live() *LiveHandler {
	return s.live
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "ok",
		"uptime":  time.Since(s.start).String(),
		"clients": s.live.Clients(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.live.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
