// Package httpapi exposes the engine over a loopback HTTP API so an external
// renderer (or curl, during development) can read view snapshots and submit
// intents. The engine packages never import it; it is strictly an adapter.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kamogawa/shibahunt/internal/game"
)

// Server serves the engine state on loopback.
type Server struct {
	app        *game.App
	log        *slog.Logger
	addr       string
	httpServer *http.Server
}

// New creates a server bound to 127.0.0.1 at the given port.
func New(app *game.App, port int, logger *slog.Logger) *Server {
	if port <= 0 {
		port = 8123
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		app:  app,
		log:  logger,
		addr: fmt.Sprintf("127.0.0.1:%d", port),
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string { return s.addr }

// Start begins listening in a goroutine. It returns when the socket is bound.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.addr, err)
	}
	go func() {
		_ = s.httpServer.Serve(ln)
	}()
	s.log.Info("engine api listening", "addr", s.addr)
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Get("/state", s.handleState)

	r.Route("/intent", func(r chi.Router) {
		r.Post("/select-level", s.handleSelectLevel)
		r.Post("/start", s.intent(func() { s.app.StartGame() }))
		r.Post("/click-entity", s.handleClickEntity)
		r.Post("/click-background", s.handleClickBackground)
		r.Post("/advance", s.intent(func() { s.app.AdvanceLevel() }))
		r.Post("/home", s.intent(func() { s.app.GoHome() }))
		r.Post("/level-select", s.intent(func() { s.app.OpenLevelSelect() }))
		r.Post("/open-catalog", s.intent(func() { s.app.OpenCatalog() }))
		r.Post("/dismiss-card", s.intent(func() { s.app.DismissCard() }))
		r.Post("/reset-progress", s.intent(func() { s.app.ResetProgress() }))
	})

	return r
}

// stateResponse wraps the view snapshot with the diagnostics surface.
type stateResponse struct {
	View         game.View `json:"view"`
	PersistError string    `json:"persistError,omitempty"`
}

func (s *Server) state() stateResponse {
	resp := stateResponse{View: s.app.View()}
	if err := s.app.PersistErr(); err != nil {
		resp.PersistError = err.Error()
	}
	return resp
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"screen": s.app.Screen(),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state())
}

// intent wraps a body-less intent handler: run it, return the fresh state.
func (s *Server) intent(run func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run()
		writeJSON(w, http.StatusOK, s.state())
	}
}

func (s *Server) handleSelectLevel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Level int `json:"level"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.app.SelectLevel(body.Level)
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleClickEntity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.app.ClickEntity(body.ID)
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleClickBackground(w http.ResponseWriter, r *http.Request) {
	var body struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.app.ClickBackground(body.X, body.Y)
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   "VALIDATION_ERROR",
			"message": "invalid JSON body",
		})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
