// Package http exposes a running scheduler over a small JSON API.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chime-sh/chime"
	"github.com/chime-sh/chime/api"
	"github.com/chime-sh/chime/pkg/ports"
)

// Server serves task metadata, manual runs and run history for an App.
type Server struct {
	app     *chime.App
	store   ports.RunStore
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the server.
type Option func(*Server)

// WithStore enables the /tasks/{name}/history endpoint.
func WithStore(store ports.RunStore) Option {
	return func(s *Server) { s.store = store }
}

// WithMetricsHandler mounts a handler at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a server for the given app.
func NewServer(app *chime.App, opts ...Option) *Server {
	s := &Server{
		app:    app,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Get("/tasks", s.listTasks)
	r.Post("/tasks/{id}/run", s.runTask)
	r.Get("/tasks/{name}/history", s.getHistory)

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.Metadata(s.app))
}

func (s *Server) runTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	err = api.RunTask(r.Context(), s.app, id)
	switch {
	case errors.Is(err, api.ErrTaskNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case err != nil:
		s.logger.Warn("manual run failed", "task_id", id, "error", err)
		writeJSON(w, http.StatusOK, map[string]string{"status": "failed", "error": err.Error()})
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "run history is not enabled", http.StatusNotFound)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := s.store.History(r.Context(), chi.URLParam(r, "name"), limit)
	if err != nil {
		s.logger.Error("history lookup failed", "error", err)
		http.Error(w, "history lookup failed", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []ports.RunRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "chime",
		"version": strings.TrimSpace(chime.Version),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
