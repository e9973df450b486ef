package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/personalab/internal/metrics"
	"github.com/MikeSquared-Agency/personalab/internal/persona"
	"github.com/MikeSquared-Agency/personalab/internal/store"
)

type Server struct {
	router   *chi.Mux
	port     int
	http     *http.Server
	runs     store.Runs
	personas store.Personas
	builder  *persona.Builder
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewServer(port int, apiToken string, runs store.Runs, personas store.Personas, builder *persona.Builder, m *metrics.Metrics, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		runs:     runs,
		personas: personas,
		builder:  builder,
		metrics:  m,
		logger:   logger,
	}

	router.Get("/health", s.health)
	if m != nil {
		router.Handle("/metrics", m.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))

		r.Route("/runs", func(r chi.Router) {
			r.With(RequireUser).Post("/", s.createRun)
			r.Route("/{runID}", func(r chi.Router) {
				r.Get("/", s.getRun)
				r.Post("/finalize", s.finalizeRun)
				r.Group(func(r chi.Router) {
					r.Use(RequireUser)
					r.Post("/events", s.logEvents)
					r.Post("/transcript", s.appendTranscript)
					r.Post("/survey", s.addSurvey)
				})
			})
		})

		r.Route("/personas", func(r chi.Router) {
			r.With(RequireUser).Get("/", s.listPersonas)
			r.With(RequireUser).Get("/me", s.myPersona)
			r.Get("/{personaID}", s.getPersona)
		})
	})

	s.http = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}
	return s
}

func (s *Server) Start() error {
	s.logger.Info("API server starting", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		slog.Error("failed to encode response", "status", status, "error", err)
		status = http.StatusInternalServerError
		data = []byte(`{"error":"failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
