// Package web serves the landing page, the enrollment wizard and its JSON API.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "student-enrollment/internal/common/errors"
	"student-enrollment/internal/common/logger"
	"student-enrollment/internal/enrollment"
	"student-enrollment/internal/store"
)

const readyTimeout = 2 * time.Second

type Server struct {
	service  *enrollment.Service
	loader   *enrollment.ReferenceLoader
	sessions *Registry
	pinger   store.Pinger
	pages    *renderer
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

// NewServer wires the handlers. pinger may be nil when the store has no
// liveness check.
func NewServer(service *enrollment.Service, loader *enrollment.ReferenceLoader, sessions *Registry, pinger store.Pinger, log logger.Logger) (*Server, error) {
	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}

	log = log.WithFields(map[string]interface{}{"component": "web"})
	return &Server{
		service:  service,
		loader:   loader,
		sessions: sessions,
		pinger:   pinger,
		pages:    pages,
		errors:   apperrors.NewErrorHandler(log),
		logger:   log,
	}, nil
}

// Routes returns the root handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleLanding)
	r.Route("/enroll", func(r chi.Router) {
		r.Get("/", s.handleEnrollPage)
		r.Post("/verify", s.handleVerify)
		r.Post("/details", s.handleDetails)
		r.Post("/modal/dismiss", s.handleDismissModal)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/colleges", s.handleListColleges)
		r.Post("/enrollments/verify", s.handleAPIVerify)
		r.Post("/enrollments", s.handleAPIEnroll)
	})

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.pinger == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		s.logger.Warn("readiness check failed", map[string]interface{}{"error": err.Error()})
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
