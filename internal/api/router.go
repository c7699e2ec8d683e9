package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/triska-dev/person-registry/internal/auth"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.apiHeadersMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Auth endpoints (no auth required)
		r.Post("/auth/login", s.handleLogin)

		// System metrics (no auth required for basic monitoring)
		r.Get("/metrics", s.handleMetrics)

		// Person endpoints
		r.Route("/persons", func(r chi.Router) {
			r.Use(s.authMiddleware)

			// Reads: both roles
			r.Group(func(r chi.Router) {
				r.Use(s.requirePermission(auth.PermPersonRead))

				r.Get("/", s.handleListPersons)
				r.Get("/page", s.handleListPersonsPage)
				r.Get("/{id}", s.handleGetPerson)
				r.Get("/gender/{gender}", s.handleListPersonsByGender)
			})

			// Writes: admin only
			r.Group(func(r chi.Router) {
				r.Use(s.requirePermission(auth.PermPersonWrite))

				r.Post("/", s.handleCreatePerson)
				r.Patch("/{id}", s.handleUpdatePerson)
				r.Delete("/{id}", s.handleDeletePerson)
			})
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	checks := map[string]string{}

	if s.db != nil {
		if err := s.db.HealthCheck(r.Context()); err != nil {
			status = "degraded"
			checks["database"] = err.Error()
		} else {
			checks["database"] = "ok"
		}
	}
	if s.cache != nil && s.cache.Enabled() {
		if err := s.cache.HealthCheck(r.Context()); err != nil {
			status = "degraded"
			checks["cache"] = err.Error()
		} else {
			checks["cache"] = "ok"
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"version": s.version,
		"checks":  checks,
	})
}
