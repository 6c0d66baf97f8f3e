// Package api provides HTTP router setup.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Mentallyspammed1/neonsearch/internal/config"
)

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(cfg *config.Config, handler *Handler) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(RateLimitMiddleware(cfg.RateLimits.RequestsPerMinute))

		r.Get("/", handler.Root)
		r.Post("/search", handler.Search)
		r.Get("/sources", handler.Sources)
		r.Post("/sources/{name}/toggle", handler.ToggleSource)
		r.Get("/suggestions", handler.Suggestions)
		r.Post("/status", handler.CreateStatusCheck)
		r.Get("/status", handler.ListStatusChecks)
	})

	return r
}
