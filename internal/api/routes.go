package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ignite/newsletter/internal/pkg/metrics"
)

// SetupRoutes configures all routes. Health, Frontend and Metrics in deps
// are optional, as is httpMet.
func SetupRoutes(h *Handlers, deps Dependencies, httpMet *metrics.HTTPMetrics, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()
	health, front := deps.Health, deps.Frontend

	// Middleware
	if httpMet != nil {
		r.Use(httpMet.Middleware)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLogger())
	r.Use(middleware.Recoverer)

	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if health != nil {
		r.Get("/health", health.HandleHealth)
		r.Get("/health/live", health.HandleLiveness)
		r.Get("/health/ready", health.HandleReadiness)
	}
	if deps.Metrics != nil {
		r.Handle("/metrics", metrics.Handler(deps.Metrics))
	}

	// Newsletter API. "/newsletter" and "/newsletter/" both reach "/".
	r.Route("/newsletter", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			r.Post("/", h.AddSubscriber)
			r.Delete("/", h.RemoveSubscriber)
		})
		r.Get("/{admin_token}", h.ListSubscribers)
		r.Get("/{admin_token}/{email}", h.GetSubscriber)
		r.Post("/{admin_token}/export", h.ExportSubscribers)
	})

	if front != nil {
		r.Get("/", front.Index)
		r.Get("/logo", front.Logo)
		r.Get("/static/*", front.Static)
		r.NotFound(front.NotFound)
	} else {
		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		})
	}

	return r
}
