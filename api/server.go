/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the dashboard frontend
  5. obs:        Prometheus request counting

ROUTE GROUPS:
  /api/datasets/*   Dataset uploads and retrieval
  /api/overview/*   Resolved business/marketing KPIs
  /api/metrics/*    Raw calculator output per category
  /api/funnel       Bucketed funnel table (or uploaded override)
  /api/config/*     Configuration document, export/import
  /api/state        Period selector and preferences
  /metrics          Prometheus exposition

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/solarcalor/reporting-engine/obs"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(obs.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Dataset uploads
		r.Route("/datasets", func(r chi.Router) {
			r.Get("/", h.ListDatasets)
			r.Post("/{category}", h.UploadDataset)
			r.Get("/{category}", h.GetDataset)
		})

		// Resolved overview KPIs
		r.Route("/overview", func(r chi.Router) {
			r.Get("/marketing", h.GetMarketingOverview)
			r.Get("/business", h.GetBusinessOverview)
		})

		// Calculator output
		r.Route("/metrics", func(r chi.Router) {
			r.Get("/paid", h.GetPaidMetrics)
			r.Get("/lp", h.GetLandingMetrics)
			r.Get("/web", h.GetWebMetrics)
			r.Get("/crm", h.GetCRMMetrics)
		})

		// Tabular views
		r.Get("/funnel", h.GetFunnel)
		r.Get("/trend/paid", h.GetPaidTrend)
		r.Get("/sources", h.GetSources)

		// Configuration document
		r.Route("/config", func(r chi.Router) {
			r.Get("/", h.GetConfig)
			r.Put("/", h.PutConfig)
			r.Get("/export", h.ExportConfig)
			r.Post("/import", h.ImportConfig)
		})

		// Selector and preferences
		r.Get("/state", h.GetState)
		r.Put("/state", h.PutState)
	})

	// Prometheus exposition
	r.Handle("/metrics", obs.Handler())

	// Liveness/readiness
	r.Get("/healthz", h.Healthz)

	return r
}
