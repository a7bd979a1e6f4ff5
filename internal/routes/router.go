package routes

import (
	"net/http"
	"time"

	"amonic/skydesk/internal/api"
	"amonic/skydesk/internal/logging"
	"amonic/skydesk/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes builds the portal router. gatherer backs /metrics and
// should be the registry the metrics were registered with.
func RegisterRoutes(deps *api.Dependencies, gatherer prometheus.Gatherer, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	r.Use(middleware.Logging)

	origins := deps.Config.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:" + deps.Config.Port}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "HX-Request", "HX-Target", "HX-Current-URL", "HX-Trigger"},
		ExposedHeaders:   []string{"HX-Redirect", "HX-Refresh", "HX-Retarget", "HX-Reswap"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.ThemeMiddleware)

	r.Get("/healthCheck", api.HealthCheckHandler(deps.Checks, upSince))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	RegisterUIRoutes(r, deps, upSince)

	logging.Info("Router initialized", "journal", deps.Repo.JournalQuery != nil, "cors_origins", origins)
	return r
}
