package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopfront/catalog/internal/service"
	"github.com/shopfront/catalog/pkg/health"
	"github.com/shopfront/catalog/pkg/middleware"
)

// NewRouter creates a chi router with all catalog routes registered.
// The storefront handler is optional; when nil only the JSON API is served.
func NewRouter(
	catalogService *service.CatalogService,
	healthHandler *health.Handler,
	storefront http.Handler,
	corsCfg middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware. RequestLogger goes last so the request-scoped
	// logger picks up the correlation id and trace context.
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("catalog-service"))
	r.Use(middleware.Tracing("catalog-service"))
	r.Use(middleware.RequestLogger(logger))

	// Health and operational endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	// Product API endpoints
	productHandler := NewProductHandler(catalogService, logger)

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Static segments must be registered before the {id} wildcard.
		r.Get("/cheapest", productHandler.CheapestProducts)
		r.Get("/cheapest-available", productHandler.CheapestAvailable)
		r.Get("/stats", productHandler.Stats)
		r.Post("/seed", productHandler.SeedCatalog)

		r.Get("/", productHandler.ListProducts)
		r.Post("/", productHandler.CreateProduct)
		r.Get("/{id}", productHandler.GetProduct)
		r.Put("/{id}", productHandler.UpdateProduct)
		r.Delete("/{id}", productHandler.DeleteProduct)
	})

	// Server-rendered storefront
	if storefront != nil {
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(60))
			r.Mount("/", storefront)
		})
	}

	return r
}

// ContentTypeJSON sets the response content type for API routes.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
