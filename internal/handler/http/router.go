package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

// RouterConfig carries the router's operational knobs.
type RouterConfig struct {
	Environment    string
	AllowedOrigins []string
	RateLimitRPS   int
	RateLimitBurst int
	PprofCIDRs     []string
}

// NewRouter creates a chi router with the full storefront surface registered.
func NewRouter(
	cart *CartHandler,
	auth *AuthHandler,
	catalog *CatalogHandler,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		Environment:      cfg.Environment,
	}))
	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
	}

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cart.Get)
			r.Post("/add", cart.AddLine)
			r.Post("/update", cart.UpdateLine)
			r.Post("/remove", cart.RemoveLine)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", auth.Login)
			r.Post("/register", auth.Register)
			r.Post("/logout", auth.Logout)
			r.Post("/resend-activation", auth.ResendActivation)
			r.Get("/me", auth.Me)
		})

		r.Get("/search", catalog.Search)

		// Catalog reads are safe to cache briefly at the edge.
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(60))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", catalog.ListProducts)
				r.Get("/featured", catalog.Featured)
				r.Get("/{handle}", catalog.GetProduct)
				r.Get("/{handle}/recommendations", catalog.Recommendations)
			})

			r.Route("/collections", func(r chi.Router) {
				r.Get("/", catalog.ListCollections)
				r.Get("/{handle}", catalog.GetCollection)
			})
		})
	})

	return r
}
