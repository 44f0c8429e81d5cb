package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/errors"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/health"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/httputil"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/middleware"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/service"
)

const serviceName = "dashboard"

// RouterConfig carries everything the router mounts.
type RouterConfig struct {
	Service     *service.DashboardService
	Health      *health.Handler
	Validator   middleware.TokenValidator
	CORS        middleware.CORSConfig
	RateLimiter *middleware.RateLimiter
	Registerer  prometheus.Registerer
	Gatherer    prometheus.Gatherer
	PprofCIDRs  []string
	Logger      *slog.Logger
}

// NewRouter creates a chi router with all dashboard service routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.NewHTTPMetrics(cfg.Registerer, serviceName).Handler)
	r.Use(middleware.Tracing(serviceName))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, r, apperrors.NotFound("route", r.URL.Path), cfg.Logger)
	})

	// Operational endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	middleware.RegisterPprof(r, cfg.PprofCIDRs, cfg.Logger)

	dashboardHandler := NewDashboardHandler(cfg.Service, cfg.Logger)

	r.Route("/api/v1/dashboard", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Validator))
		r.Use(middleware.RequestLogger(cfg.Logger))
		r.Use(middleware.CacheControl("private, no-store"))

		r.Get("/", dashboardHandler.GetSummary)
		r.With(cfg.RateLimiter.Handler).Get("/search", dashboardHandler.Search)
	})

	return r
}
