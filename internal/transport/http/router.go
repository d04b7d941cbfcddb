package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	certhandler "accredit/internal/certification/handler"
	"accredit/internal/platform/metrics"
	"accredit/pkg/platform/httputil"
	"accredit/pkg/platform/middleware/admin"
	"accredit/pkg/platform/middleware/auth"
	"accredit/pkg/platform/middleware/request"
	"accredit/pkg/platform/middleware/requesttime"
)

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Deps is everything the router needs to mount the API.
type Deps struct {
	Certification *certhandler.Handler
	Validator     auth.JWTValidator
	AdminToken    string
	Logger        *slog.Logger
	Metrics       *metrics.HTTP
	Gatherer      prometheus.Gatherer
	Health        map[string]HealthCheck
	// PublicLimit wraps the unauthenticated certification routes when set.
	PublicLimit func(http.Handler) http.Handler
}

// NewRouter wires every endpoint behind the shared middleware stack. Staff
// routes are only mounted when an admin token is configured.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(request.RequestID)
	r.Use(request.Recovery(d.Logger))
	r.Use(request.Logger(d.Logger))
	r.Use(requesttime.Middleware)
	r.Use(d.Metrics.Middleware)

	r.Get("/healthz", healthHandler(d.Health, d.Logger))
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if d.PublicLimit != nil {
			r.Use(d.PublicLimit)
		}
		d.Certification.RegisterPublic(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(d.Validator, d.Logger))
		d.Certification.RegisterSubject(r)
	})

	if d.AdminToken != "" {
		r.Group(func(r chi.Router) {
			r.Use(admin.RequireAdminToken(d.AdminToken, d.Logger))
			d.Certification.RegisterStaff(r)
		})
	}
	return r
}

func healthHandler(checks map[string]HealthCheck, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		result := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				logger.WarnContext(r.Context(), "health check failed", "dependency", name, "error", err)
				result[name] = "unavailable"
				result["status"] = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			result[name] = "ok"
		}
		httputil.WriteJSON(w, status, result)
	}
}
