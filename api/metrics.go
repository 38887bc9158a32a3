package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rpupo63/portfolio-site-backend/services"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	mediaUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_media_uploads_total",
			Help: "Server-proxied media uploads by kind and outcome",
		},
		[]string{"kind", "success"},
	)
	mediaDeletes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_media_deletes_total",
			Help: "Best-effort media deletes by kind and outcome",
		},
		[]string{"kind", "success"},
	)
	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// PrometheusMiddleware records request duration per route pattern.
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}

func metricsHandler() http.Handler {
	return promhttp.Handler()
}

func recordMediaUpload(kind services.MediaKind, success bool) {
	mediaUploads.WithLabelValues(string(kind), strconv.FormatBool(success)).Inc()
}

func recordMediaDelete(kind services.MediaKind, success bool) {
	mediaDeletes.WithLabelValues(string(kind), strconv.FormatBool(success)).Inc()
}

func recordLoginAttempt(outcome string) {
	loginAttempts.WithLabelValues(outcome).Inc()
}
