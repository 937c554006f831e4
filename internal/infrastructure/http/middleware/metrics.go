package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ordertracker_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordertracker_login_attempts_total",
			Help: "Discord sign-in attempts by outcome",
		},
		[]string{"success"},
	)
	commissionMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordertracker_commission_mutations_total",
			Help: "Admin mutations by event and outcome",
		},
		[]string{"event", "success"},
	)
)

// PrometheusMiddleware records request duration labelled by chi route
// pattern so ids never become label values.
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}

// RecordLoginAttempt counts one OAuth callback outcome.
func RecordLoginAttempt(success bool) {
	loginAttempts.WithLabelValues(strconv.FormatBool(success)).Inc()
}

// RecordMutation counts one admin mutation outcome.
func RecordMutation(event string, success bool) {
	commissionMutations.WithLabelValues(event, strconv.FormatBool(success)).Inc()
}
