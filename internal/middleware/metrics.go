package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idea_board_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "idea_board_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idea_board_errors_total",
			Help: "Total number of error responses by type",
		},
		[]string{"type"},
	)

	// Domain counters, derived from successful responses on known routes.
	ideasCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "idea_board_ideas_created_total",
			Help: "Total number of ideas created through the API",
		},
	)

	tasksCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "idea_board_tasks_created_total",
			Help: "Total number of tasks created through the API",
		},
	)

	restoresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "idea_board_restores_total",
			Help: "Total number of successful backup restores",
		},
	)
)

// Metrics records Prometheus request metrics. Routes are labelled by chi
// route pattern, never by raw path, so ids do not blow up cardinality.
func Metrics() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrap(w)

			next.ServeHTTP(wrapped, r)

			route := routePattern(r)
			status := wrapped.statusCode

			httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())

			if status >= 400 {
				errorType := "client_error"
				if status >= 500 {
					errorType = "server_error"
				}
				errorsTotal.WithLabelValues(errorType).Inc()
			}

			if r.Method == http.MethodPost {
				switch {
				case route == "/api/ideas" && status == http.StatusCreated:
					ideasCreatedTotal.Inc()
				case route == "/api/ideas/{id}/tasks" && status == http.StatusCreated:
					tasksCreatedTotal.Inc()
				case route == "/api/restore" && status == http.StatusOK:
					restoresTotal.Inc()
				}
			}
		})
	}
}
