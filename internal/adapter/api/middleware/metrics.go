package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/V4T54L/event-admin/internal/adapter/metrics"
)

// Metrics counts requests per matched route pattern. It must wrap the
// ServeMux directly so that r.Pattern is populated after routing.
func Metrics(m *metrics.AdminMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrap(w)
			next.ServeHTTP(rw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.HTTPRequests.WithLabelValues(route, strconv.Itoa(rw.statusCode)).Inc()
			m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}
