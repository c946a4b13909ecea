package middleware

import (
	"net/http"
	"time"

	"github.com/Rakesh4440/fixify-plus/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
)

// RequestLatency observes per-route request latency. The label is the chi
// route pattern, not the raw path, to keep cardinality bounded.
func RequestLatency(m *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.APILatency.WithLabelValues(r.Method + " " + route).Observe(time.Since(start).Seconds())
		})
	}
}
