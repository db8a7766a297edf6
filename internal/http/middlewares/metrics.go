package middlewares

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dropDatabas3/ridepass/internal/metrics"
)

// WithMetrics instrumenta requests HTTP (contador, latencia, inflight).
func WithMetrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method := strings.ToUpper(r.Method)
			pathLabel := metrics.NormalizePath(r.URL.Path)

			inflight := metrics.HTTPInflight.WithLabelValues(method, pathLabel)
			inflight.Inc()
			start := time.Now()
			rec := newStatusRecorder(w)
			defer func() {
				inflight.Dec()
				metrics.HTTPRequestDuration.WithLabelValues(method, pathLabel).Observe(time.Since(start).Seconds())
				metrics.HTTPRequestsTotal.WithLabelValues(method, pathLabel, strconv.Itoa(rec.status)).Inc()
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
