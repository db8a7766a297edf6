package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dropDatabas3/ridepass/internal/http/errors"
	"github.com/dropDatabas3/ridepass/internal/metrics"
	"github.com/dropDatabas3/ridepass/internal/observability/logger"
	"github.com/dropDatabas3/ridepass/internal/rate"
)

// RateKeyFunc define cómo generar la clave de rate limiting.
type RateKeyFunc func(r *http.Request) string

// IPPathRateKey: IP + path. Login de riders y drivers cuentan por separado.
// La IP sale de proxies.ClientIP, así que un X-Forwarded-For de un peer no
// confiable no cambia la clave.
func IPPathRateKey(proxies TrustedProxies) RateKeyFunc {
	return func(r *http.Request) string {
		return proxies.ClientIP(r) + "|" + r.URL.Path
	}
}

// RateLimitConfig configura el middleware.
type RateLimitConfig struct {
	Limiter rate.Limiter
	// KeyFunc nil = IPPathRateKey(nil), o sea RemoteAddr + path.
	KeyFunc RateKeyFunc
}

// WithRateLimit rechaza con 429 cuando el limiter lo indica. Si el limiter
// falla, el request pasa.
func WithRateLimit(cfg RateLimitConfig) Middleware {
	if cfg.Limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = IPPathRateKey(nil)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := cfg.Limiter.Allow(r.Context(), cfg.KeyFunc(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			if res.WindowTTL > 0 {
				resetAt := time.Now().Add(res.WindowTTL).Unix()
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt, 10))
			}
			if !res.Allowed {
				if res.RetryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())))
				}
				metrics.RateLimited.WithLabelValues(metrics.NormalizePath(r.URL.Path)).Inc()
				errors.WriteError(w, r, errors.ErrRateLimitExceeded)
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			next.ServeHTTP(w, r)
		})
	}
}
