// Package router define las rutas HTTP del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	accctrl "github.com/dropDatabas3/ridepass/internal/http/controllers/account"
	healthctrl "github.com/dropDatabas3/ridepass/internal/http/controllers/health"
	sessctrl "github.com/dropDatabas3/ridepass/internal/http/controllers/session"
	"github.com/dropDatabas3/ridepass/internal/http/errors"
	mw "github.com/dropDatabas3/ridepass/internal/http/middlewares"
	"github.com/dropDatabas3/ridepass/internal/principal"
	"github.com/dropDatabas3/ridepass/internal/rate"
)

// Deps contiene las dependencias del router.
type Deps struct {
	Authenticator *mw.Authenticator
	Session       *sessctrl.Controllers
	Account       *accctrl.Controllers
	Health        *healthctrl.HealthController

	// LoginLimiter opcional. nil = sin rate limit en login.
	LoginLimiter rate.Limiter
	CORSOrigins  []string
	// TrustedProxies decide si se lee X-Forwarded-For para la IP del cliente.
	TrustedProxies mw.TrustedProxies
	// Gatherer para /metrics. nil = prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// New arma el handler raíz.
//
// Cadena global (de afuera hacia adentro): recover, request id, security
// headers, CORS, métricas, logging y autenticador. Todo request pasa por el
// autenticador; la autorización se decide por ruta.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithSecurityHeaders(),
		mw.WithCORS(d.CORSOrigins),
		mw.WithMetrics(),
		mw.WithLogging(d.TrustedProxies),
		d.Authenticator.Middleware(),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errors.WriteError(w, r, errors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		errors.WriteError(w, r, errors.ErrMethodNotAllowed)
	})

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Get("/healthz", d.Health.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	loginLimit := mw.WithRateLimit(mw.RateLimitConfig{
		Limiter: d.LoginLimiter,
		KeyFunc: mw.IPPathRateKey(d.TrustedProxies),
	})
	admin := mw.RequireRole(principal.RoleAdmin)

	r.Route("/api/auth/user", func(r chi.Router) {
		r.Use(mw.WithNoStore())

		// ─── Públicos ───
		r.Post("/register", d.Account.Register.RegisterRider)
		r.With(loginLimit).Post("/login", d.Session.Login.Login(principal.KindRider))

		// Sin token el logout igual responde 200.
		r.Post("/logout", d.Session.Logout.Logout(principal.KindRider))

		r.With(mw.RequireIdentity()).Get("/profile", d.Account.Profile.Profile(principal.KindRider))

		// ─── Admin ───
		r.With(admin).Get("/", d.Account.Admin.ListRiders)
		r.With(admin).Delete("/{email}", d.Account.Admin.DeleteRider)
	})

	r.Route("/api/auth/captains", func(r chi.Router) {
		r.Use(mw.WithNoStore())

		r.Post("/register", d.Account.Register.RegisterDriver)
		r.With(loginLimit).Post("/login", d.Session.Login.Login(principal.KindDriver))
		r.Post("/logout", d.Session.Logout.Logout(principal.KindDriver))
		r.With(mw.RequireIdentity()).Get("/profile", d.Account.Profile.Profile(principal.KindDriver))
	})

	return r
}
