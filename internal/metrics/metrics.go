// Package metrics define los collectors Prometheus del servicio. Viven en un
// paquete propio para que revocation, session y los middlewares HTTP los usen
// sin ciclos de import.
package metrics

import (
	stderrors "errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ridepass"

var (
	// AuthOutcomes cuenta el resultado del autenticador por request.
	// outcome: public|anonymous|revoked|invalid|unresolved|authenticated|panic
	AuthOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_outcomes_total",
		Help:      "Resultado del autenticador por request",
	}, []string{"outcome"})

	// LoginAttempts por tipo de principal (RIDER|DRIVER) y resultado (success|invalid|error).
	LoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Intentos de login por tipo y resultado",
	}, []string{"kind", "result"})

	// Revocations: stored|skipped|error
	Revocations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_revocations_total",
		Help:      "Llamadas a Revoke por resultado",
	}, []string{"result"})

	// RevocationLookups: hit|miss|pruned|error
	RevocationLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "revocation_lookups_total",
		Help:      "Consultas IsRevoked por resultado",
	}, []string{"result"})

	RateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Requests rechazadas por rate limit",
	}, []string{"route"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Número total de requests procesadas",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de los requests HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	HTTPInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "http_inflight_requests",
		Help: "Requests en vuelo por método y ruta",
	}, []string{"method", "path"})
)

// Register registra todos los collectors en reg (default si nil). Los
// duplicados se ignoran, así puede llamarse más de una vez (tests).
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		AuthOutcomes, LoginAttempts, Revocations, RevocationLookups, RateLimited,
		HTTPRequestsTotal, HTTPRequestDuration, HTTPInflight,
	} {
		if err := registerCollector(reg, c); err != nil {
			return err
		}
	}
	return nil
}

// RegisterRevocationSize expone la cantidad de entradas del store de
// revocación como gauge calculado al momento del scrape. Si ya había uno
// registrado (otro Build sobre el mismo registry) se reemplaza: el anterior
// lee un store que puede estar cerrado.
func RegisterRevocationSize(reg prometheus.Registerer, size func() float64) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	g := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "revocation_entries",
		Help:      "Entradas vivas en el store de revocación",
	}, size)

	err := reg.Register(g)
	var are prometheus.AlreadyRegisteredError
	if stderrors.As(err, &are) {
		reg.Unregister(are.ExistingCollector)
		return reg.Register(g)
	}
	return err
}

func registerCollector(reg prometheus.Registerer, c prometheus.Collector) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if err := reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}
