// Package health verifica las dependencias del servicio.
package health

import (
	"context"
	"errors"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/ridepass/internal/observability/logger"
)

// Pinger es cualquier dependencia con health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SelfChecker firma y valida un token efímero.
type SelfChecker interface {
	Issue(subject string) (string, time.Time, error)
	Validate(token string) bool
}

// Deps contiene las dependencias del health check.
type Deps struct {
	Store       Pinger
	Revocations Pinger
	Tokens      SelfChecker
	Version     string
	Timeout     time.Duration
}

// Result es el estado de cada componente: "ok" o "down". El detalle del
// error va solo al log; el body de /healthz es público.
type Result struct {
	Status     string            `json:"status"`
	Version    string            `json:"version,omitempty"`
	Components map[string]string `json:"components"`
}

// HealthService corre todos los checks en paralelo.
type HealthService interface {
	Check(ctx context.Context) Result
}

type healthService struct {
	deps Deps
}

func NewHealthService(d Deps) HealthService {
	if d.Timeout <= 0 {
		d.Timeout = 2 * time.Second
	}
	return &healthService{deps: d}
}

func (s *healthService) Check(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
	defer cancel()

	checks := map[string]func(context.Context) error{}
	if s.deps.Store != nil {
		checks["store"] = s.deps.Store.Ping
	}
	if s.deps.Revocations != nil {
		checks["revocation"] = s.deps.Revocations.Ping
	}
	if s.deps.Tokens != nil {
		checks["jwt"] = s.selfCheck
	}

	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)
	results := make([]error, len(names))

	// errgroup sin cancelación: un check caído no debe abortar los demás.
	var g errgroup.Group
	for i, name := range names {
		fn := checks[name]
		g.Go(func() error {
			results[i] = fn(ctx)
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Status: "ok", Version: s.deps.Version, Components: make(map[string]string, len(names))}
	for i, name := range names {
		if results[i] != nil {
			res.Status = "degraded"
			res.Components[name] = "down"
			logger.From(ctx).Warn("health check failed",
				logger.Component("health"), logger.String("check", name), logger.Err(results[i]))
			continue
		}
		res.Components[name] = "ok"
	}
	return res
}

var errSelfCheck = errors.New("issued token did not validate")

func (s *healthService) selfCheck(context.Context) error {
	tok, _, err := s.deps.Tokens.Issue("selfcheck")
	if err != nil {
		return err
	}
	if !s.deps.Tokens.Validate(tok) {
		return errSelfCheck
	}
	return nil
}
