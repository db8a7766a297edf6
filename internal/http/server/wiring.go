// Package server arma el servicio completo a partir de la configuración y lo
// corre con apagado ordenado.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dropDatabas3/ridepass/internal/cache"
	"github.com/dropDatabas3/ridepass/internal/config"
	dtosess "github.com/dropDatabas3/ridepass/internal/http/dto/session"
	accctrl "github.com/dropDatabas3/ridepass/internal/http/controllers/account"
	healthctrl "github.com/dropDatabas3/ridepass/internal/http/controllers/health"
	sessctrl "github.com/dropDatabas3/ridepass/internal/http/controllers/session"
	mw "github.com/dropDatabas3/ridepass/internal/http/middlewares"
	"github.com/dropDatabas3/ridepass/internal/http/router"
	accsvc "github.com/dropDatabas3/ridepass/internal/http/services/account"
	healthsvc "github.com/dropDatabas3/ridepass/internal/http/services/health"
	sesssvc "github.com/dropDatabas3/ridepass/internal/http/services/session"
	"github.com/dropDatabas3/ridepass/internal/jwt"
	"github.com/dropDatabas3/ridepass/internal/metrics"
	"github.com/dropDatabas3/ridepass/internal/observability/logger"
	"github.com/dropDatabas3/ridepass/internal/principal"
	"github.com/dropDatabas3/ridepass/internal/rate"
	"github.com/dropDatabas3/ridepass/internal/revocation"
	"github.com/dropDatabas3/ridepass/internal/security/password"
	"github.com/dropDatabas3/ridepass/internal/store"
	"github.com/dropDatabas3/ridepass/internal/store/pg"
)

// App es el servicio armado. Close libera store, cache y limiter.
type App struct {
	Handler     http.Handler
	Config      *config.Config
	Codec       *jwt.Codec
	Revocations *revocation.CacheStore
	Stores      *store.Stores
	Hasher      password.Hasher
	Accounts    accsvc.AccountService

	closers []func() error
}

// Close cierra las dependencias en orden inverso al de apertura.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

type buildOptions struct {
	registry prometheus.Registerer
	gatherer prometheus.Gatherer
	now      func() time.Time
}

// Option ajusta Build (tests).
type Option func(*buildOptions)

// WithRegistry usa un registry propio en lugar del default de prometheus.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *buildOptions) {
		o.registry = reg
		o.gatherer = reg
	}
}

// WithClock reemplaza el reloj del codec y del store de revocación.
func WithClock(now func() time.Time) Option {
	return func(o *buildOptions) { o.now = now }
}

// Build arma codec, stores, revocación, services, controllers y router.
func Build(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	var o buildOptions
	for _, fn := range opts {
		fn(&o)
	}
	log := logger.From(ctx).With(logger.Component("wiring"))
	app := &App{Config: cfg}
	fail := func(err error) (*App, error) {
		_ = app.Close()
		return nil, err
	}

	if err := metrics.Register(o.registry); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	// 1. Token codec
	codec, err := jwt.NewCodec(jwt.CodecConfig{
		Secret: []byte(cfg.JWT.Secret),
		TTL:    cfg.JWTTTL(),
		Issuer: cfg.JWT.Issuer,
		Method: cfg.JWT.Method,
		Now:    o.now,
	})
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	app.Codec = codec

	// 2. Credential stores
	stores, err := store.Open(ctx, store.Config{
		Driver:      cfg.Storage.Driver,
		DSN:         cfg.Storage.DSN,
		AutoMigrate: cfg.Storage.AutoMigrate,
		Pool: pg.PoolConfig{
			MaxConns:        int32(cfg.Storage.Postgres.MaxOpenConns),
			MinConns:        int32(cfg.Storage.Postgres.MinConns),
			MaxConnLifetime: cfg.ConnMaxLifetime(),
		},
	})
	if err != nil {
		return fail(fmt.Errorf("store: %w", err))
	}
	app.Stores = stores
	app.closers = append(app.closers, func() error { stores.Close(); return nil })

	// 3. Revocation store (+ backend del rate limiter)
	cacheCfg := func(prefix string) cache.Config {
		return cache.Config{
			Driver:   cfg.Revocation.Kind,
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix + ":" + prefix,
		}
	}
	revs, err := revocation.New(cacheCfg("revoked"), codec, revocation.Options{Grace: cfg.RevocationGrace(), Now: o.now})
	if err != nil {
		return fail(fmt.Errorf("revocation: %w", err))
	}
	app.Revocations = revs
	app.closers = append(app.closers, revs.Close)
	if err := metrics.RegisterRevocationSize(o.registry, func() float64 {
		return float64(revs.Len(context.Background()))
	}); err != nil {
		return fail(fmt.Errorf("metrics: %w", err))
	}

	var loginLimiter rate.Limiter
	if cfg.Rate.Enabled {
		kv, err := cache.New(cacheCfg("rl"))
		if err != nil {
			return fail(fmt.Errorf("rate limiter: %w", err))
		}
		app.closers = append(app.closers, kv.Close)
		loginLimiter = rate.NewFixedWindow(kv, cfg.Rate.Login.Limit, cfg.LoginWindow())
	}

	// 4. Password hashing
	hasher, err := password.New(cfg.Security.PasswordHash)
	if err != nil {
		return fail(err)
	}
	app.Hasher = hasher
	var blacklist *password.Blacklist
	if p := strings.TrimSpace(cfg.Security.PasswordBlacklistPath); p != "" {
		if blacklist, err = password.LoadBlacklist(p); err != nil {
			return fail(fmt.Errorf("password blacklist: %w", err))
		}
		log.Info("password blacklist loaded", logger.Count(blacklist.Len()))
	}

	// 5. Resolvers: riders primero. Un identificador presente en ambos stores
	// resuelve siempre al rider.
	riders := principal.NewStoreResolver(principal.KindRider, stores.Riders)
	drivers := principal.NewStoreResolver(principal.KindDriver, stores.Drivers)
	delegator := principal.NewDelegator(riders, drivers)

	// 6. Services
	accounts := accsvc.NewAccountService(accsvc.Deps{
		Riders:    stores.Riders,
		Drivers:   stores.Drivers,
		Hasher:    hasher,
		Policy:    PasswordPolicy(cfg),
		Blacklist: blacklist,
	})
	app.Accounts = accounts

	sessions := sesssvc.NewServices(sesssvc.Deps{
		Resolvers: map[principal.Kind]principal.Resolver{
			principal.KindRider:  riders,
			principal.KindDriver: drivers,
		},
		Tokens:      codec,
		Hasher:      hasher,
		Revocations: revs,
		Cookie: dtosess.CookieConfig{
			Name:     cfg.Auth.CookieName,
			Domain:   cfg.Auth.Domain,
			Secure:   cfg.Auth.Secure,
			SameSite: cfg.Auth.SameSite,
			TTL:      codec.TTL(),
		},
	})

	health := healthsvc.NewHealthService(healthsvc.Deps{
		Store:       stores,
		Revocations: revs,
		Tokens:      codec,
		Version:     cfg.App.Version,
	})

	// 7. HTTP
	proxies, err := mw.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return fail(err)
	}
	authn := mw.NewAuthenticator(mw.AuthenticatorConfig{
		Tokens:      codec,
		Revocations: revs,
		Resolver:    delegator,
		CookieName:  cfg.Auth.CookieName,
		PublicPaths: cfg.Auth.PublicPaths,
	})

	app.Handler = router.New(router.Deps{
		Authenticator:  authn,
		Session:        sessctrl.NewControllers(sessions, accounts, authn.CookieName()),
		Account:        accctrl.NewControllers(accounts),
		Health:         healthctrl.NewHealthController(health),
		LoginLimiter:   loginLimiter,
		CORSOrigins:    cfg.Server.CORSAllowedOrigins,
		TrustedProxies: proxies,
		Gatherer:       o.gatherer,
	})

	log.Info("service wired",
		logger.String("storage", cfg.Storage.Driver),
		logger.String("revocation", cfg.Revocation.Kind),
		logger.Bool("rate_limit", cfg.Rate.Enabled),
		logger.Count(len(cfg.Auth.PublicPaths)))
	return app, nil
}

// PasswordPolicy traduce la sección security.password_policy.
func PasswordPolicy(cfg *config.Config) password.Policy {
	pp := cfg.Security.PasswordPolicy
	return password.Policy{
		MinLength:     pp.MinLength,
		MaxLength:     pp.MaxLength,
		RequireUpper:  pp.RequireUpper,
		RequireLower:  pp.RequireLower,
		RequireDigit:  pp.RequireDigit,
		RequireSymbol: pp.RequireSymbol,
	}
}
