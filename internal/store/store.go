// Package store abre los stores de credenciales (riders y drivers) según el
// driver configurado.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/ridepass/internal/domain/repository"
	"github.com/dropDatabas3/ridepass/internal/observability/logger"
	"github.com/dropDatabas3/ridepass/internal/store/memory"
	"github.com/dropDatabas3/ridepass/internal/store/pg"
	"github.com/dropDatabas3/ridepass/migrations/postgres"
)

// Config del storage.
type Config struct {
	Driver      string // "memory" | "postgres"
	DSN         string
	AutoMigrate bool
	Pool        pg.PoolConfig
}

// Stores agrupa los dos stores de credenciales.
type Stores struct {
	Riders  repository.CredentialRepository
	Drivers repository.CredentialRepository

	pool *pgxpool.Pool
}

// Ping verifica el backend. Siempre nil en memoria.
func (s *Stores) Ping(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	return s.pool.Ping(ctx)
}

func (s *Stores) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Open crea los stores. Con "postgres" abre el pool y, si AutoMigrate, aplica
// las migraciones embebidas.
func Open(ctx context.Context, cfg Config) (*Stores, error) {
	log := logger.From(ctx).With(logger.Component("store"))

	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "memory":
		log.Info("using in-memory credential stores")
		return &Stores{
			Riders:  memory.NewCredentialRepo(),
			Drivers: memory.NewCredentialRepo(),
		}, nil

	case "postgres", "pg":
		pcfg := cfg.Pool
		pcfg.DSN = cfg.DSN
		pool, err := pg.Connect(ctx, pcfg)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			res, err := pg.NewMigrator(postgres.FS, postgres.Dir).Run(ctx, pool)
			if err != nil {
				pool.Close()
				return nil, err
			}
			log.Info("migrations applied",
				logger.Any("applied", res.Applied),
				logger.Count(len(res.Skipped)),
				logger.DurationMs(res.Duration.Milliseconds()))
		}
		return &Stores{
			Riders:  pg.NewRiderRepo(pool),
			Drivers: pg.NewDriverRepo(pool),
			pool:    pool,
		}, nil

	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
