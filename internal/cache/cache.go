// Package cache provee un key/value con TTL y dos backends:
//   - memory: go-cache in-process (default, un solo nodo)
//   - redis: compartido entre réplicas
//
// Lo consumen el store de revocación y el rate limiter de login.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Client define las operaciones de cache.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe o expiró.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda un valor. ttl <= 0 significa sin expiración.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	// Incr incrementa un contador. Si la key no existía la crea en 1 con el
	// ttl dado; incrementos posteriores no extienden el ttl.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Len retorna la cantidad aproximada de keys vivas del prefijo.
	Len(ctx context.Context) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}

// Config configuración para crear un cliente de cache.
type Config struct {
	Driver   string // "memory" | "redis"
	Addr     string // host:port (redis)
	Password string
	DB       int
	Prefix   string // prefijo para todas las keys

	// CleanupInterval es el período del janitor de go-cache. Default 1m.
	CleanupInterval time.Duration
}

// ErrNotFound se retorna cuando la key no existe.
var ErrNotFound = errors.New("cache: key not found")

// IsNotFound verifica si el error es porque la key no existe.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// New crea un cliente de cache según la configuración.
func New(cfg Config) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "redis":
		return NewRedis(cfg)
	case "memory", "":
		return NewMemory(cfg.Prefix, cfg.CleanupInterval), nil
	default:
		return nil, fmt.Errorf("cache: unknown driver %q", cfg.Driver)
	}
}

func prefixed(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + ":" + k
}
