// Package revocation guarda los tokens invalidados por logout hasta su
// expiración natural.
//
// El contrato no devuelve errores: Revoke es best-effort e IsRevoked degrada
// a "no revocado" si el backend falla. Un token solo necesita estar en el
// store mientras su firma siga siendo válida; pasado su exp lo rechaza el
// codec, así que las entradas vencidas se podan al leerlas.
package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/ridepass/internal/cache"
	"github.com/dropDatabas3/ridepass/internal/metrics"
	"github.com/dropDatabas3/ridepass/internal/observability/logger"
)

// Store es la interfaz que consumen el autenticador y el logout.
type Store interface {
	Revoke(ctx context.Context, token string)
	IsRevoked(ctx context.Context, token string) bool
}

// ExpiryReader extrae el exp de un token (lo implementa *jwt.Codec).
type ExpiryReader interface {
	ExpiryOf(token string) (time.Time, error)
}

// DefaultGrace es cuánto sobrevive una entrada en el backend después del exp
// del token. Las lecturas podan antes; el TTL del backend es el respaldo
// para tokens que nadie vuelve a presentar.
const DefaultGrace = 5 * time.Minute

const defaultPrefix = "revoked"

// Options ajusta el comportamiento del store.
type Options struct {
	Grace time.Duration
	// Now reloj inyectable. Default time.Now.
	Now func() time.Time
}

// CacheStore implementa Store sobre un cache.Client (go-cache en memoria o
// Redis). Las keys son el sha256 del token; el token crudo nunca se guarda.
type CacheStore struct {
	kv    cache.Client
	codec ExpiryReader
	grace time.Duration
	now   func() time.Time
	log   *zap.Logger
}

var _ Store = (*CacheStore)(nil)

// NewCacheStore arma un store sobre kv.
func NewCacheStore(kv cache.Client, codec ExpiryReader, opts Options) *CacheStore {
	if opts.Grace <= 0 {
		opts.Grace = DefaultGrace
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &CacheStore{
		kv:    kv,
		codec: codec,
		grace: opts.Grace,
		now:   opts.Now,
		log:   logger.Named("revocation"),
	}
}

// NewMemory crea el store in-process por defecto.
func NewMemory(codec ExpiryReader, opts Options) *CacheStore {
	return NewCacheStore(cache.NewMemory(defaultPrefix, time.Minute), codec, opts)
}

// New crea el store según cfg.Driver ("memory" | "redis").
func New(cfg cache.Config, codec ExpiryReader, opts Options) (*CacheStore, error) {
	if cfg.Prefix == "" {
		cfg.Prefix = defaultPrefix
	}
	kv, err := cache.New(cfg)
	if err != nil {
		return nil, err
	}
	return NewCacheStore(kv, codec, opts), nil
}

func fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Revoke registra el token hasta su exp. Vacíos, ilegibles o ya vencidos se
// descartan. Es idempotente.
func (s *CacheStore) Revoke(ctx context.Context, token string) {
	log := s.log.With(logger.Op("Revoke"), logger.TokenFingerprint(token))
	if token == "" {
		log.Debug("empty token, nothing to revoke")
		metrics.Revocations.WithLabelValues("skipped").Inc()
		return
	}

	exp, err := s.codec.ExpiryOf(token)
	if err != nil {
		log.Warn("cannot read token expiry, revocation dropped", logger.Err(err))
		metrics.Revocations.WithLabelValues("skipped").Inc()
		return
	}
	ttl := exp.Sub(s.now())
	if ttl <= 0 {
		log.Debug("token already expired, not stored")
		metrics.Revocations.WithLabelValues("skipped").Inc()
		return
	}

	val := strconv.FormatInt(exp.UnixNano(), 10)
	if err := s.kv.Set(ctx, fingerprint(token), val, ttl+s.grace); err != nil {
		log.Error("revocation backend write failed", logger.Err(err))
		metrics.Revocations.WithLabelValues("error").Inc()
		return
	}
	metrics.Revocations.WithLabelValues("stored").Inc()
	log.Debug("token revoked", logger.Any("expires_at", exp))
}

// IsRevoked responde true solo si hay una entrada cuyo exp sigue en el
// futuro. Una entrada vencida se elimina en la misma llamada.
func (s *CacheStore) IsRevoked(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	key := fingerprint(token)
	val, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			metrics.RevocationLookups.WithLabelValues("miss").Inc()
			return false
		}
		s.log.Error("revocation backend read failed", logger.Op("IsRevoked"), logger.Err(err))
		metrics.RevocationLookups.WithLabelValues("error").Inc()
		return false
	}

	nanos, err := strconv.ParseInt(val, 10, 64)
	if err != nil || !s.now().Before(time.Unix(0, nanos)) {
		_ = s.kv.Delete(ctx, key)
		metrics.RevocationLookups.WithLabelValues("pruned").Inc()
		return false
	}
	metrics.RevocationLookups.WithLabelValues("hit").Inc()
	return true
}

// Len devuelve la cantidad de entradas en el backend (incluye vencidas aún no
// podadas). -1 si el backend falla.
func (s *CacheStore) Len(ctx context.Context) int64 {
	n, err := s.kv.Len(ctx)
	if err != nil {
		s.log.Warn("revocation backend len failed", logger.Err(err))
		return -1
	}
	return n
}

// Ping verifica el backend (lo usa /healthz).
func (s *CacheStore) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

func (s *CacheStore) Close() error {
	return s.kv.Close()
}
