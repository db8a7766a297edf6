// Package rate implementa un rate limiter de ventana fija sobre cache.Client,
// así el mismo limiter funciona con go-cache (un nodo) o Redis (compartido).
package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/ridepass/internal/cache"
)

type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	WindowTTL   time.Duration
	CurrentHits int64
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// FixedWindow: INCR por ventana (key + inicio de ventana), ttl = ventana.
type FixedWindow struct {
	KV     cache.Client
	Max    int64
	Window time.Duration
	Now    func() time.Time
}

func NewFixedWindow(kv cache.Client, max int, window time.Duration) *FixedWindow {
	if window <= 0 {
		window = time.Minute
	}
	return &FixedWindow{KV: kv, Max: int64(max), Window: window, Now: time.Now}
}

func (l *FixedWindow) Allow(ctx context.Context, key string) (Result, error) {
	now := l.Now().UTC()
	winStart := now.Truncate(l.Window)
	k := fmt.Sprintf("%s:%d", strings.ReplaceAll(key, " ", "_"), winStart.Unix())

	hits, err := l.KV.Incr(ctx, k, l.Window)
	if err != nil {
		return Result{}, err
	}

	ttl := winStart.Add(l.Window).Sub(now)
	remaining := l.Max - hits
	if remaining < 0 {
		remaining = 0
	}
	res := Result{
		Allowed:     hits <= l.Max,
		Remaining:   remaining,
		CurrentHits: hits,
		WindowTTL:   ttl,
	}
	if !res.Allowed {
		// Retry after: resto de la ventana, mínimo 1s
		res.RetryAfter = ttl.Round(time.Second)
		if res.RetryAfter < time.Second {
			res.RetryAfter = time.Second
		}
	}
	return res, nil
}
