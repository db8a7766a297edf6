package cache

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryClient implementa Client sobre go-cache. go-cache ya es seguro para
// uso concurrente; mu solo serializa Incr (Add + Increment no es atómico).
type memoryClient struct {
	prefix string
	c      *gocache.Cache
	mu     sync.Mutex
}

// NewMemory crea un cliente de cache en memoria. cleanup <= 0 usa 1 minuto.
func NewMemory(prefix string, cleanup time.Duration) *memoryClient {
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &memoryClient{
		prefix: prefix,
		c:      gocache.New(gocache.NoExpiration, cleanup),
	}
}

func (m *memoryClient) key(k string) string { return prefixed(m.prefix, k) }

func ttlOrNoExpiration(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return gocache.NoExpiration
	}
	return ttl
}

func (m *memoryClient) Get(_ context.Context, key string) (string, error) {
	v, ok := m.c.Get(m.key(key))
	if !ok {
		return "", ErrNotFound
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	default:
		return "", ErrNotFound
	}
}

func (m *memoryClient) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.c.Set(m.key(key), value, ttlOrNoExpiration(ttl))
	return nil
}

func (m *memoryClient) Delete(_ context.Context, key string) error {
	m.c.Delete(m.key(key))
	return nil
}

func (m *memoryClient) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.c.Get(m.key(key))
	return ok, nil
}

func (m *memoryClient) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	k := m.key(key)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.c.Add(k, int64(1), ttlOrNoExpiration(ttl)); err == nil {
		return 1, nil
	}
	n, err := m.c.IncrementInt64(k, 1)
	if err != nil {
		// la key expiró entre Add e Increment, o guardaba otro tipo
		m.c.Set(k, int64(1), ttlOrNoExpiration(ttl))
		return 1, nil
	}
	return n, nil
}

func (m *memoryClient) Len(_ context.Context) (int64, error) {
	if m.prefix == "" {
		return int64(m.c.ItemCount()), nil
	}
	var n int64
	p := m.prefix + ":"
	for k := range m.c.Items() {
		if strings.HasPrefix(k, p) {
			n++
		}
	}
	return n, nil
}

func (m *memoryClient) Ping(context.Context) error { return nil }

func (m *memoryClient) Close() error {
	m.c.Flush()
	return nil
}
