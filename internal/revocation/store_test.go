package revocation

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/ridepass/internal/cache"
	"github.com/dropDatabas3/ridepass/internal/jwt"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func setup(t *testing.T) (*jwt.Codec, *CacheStore, *clock) {
	t.Helper()
	clk := &clock{t: time.Now()}
	codec, err := jwt.NewCodec(jwt.CodecConfig{
		Secret: []byte("0123456789abcdef0123456789abcdef"),
		TTL:    time.Hour,
		Now:    clk.Now,
	})
	require.NoError(t, err)
	return codec, NewMemory(codec, Options{Now: clk.Now}), clk
}

func TestRevoke_ThenIsRevoked(t *testing.T) {
	ctx := context.Background()
	codec, s, _ := setup(t)

	tok, _, err := codec.Issue("rider@x.com")
	require.NoError(t, err)
	other, _, err := codec.Issue("driver@x.com")
	require.NoError(t, err)

	assert.False(t, s.IsRevoked(ctx, tok))
	s.Revoke(ctx, tok)
	assert.True(t, s.IsRevoked(ctx, tok))
	assert.False(t, s.IsRevoked(ctx, other))
}

func TestRevoke_Idempotent(t *testing.T) {
	ctx := context.Background()
	codec, s, _ := setup(t)
	tok, _, err := codec.Issue("a@x.com")
	require.NoError(t, err)

	s.Revoke(ctx, tok)
	s.Revoke(ctx, tok)
	assert.True(t, s.IsRevoked(ctx, tok))
	assert.EqualValues(t, 1, s.Len(ctx))
}

func TestRevoke_IgnoresEmptyAndGarbage(t *testing.T) {
	ctx := context.Background()
	_, s, _ := setup(t)

	s.Revoke(ctx, "")
	s.Revoke(ctx, "definitely.not.ajwt")
	assert.EqualValues(t, 0, s.Len(ctx))
	assert.False(t, s.IsRevoked(ctx, ""))
	assert.False(t, s.IsRevoked(ctx, "definitely.not.ajwt"))
}

func TestRevoke_ExpiredTokenNotStored(t *testing.T) {
	ctx := context.Background()
	codec, s, clk := setup(t)
	tok, _, err := codec.Issue("a@x.com")
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)
	s.Revoke(ctx, tok)
	assert.EqualValues(t, 0, s.Len(ctx))
}

func TestIsRevoked_PrunesExpiredEntry(t *testing.T) {
	ctx := context.Background()
	codec, s, clk := setup(t)
	tok, _, err := codec.Issue("a@x.com")
	require.NoError(t, err)

	s.Revoke(ctx, tok)
	require.True(t, s.IsRevoked(ctx, tok))
	require.EqualValues(t, 1, s.Len(ctx))

	clk.Advance(time.Hour)
	assert.False(t, s.IsRevoked(ctx, tok))
	assert.EqualValues(t, 0, s.Len(ctx))
}

func TestConcurrentRevokeAndLookup(t *testing.T) {
	ctx := context.Background()
	codec, s, _ := setup(t)

	const n = 64
	tokens := make([]string, n)
	for i := range tokens {
		tok, _, err := codec.Issue("user" + strconv.Itoa(i) + "@x.com")
		require.NoError(t, err)
		tokens[i] = tok
	}

	var wg sync.WaitGroup
	for _, tok := range tokens {
		wg.Add(2)
		go func(tok string) {
			defer wg.Done()
			s.Revoke(ctx, tok)
		}(tok)
		go func(tok string) {
			defer wg.Done()
			_ = s.IsRevoked(ctx, tok)
		}(tok)
	}
	wg.Wait()

	for _, tok := range tokens {
		assert.True(t, s.IsRevoked(ctx, tok))
	}
}

func TestRedisBackendDown_DegradesToNotRevoked(t *testing.T) {
	ctx := context.Background()
	codec, _, clk := setup(t)

	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	s := NewCacheStore(cache.NewRedisFromClient(rdb, "revoked"), codec, Options{Now: clk.Now})

	tok, _, err := codec.Issue("a@x.com")
	require.NoError(t, err)

	s.Revoke(ctx, tok)
	assert.False(t, s.IsRevoked(ctx, tok))
	assert.EqualValues(t, -1, s.Len(ctx))
}
