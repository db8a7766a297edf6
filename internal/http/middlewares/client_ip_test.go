package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/ridepass/internal/cache"
	"github.com/dropDatabas3/ridepass/internal/rate"
)

func TestParseTrustedProxies(t *testing.T) {
	tp, err := ParseTrustedProxies([]string{"10.0.0.0/8", " 192.168.1.7 ", "", "::1"})
	require.NoError(t, err)
	assert.Len(t, tp, 3)

	_, err = ParseTrustedProxies([]string{"10.0.0.0/8", "proxy.local"})
	assert.Error(t, err)
}

func TestClientIP(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)

	cases := map[string]struct {
		proxies TrustedProxies
		remote  string
		xff     string
		want    string
	}{
		"no proxies ignores xff":       {nil, "203.0.113.9:4000", "1.2.3.4", "203.0.113.9"},
		"untrusted peer ignores xff":   {trusted, "203.0.113.9:4000", "1.2.3.4", "203.0.113.9"},
		"trusted peer uses xff":        {trusted, "10.1.2.3:4000", "198.51.100.4", "198.51.100.4"},
		"rightmost untrusted hop wins": {trusted, "10.1.2.3:4000", "6.6.6.6, 198.51.100.4, 10.9.9.9", "198.51.100.4"},
		"trusted peer without xff":     {trusted, "10.1.2.3:4000", "", "10.1.2.3"},
		"garbage hop stops the walk":   {trusted, "10.1.2.3:4000", "198.51.100.4, nope", "10.1.2.3"},
		"remote without port":          {nil, "203.0.113.9", "", "203.0.113.9"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tc.remote
			if tc.xff != "" {
				r.Header.Set("X-Forwarded-For", tc.xff)
			}
			assert.Equal(t, tc.want, tc.proxies.ClientIP(r))
		})
	}
}

func fixedNow() time.Time { return time.Date(2024, 5, 1, 12, 0, 30, 0, time.UTC) }

// Cambiar X-Forwarded-For en cada intento no debe abrir una ventana nueva
// si el peer no es un proxy de confianza.
func TestRateLimit_ForwardedForDoesNotResetWindow(t *testing.T) {
	limiter := rate.NewFixedWindow(cache.NewMemory("rl", time.Minute), 2, time.Minute)
	limiter.Now = fixedNow
	h := Chain(okHandler(), WithRateLimit(RateLimitConfig{
		Limiter: limiter,
		KeyFunc: IPPathRateKey(nil),
	}))

	codes := make([]int, 0, 3)
	for _, spoof := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		r := httptest.NewRequest(http.MethodPost, "/api/auth/user/login", nil)
		r.RemoteAddr = "203.0.113.9:4000"
		r.Header.Set("X-Forwarded-For", spoof)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_TrustedProxyKeysByForwardedClient(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.1"})
	require.NoError(t, err)
	limiter := rate.NewFixedWindow(cache.NewMemory("rl", time.Minute), 1, time.Minute)
	limiter.Now = fixedNow
	h := Chain(okHandler(), WithRateLimit(RateLimitConfig{
		Limiter: limiter,
		KeyFunc: IPPathRateKey(trusted),
	}))

	send := func(client string) int {
		r := httptest.NewRequest(http.MethodPost, "/api/auth/user/login", nil)
		r.RemoteAddr = "10.0.0.1:5555"
		r.Header.Set("X-Forwarded-For", client)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, send("198.51.100.1"))
	assert.Equal(t, http.StatusOK, send("198.51.100.2"))
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.1"))
}
