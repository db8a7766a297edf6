package middlewares

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/ridepass/internal/principal"
	"github.com/dropDatabas3/ridepass/internal/rate"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
}

func TestChain_Order(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(okHandler(), mk("A"), mk("B"), mk("C"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"A", "B", "C"}, order)
}

func TestRequireRole(t *testing.T) {
	h := Chain(okHandler(), RequireRole(principal.RoleAdmin))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	rider := &Identity{Subject: "a@x.com", Roles: []principal.Role{principal.RoleRider}}
	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), rider)))
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := &Identity{Subject: "root@x.com", Roles: []principal.Role{principal.RoleAdmin}}
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), admin)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestID_PropagatesOrGenerates(t *testing.T) {
	var seen string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}), WithRequestID())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "abc")
	h.ServeHTTP(w, r)
	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 32)
}

func TestRecover(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }), WithRecover())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"path":"/x"`))
}

type stubLimiter struct {
	res rate.Result
	err error
}

func (s stubLimiter) Allow(context.Context, string) (rate.Result, error) { return s.res, s.err }

func TestRateLimit(t *testing.T) {
	limited := Chain(okHandler(), WithRateLimit(RateLimitConfig{Limiter: stubLimiter{res: rate.Result{Allowed: false, RetryAfter: 30e9}}}))
	w := httptest.NewRecorder()
	limited.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/user/login", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))

	failing := Chain(okHandler(), WithRateLimit(RateLimitConfig{Limiter: stubLimiter{err: stderrors.New("redis down")}}))
	w = httptest.NewRecorder()
	failing.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/user/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	h := Chain(okHandler(), WithCORS([]string{"https://app.example.com/"}))

	r := httptest.NewRequest(http.MethodOptions, "/api/auth/user/login", nil)
	r.Header.Set("Origin", "https://app.example.com")
	r.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
