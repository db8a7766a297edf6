package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dropDatabas3/ridepass/internal/domain/repository"
	dto "github.com/dropDatabas3/ridepass/internal/http/dto/session"
	"github.com/dropDatabas3/ridepass/internal/jwt"
	"github.com/dropDatabas3/ridepass/internal/metrics"
	"github.com/dropDatabas3/ridepass/internal/principal"
	"github.com/dropDatabas3/ridepass/internal/revocation"
	"github.com/dropDatabas3/ridepass/internal/security/password"
	"github.com/dropDatabas3/ridepass/internal/store/memory"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	svc     Services
	codec   *jwt.Codec
	revoked *revocation.CacheStore
	riders  *memory.CredentialRepo
	drivers *memory.CredentialRepo
}

func newFixture(t *testing.T, cookie dto.CookieConfig) *fixture {
	t.Helper()
	codec, err := jwt.NewCodec(jwt.CodecConfig{Secret: []byte(testSecret), TTL: time.Hour})
	require.NoError(t, err)

	hasher := password.NewBcrypt(bcrypt.MinCost)
	riders, drivers := memory.NewCredentialRepo(), memory.NewCredentialRepo()
	for _, c := range []struct {
		repo  *memory.CredentialRepo
		ident string
		role  string
	}{
		{riders, "rider@x.com", "ROLE_USER"},
		{drivers, "cap@x.com", "ROLE_CAPTAIN"},
	} {
		h, err := hasher.Hash("s3cret-pass")
		require.NoError(t, err)
		_, err = c.repo.Create(context.Background(), repository.CreateCredentialInput{
			Identifier: c.ident, PasswordHash: h, Role: c.role,
		})
		require.NoError(t, err)
	}

	rev := revocation.NewMemory(codec, revocation.Options{})
	svc := NewServices(Deps{
		Resolvers: map[principal.Kind]principal.Resolver{
			principal.KindRider:  principal.NewStoreResolver(principal.KindRider, riders),
			principal.KindDriver: principal.NewStoreResolver(principal.KindDriver, drivers),
		},
		Tokens:      codec,
		Hasher:      hasher,
		Revocations: rev,
		Cookie:      cookie,
	})
	return &fixture{svc: svc, codec: codec, revoked: rev, riders: riders, drivers: drivers}
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t, dto.CookieConfig{})
	res, err := f.svc.Login.Login(context.Background(), principal.KindDriver, "  CAP@x.com ", "s3cret-pass")
	require.NoError(t, err)

	assert.Equal(t, "cap@x.com", res.Principal.Identifier)
	assert.Equal(t, principal.KindDriver, res.Principal.Kind)
	assert.True(t, f.codec.Validate(res.Token))
	sub, err := f.codec.SubjectOf(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "cap@x.com", sub)
}

func TestLogin_NoEnumerationSignal(t *testing.T) {
	f := newFixture(t, dto.CookieConfig{})
	ctx := context.Background()

	_, errWrong := f.svc.Login.Login(ctx, principal.KindRider, "rider@x.com", "nope-nope")
	_, errMissing := f.svc.Login.Login(ctx, principal.KindRider, "ghost@x.com", "nope-nope")
	_, errBlank := f.svc.Login.Login(ctx, principal.KindRider, "   ", "")

	require.ErrorIs(t, errWrong, ErrInvalidCredentials)
	require.ErrorIs(t, errMissing, ErrInvalidCredentials)
	require.ErrorIs(t, errBlank, ErrInvalidCredentials)
	assert.Equal(t, errWrong.Error(), errMissing.Error())
}

func TestLogin_KindIsolation(t *testing.T) {
	f := newFixture(t, dto.CookieConfig{})
	// un driver no puede loguear por el endpoint de riders
	_, err := f.svc.Login.Login(context.Background(), principal.KindRider, "cap@x.com", "s3cret-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownKind(t *testing.T) {
	f := newFixture(t, dto.CookieConfig{})
	_, err := f.svc.Login.Login(context.Background(), principal.Kind("ADMIN"), "rider@x.com", "s3cret-pass")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestLogin_RecordsAttemptResult(t *testing.T) {
	f := newFixture(t, dto.CookieConfig{})
	ctx := context.Background()
	count := func(result string) float64 {
		return testutil.ToFloat64(metrics.LoginAttempts.WithLabelValues(principal.KindDriver.String(), result))
	}
	success, invalid := count("success"), count("invalid")

	_, err := f.svc.Login.Login(ctx, principal.KindDriver, "cap@x.com", "s3cret-pass")
	require.NoError(t, err)
	_, err = f.svc.Login.Login(ctx, principal.KindDriver, "cap@x.com", "wrong-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Equal(t, success+1, count("success"))
	assert.Equal(t, invalid+1, count("invalid"))
}

type brokenResolver struct{}

func (brokenResolver) Resolve(context.Context, string) (*principal.Principal, error) {
	return nil, errors.New("connection refused")
}

func TestLogin_StoreErrorIsNotInvalidCredentials(t *testing.T) {
	codec, err := jwt.NewCodec(jwt.CodecConfig{Secret: []byte(testSecret)})
	require.NoError(t, err)
	svc := NewLoginService(LoginDeps{
		Resolvers: map[principal.Kind]principal.Resolver{principal.KindRider: brokenResolver{}},
		Tokens:    codec,
		Hasher:    password.NewBcrypt(bcrypt.MinCost),
	})
	_, err = svc.Login(context.Background(), principal.KindRider, "a@x.com", "whatever1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidCredentials))
}

func TestSessionCookie_Attributes(t *testing.T) {
	f := newFixture(t, dto.CookieConfig{})
	c := f.svc.Login.BuildSessionCookie("abc")

	assert.Equal(t, "token", c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 3600, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestSessionCookie_Configured(t *testing.T) {
	f := newFixture(t, dto.CookieConfig{Name: "rp", Secure: true, SameSite: "Strict"})
	c := f.svc.Login.BuildSessionCookie("abc")
	assert.Equal(t, "rp", c.Name)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
}

func TestLogout_RevokesAndClears(t *testing.T) {
	f := newFixture(t, dto.CookieConfig{})
	ctx := context.Background()
	res, err := f.svc.Login.Login(ctx, principal.KindRider, "rider@x.com", "s3cret-pass")
	require.NoError(t, err)

	f.svc.Logout.Logout(ctx, res.Token)
	assert.True(t, f.revoked.IsRevoked(ctx, res.Token))

	// idempotente
	f.svc.Logout.Logout(ctx, res.Token)
	assert.True(t, f.revoked.IsRevoked(ctx, res.Token))

	c := f.svc.Logout.BuildClearCookie()
	assert.Equal(t, "token", c.Name)
	assert.Empty(t, c.Value)
	assert.True(t, strings.Contains(c.String(), "Max-Age=0"))
}

func TestLogout_NoToken(t *testing.T) {
	f := newFixture(t, dto.CookieConfig{})
	f.svc.Logout.Logout(context.Background(), "")
	assert.Equal(t, int64(0), f.revoked.Len(context.Background()))
}
