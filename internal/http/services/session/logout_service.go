package session

import (
	"context"
	"net/http"

	"github.com/dropDatabas3/ridepass/internal/audit"
	"github.com/dropDatabas3/ridepass/internal/observability/logger"
	"github.com/dropDatabas3/ridepass/internal/revocation"
)

// LogoutService revoca el token actual. Siempre tiene éxito: sin token no
// hay nada que revocar y el store no falla hacia afuera.
type LogoutService interface {
	Logout(ctx context.Context, token string)
	BuildClearCookie() *http.Cookie
}

// LogoutDeps contiene las dependencias del logout.
type LogoutDeps struct {
	Revocations revocation.Store
	Cookies     cookieBuilder
}

type logoutService struct {
	revocations revocation.Store
	cookies     cookieBuilder
}

// NewLogoutService crea el LogoutService.
func NewLogoutService(deps LogoutDeps) LogoutService {
	s := &logoutService{revocations: deps.Revocations, cookies: deps.Cookies}
	if s.cookies.cfg.Name == "" {
		s.cookies = newCookieBuilder(s.cookies.cfg, nil)
	}
	return s
}

func (s *logoutService) Logout(ctx context.Context, token string) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("session.logout"))
	if token == "" {
		log.Debug("logout without token")
		return
	}
	s.revocations.Revoke(ctx, token)
	audit.Log(ctx, audit.Logout, logger.TokenFingerprint(token))
}

func (s *logoutService) BuildClearCookie() *http.Cookie {
	return s.cookies.clear()
}
