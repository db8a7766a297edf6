// Package session contiene las operaciones de borde de la sesión: login
// (verifica credenciales y emite el token) y logout (revoca el token y limpia
// la cookie).
package session

import (
	"time"

	dto "github.com/dropDatabas3/ridepass/internal/http/dto/session"
	"github.com/dropDatabas3/ridepass/internal/principal"
	"github.com/dropDatabas3/ridepass/internal/revocation"
	"github.com/dropDatabas3/ridepass/internal/security/password"
)

// TokenIssuer es la parte del codec que usa el login.
type TokenIssuer interface {
	Issue(subject string) (string, time.Time, error)
	TTL() time.Duration
}

// Deps contiene las dependencias para crear los services de sesión.
type Deps struct {
	// Resolvers por tipo de principal. El login de riders solo mira el store
	// de riders y el de drivers solo el de drivers.
	Resolvers   map[principal.Kind]principal.Resolver
	Tokens      TokenIssuer
	Hasher      password.Hasher
	Revocations revocation.Store
	Cookie      dto.CookieConfig
}

// Services agrupa los services de sesión.
type Services struct {
	Login  LoginService
	Logout LogoutService
}

// NewServices crea los services de sesión.
func NewServices(d Deps) Services {
	cookies := newCookieBuilder(d.Cookie, d.Tokens)
	return Services{
		Login: NewLoginService(LoginDeps{
			Resolvers: d.Resolvers,
			Tokens:    d.Tokens,
			Hasher:    d.Hasher,
			Cookies:   cookies,
		}),
		Logout: NewLogoutService(LogoutDeps{
			Revocations: d.Revocations,
			Cookies:     cookies,
		}),
	}
}
