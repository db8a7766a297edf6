package session

import (
	"net/http"
	"strings"
	"time"

	dto "github.com/dropDatabas3/ridepass/internal/http/dto/session"
)

const defaultCookieName = "token"

// cookieBuilder arma la cookie de sesión y la de borrado con los mismos
// atributos, así el navegador reemplaza la existente.
type cookieBuilder struct {
	cfg dto.CookieConfig
}

func newCookieBuilder(cfg dto.CookieConfig, tokens TokenIssuer) cookieBuilder {
	if cfg.Name == "" {
		cfg.Name = defaultCookieName
	}
	if cfg.TTL <= 0 && tokens != nil {
		cfg.TTL = tokens.TTL()
	}
	return cookieBuilder{cfg: cfg}
}

func (b cookieBuilder) sameSite() http.SameSite {
	switch strings.ToLower(b.cfg.SameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// session cookie con el token. Max-Age = vida del token.
func (b cookieBuilder) session(token string) *http.Cookie {
	return &http.Cookie{
		Name:     b.cfg.Name,
		Value:    token,
		Path:     "/",
		Domain:   b.cfg.Domain,
		MaxAge:   int(b.cfg.TTL / time.Second),
		HttpOnly: true,
		Secure:   b.cfg.Secure,
		SameSite: b.sameSite(),
	}
}

// clear cookie vacía con Max-Age=0. net/http serializa MaxAge<0 como
// "Max-Age=0".
func (b cookieBuilder) clear() *http.Cookie {
	return &http.Cookie{
		Name:     b.cfg.Name,
		Value:    "",
		Path:     "/",
		Domain:   b.cfg.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   b.cfg.Secure,
		SameSite: b.sameSite(),
	}
}
