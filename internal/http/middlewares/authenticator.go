package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/dropDatabas3/ridepass/internal/http/errors"
	"github.com/dropDatabas3/ridepass/internal/metrics"
	"github.com/dropDatabas3/ridepass/internal/observability/logger"
	"github.com/dropDatabas3/ridepass/internal/principal"
	"github.com/dropDatabas3/ridepass/internal/revocation"
)

// DefaultCookieName es la cookie de sesión si la config no define otra.
const DefaultCookieName = "token"

// TokenVerifier es la parte del codec que usa el autenticador.
type TokenVerifier interface {
	Validate(token string) bool
	SubjectOf(token string) (string, error)
}

// AuthenticatorConfig dependencias del autenticador.
type AuthenticatorConfig struct {
	Tokens      TokenVerifier
	Revocations revocation.Store
	Resolver    principal.Resolver
	CookieName  string
	// PublicPaths se comparan contra r.URL.Path. Una entrada que termina en
	// "/*" matchea por prefijo; el resto es exacto.
	PublicPaths []string
}

// Authenticator corre una vez por request y, si el token es válido, adjunta
// la Identity al contexto. No decide autorización: un request sin identidad
// sigue su camino y son RequireIdentity/RequireRole los que cortan.
//
// Orden:
//  1. path público: pasa sin leer token
//  2. token de la cookie, si no del header Authorization: Bearer
//  3. token revocado: 401 y corta
//  4. Validate, SubjectOf y Resolve
//  5. éxito: Identity en el contexto; falla: sigue sin identidad
//
// Un panic en 2..5 se recupera y el request sigue sin identidad.
type Authenticator struct {
	tokens      TokenVerifier
	revocations revocation.Store
	resolver    principal.Resolver
	cookieName  string
	exact       map[string]struct{}
	prefixes    []string
}

func NewAuthenticator(cfg AuthenticatorConfig) *Authenticator {
	a := &Authenticator{
		tokens:      cfg.Tokens,
		revocations: cfg.Revocations,
		resolver:    cfg.Resolver,
		cookieName:  cfg.CookieName,
		exact:       make(map[string]struct{}, len(cfg.PublicPaths)),
	}
	if a.cookieName == "" {
		a.cookieName = DefaultCookieName
	}
	for _, p := range cfg.PublicPaths {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
		case strings.HasSuffix(p, "/*"):
			a.prefixes = append(a.prefixes, strings.TrimSuffix(p, "*"))
		default:
			a.exact[p] = struct{}{}
		}
	}
	return a
}

// IsPublic indica si path está en la allow-list.
func (a *Authenticator) IsPublic(path string) bool {
	if _, ok := a.exact[path]; ok {
		return true
	}
	for _, pre := range a.prefixes {
		if strings.HasPrefix(path, pre) {
			return true
		}
	}
	return false
}

// CookieName nombre de la cookie de sesión que lee el autenticador.
func (a *Authenticator) CookieName() string { return a.cookieName }

// Middleware devuelve el decorador.
func (a *Authenticator) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a.IsPublic(r.URL.Path) {
				metrics.AuthOutcomes.WithLabelValues("public").Inc()
				next.ServeHTTP(w, r)
				return
			}

			ctx, revoked := a.authenticate(r)
			if revoked {
				errors.WriteError(w, r, errors.ErrTokenRevoked)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *Authenticator) authenticate(r *http.Request) (ctx context.Context, revoked bool) {
	ctx = r.Context()
	log := logger.From(ctx).With(logger.Component("authenticator"))

	outcome := "anonymous"
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("authentication panicked, continuing without identity", logger.Any("panic", rec))
			ctx, revoked, outcome = r.Context(), false, "panic"
		}
		metrics.AuthOutcomes.WithLabelValues(outcome).Inc()
	}()

	token := ExtractToken(r, a.cookieName)
	if token == "" {
		return ctx, false
	}

	if a.revocations.IsRevoked(ctx, token) {
		outcome = "revoked"
		log.Info("revoked token presented", logger.TokenFingerprint(token))
		return ctx, true
	}

	if strings.TrimSpace(token) == "" || !a.tokens.Validate(token) {
		outcome = "invalid"
		return ctx, false
	}

	subject, err := a.tokens.SubjectOf(token)
	if err != nil {
		outcome = "invalid"
		return ctx, false
	}

	p, err := a.resolver.Resolve(ctx, subject)
	if err != nil {
		outcome = "unresolved"
		log.Info("token subject not resolvable", logger.Subject(subject), logger.Err(err))
		return ctx, false
	}

	outcome = "authenticated"
	log.Debug("request authenticated",
		logger.Subject(p.Identifier),
		logger.EntityKind(p.Kind.String()),
		logger.EntityID(p.EntityID.String()))
	return WithIdentity(ctx, IdentityFromPrincipal(p, token)), false
}

// ExtractToken lee el token de la cookie (si tiene valor) o del header
// "Authorization: Bearer <token>". "" si no hay ninguno.
func ExtractToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	const prefix = "Bearer "
	if h := r.Header.Get("Authorization"); len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return h[len(prefix):]
	}
	return ""
}
