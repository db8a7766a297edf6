package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dropDatabas3/ridepass/internal/audit"
	"github.com/dropDatabas3/ridepass/internal/metrics"
	"github.com/dropDatabas3/ridepass/internal/observability/logger"
	"github.com/dropDatabas3/ridepass/internal/principal"
	"github.com/dropDatabas3/ridepass/internal/security/password"
)

// LoginService verifica credenciales y emite el token de sesión.
type LoginService interface {
	Login(ctx context.Context, kind principal.Kind, identifier, secret string) (*LoginResult, error)
	BuildSessionCookie(token string) *http.Cookie
}

// LoginResult contiene el resultado de un login exitoso.
type LoginResult struct {
	Principal *principal.Principal
	Token     string
	ExpiresAt time.Time
}

// LoginDeps contiene las dependencias del login.
type LoginDeps struct {
	Resolvers map[principal.Kind]principal.Resolver
	Tokens    TokenIssuer
	Hasher    password.Hasher
	Cookies   cookieBuilder
}

// Service errors
var (
	// ErrInvalidCredentials es el único error de un login rechazado, exista o
	// no el identificador.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownKind        = errors.New("unknown principal kind")
)

// dummySecret se hashea al construir el service. Un identificador inexistente
// se compara contra ese hash para que el tiempo de respuesta no delate si la
// cuenta existe.
const dummySecret = "ridepass-timing-equalizer"

type loginService struct {
	resolvers map[principal.Kind]principal.Resolver
	tokens    TokenIssuer
	hasher    password.Hasher
	cookies   cookieBuilder
	dummyHash string
}

// NewLoginService crea el LoginService.
func NewLoginService(deps LoginDeps) LoginService {
	s := &loginService{
		resolvers: deps.Resolvers,
		tokens:    deps.Tokens,
		hasher:    deps.Hasher,
		cookies:   deps.Cookies,
	}
	if s.cookies.cfg.Name == "" {
		s.cookies = newCookieBuilder(s.cookies.cfg, deps.Tokens)
	}
	if h, err := deps.Hasher.Hash(dummySecret); err == nil {
		s.dummyHash = h
	} else {
		logger.L().Warn("login: could not build dummy hash", logger.Err(err))
	}
	return s
}

func (s *loginService) Login(ctx context.Context, kind principal.Kind, identifier, secret string) (*LoginResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("session.login"),
		logger.Op("Login"),
		logger.EntityKind(kind.String()),
	)

	resolver, ok := s.resolvers[kind]
	if !ok || resolver == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	ident := principal.NormalizeIdentifier(identifier)
	if ident == "" || secret == "" {
		s.hasher.Verify(secret, s.dummyHash)
		s.reject(ctx, kind, ident, "missing_credentials")
		return nil, ErrInvalidCredentials
	}

	p, err := resolver.Resolve(ctx, ident)
	switch {
	case errors.Is(err, principal.ErrNotFound):
		s.hasher.Verify(secret, s.dummyHash)
		s.reject(ctx, kind, ident, "unknown_identifier")
		return nil, ErrInvalidCredentials
	case err != nil:
		s.record(kind, "error")
		return nil, fmt.Errorf("login: resolve: %w", err)
	}

	if !s.hasher.Verify(secret, p.PasswordHash) {
		s.reject(ctx, kind, ident, "bad_password")
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(p.Identifier)
	if err != nil {
		s.record(kind, "error")
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	s.record(kind, "success")
	log.Debug("token issued", logger.Subject(p.Identifier))
	audit.Log(ctx, audit.LoginSucceeded,
		logger.Subject(p.Identifier),
		logger.EntityKind(kind.String()),
		logger.EntityID(p.EntityID.String()))
	return &LoginResult{Principal: p, Token: token, ExpiresAt: exp}, nil
}

func (s *loginService) BuildSessionCookie(token string) *http.Cookie {
	return s.cookies.session(token)
}

// reject cuenta el intento y lo audita. El motivo solo va al log.
func (s *loginService) reject(ctx context.Context, kind principal.Kind, ident, reason string) {
	s.record(kind, "invalid")
	audit.Log(ctx, audit.LoginFailed,
		logger.Subject(ident),
		logger.EntityKind(kind.String()),
		logger.Reason(reason))
}

func (s *loginService) record(kind principal.Kind, result string) {
	metrics.LoginAttempts.WithLabelValues(kind.String(), result).Inc()
}
