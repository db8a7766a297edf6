package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/dropDatabas3/ridepass/internal/observability/logger"
)

// MinSecretLen es el largo mínimo del secreto HMAC (256 bits).
const MinSecretLen = 32

// DefaultTTL es la vida de un token si la config no define otra.
const DefaultTTL = 24 * time.Hour

var (
	// ErrMalformedToken agrupa todo token que no pasaría Validate.
	ErrMalformedToken = errors.New("malformed token")
	ErrEmptyToken     = errors.New("empty token")
	ErrEmptySubject   = errors.New("empty subject")
	ErrWeakSecret     = fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLen)
)

// CodecConfig configura un Codec.
type CodecConfig struct {
	Secret []byte
	TTL    time.Duration
	// Issuer opcional. Si está seteado se emite y se exige en "iss".
	Issuer string
	// Method: HS256 (default), HS384 o HS512.
	Method string
	// Now permite inyectar el reloj (tests). Default time.Now.
	Now func() time.Time
}

// Codec emite y verifica tokens HMAC firmados con un único secreto del
// proceso. Es inmutable después de NewCodec y seguro para uso concurrente.
type Codec struct {
	key    []byte
	ttl    time.Duration
	iss    string
	method jwtv5.SigningMethod
	now    func() time.Time
	parser *jwtv5.Parser
	log    *zap.Logger
}

// NewCodec valida la configuración y arma el codec.
func NewCodec(cfg CodecConfig) (*Codec, error) {
	if len(cfg.Secret) < MinSecretLen {
		return nil, ErrWeakSecret
	}
	method, err := hmacMethod(cfg.Method)
	if err != nil {
		return nil, err
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	key := make([]byte, len(cfg.Secret))
	copy(key, cfg.Secret)

	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{method.Alg()}),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(now),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwtv5.WithIssuer(cfg.Issuer))
	}

	return &Codec{
		key:    key,
		ttl:    ttl,
		iss:    cfg.Issuer,
		method: method,
		now:    now,
		parser: jwtv5.NewParser(opts...),
		log:    logger.Named("jwt"),
	}, nil
}

func hmacMethod(name string) (jwtv5.SigningMethod, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "HS256":
		return jwtv5.SigningMethodHS256, nil
	case "HS384":
		return jwtv5.SigningMethodHS384, nil
	case "HS512":
		return jwtv5.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("unsupported jwt method %q", name)
	}
}

// TTL devuelve la vida configurada de los tokens.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue firma un token para subject (ya normalizado) con iat=now y
// exp=now+TTL. Devuelve también el exp efectivo (precisión de segundos).
func (c *Codec) Issue(subject string) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, ErrEmptySubject
	}
	now := c.now()
	claims := jwtv5.RegisteredClaims{
		Subject:   subject,
		Issuer:    c.iss,
		IssuedAt:  jwtv5.NewNumericDate(now),
		ExpiresAt: jwtv5.NewNumericDate(now.Add(c.ttl)),
	}
	signed, err := jwtv5.NewWithClaims(c.method, claims).SignedString(c.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Validate es total: cualquier falla (vacío, formato, firma, algoritmo,
// exp ausente o vencido) devuelve false. El motivo queda en el log.
func (c *Codec) Validate(token string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("token validation panicked", logger.Any("panic", r))
			ok = false
		}
	}()
	if _, err := c.parse(token); err != nil {
		c.logRejection(token, err)
		return false
	}
	return true
}

// SubjectOf devuelve el "sub" de un token válido.
func (c *Codec) SubjectOf(token string) (string, error) {
	claims, err := c.parse(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	return claims.Subject, nil
}

// ExpiryOf devuelve el "exp" de un token válido.
func (c *Codec) ExpiryOf(token string) (time.Time, error) {
	claims, err := c.parse(token)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	return claims.ExpiresAt.Time, nil
}

func (c *Codec) parse(token string) (*jwtv5.RegisteredClaims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrEmptyToken
	}
	claims := &jwtv5.RegisteredClaims{}
	_, err := c.parser.ParseWithClaims(token, claims, func(*jwtv5.Token) (any, error) {
		return c.key, nil
	})
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, ErrEmptySubject
	}
	return claims, nil
}

func (c *Codec) logRejection(token string, err error) {
	reason := RejectionReason(err)
	l := c.log.With(logger.Reason(reason), logger.TokenFingerprint(token))
	switch reason {
	case "expired", "empty":
		l.Debug("token rejected")
	default:
		l.Warn("token rejected", logger.Err(err))
	}
}

// RejectionReason traduce un error de parseo a una etiqueta estable para
// logs y métricas.
func RejectionReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyToken):
		return "empty"
	case errors.Is(err, jwtv5.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwtv5.ErrTokenRequiredClaimMissing):
		return "missing_claim"
	case errors.Is(err, ErrEmptySubject):
		return "missing_subject"
	case errors.Is(err, jwtv5.ErrTokenSignatureInvalid):
		return "bad_signature"
	case errors.Is(err, jwtv5.ErrTokenInvalidIssuer):
		return "bad_issuer"
	case errors.Is(err, jwtv5.ErrTokenNotValidYet):
		return "not_yet_valid"
	case errors.Is(err, jwtv5.ErrTokenMalformed):
		return "malformed"
	default:
		return "invalid"
	}
}
