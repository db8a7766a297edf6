package logger

import (
	"crypto/sha256"
	"encoding/hex"

	"go.uber.org/zap"
)

// Field alias para no importar zap en cada paquete que arma campos.
type Field = zap.Field

// ---- HTTP ----

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }
func UserAgent(v string) zap.Field { return zap.String("user_agent", v) }

// ---- Dominio ----

// Subject es el identificador normalizado del principal (email).
func Subject(v string) zap.Field { return zap.String("subject", v) }

// EntityKind es RIDER o DRIVER.
func EntityKind(v string) zap.Field { return zap.String("entity_kind", v) }

func EntityID(v string) zap.Field { return zap.String("entity_id", v) }

// Outcome resume el resultado de una operación de auth (ok, revoked, invalid...).
func Outcome(v string) zap.Field { return zap.String("outcome", v) }

// Reason explica un rechazo sin exponer material sensible.
func Reason(v string) zap.Field { return zap.String("reason", v) }

// TokenFingerprint loguea los primeros 12 hex del sha256 del token, nunca
// el token.
func TokenFingerprint(token string) zap.Field {
	if token == "" {
		return zap.Skip()
	}
	sum := sha256.Sum256([]byte(token))
	return zap.String("token_fp", hex.EncodeToString(sum[:])[:12])
}

// ---- Sistema ----

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }

// Layer: handler, service, repository, middleware.
func Layer(v string) zap.Field { return zap.String("layer", v) }
func Err(err error) zap.Field  { return zap.Error(err) }
func Count(v int) zap.Field    { return zap.Int("count", v) }

func String(key, v string) zap.Field    { return zap.String(key, v) }
func Int(key string, v int) zap.Field   { return zap.Int(key, v) }
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
func Any(key string, v any) zap.Field   { return zap.Any(key, v) }
