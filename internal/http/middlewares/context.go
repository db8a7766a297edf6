package middlewares

import (
	"context"

	"github.com/google/uuid"

	"github.com/dropDatabas3/ridepass/internal/principal"
)

type ctxKey string

const (
	ctxIdentityKey  ctxKey = "identity"
	ctxRequestIDKey ctxKey = "request_id"
)

// Identity es el principal autenticado del request. No incluye el hash de
// la contraseña.
type Identity struct {
	Subject  string
	Roles    []principal.Role
	EntityID uuid.UUID
	Kind     principal.Kind
	// Token es el token con el que se autenticó el request (lo usa logout).
	Token string
}

// HasRole indica si la identidad tiene al menos uno de los roles.
func (i *Identity) HasRole(roles ...principal.Role) bool {
	if i == nil {
		return false
	}
	for _, have := range i.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// IdentityFromPrincipal copia los datos públicos del principal.
func IdentityFromPrincipal(p *principal.Principal, token string) *Identity {
	roles := make([]principal.Role, len(p.Roles))
	copy(roles, p.Roles)
	return &Identity{
		Subject:  p.Identifier,
		Roles:    roles,
		EntityID: p.EntityID,
		Kind:     p.Kind,
		Token:    token,
	}
}

// WithIdentity inyecta la identidad en el contexto.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxIdentityKey, id)
}

// CurrentIdentity obtiene la identidad del request, si la hay.
func CurrentIdentity(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ctxIdentityKey).(*Identity)
	return id, ok && id != nil
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetRequestID obtiene el request ID del contexto, o "".
func GetRequestID(ctx context.Context) string {
	s, _ := ctx.Value(ctxRequestIDKey).(string)
	return s
}
