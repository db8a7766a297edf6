// Package principal resuelve un identificador (email) al principal que lo
// posee, buscando en los stores de riders y drivers.
//
// Un Principal se construye en cada lookup y nunca se cachea: un cambio de
// rol o una baja en el store se ve en el request siguiente.
package principal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Role es el conjunto cerrado de autoridades que se otorgan.
type Role string

const (
	RoleRider  Role = "ROLE_USER"
	RoleDriver Role = "ROLE_CAPTAIN"
	RoleAdmin  Role = "ROLE_ADMIN"
)

// ErrUnknownRole el store devolvió un rol fuera del conjunto conocido.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole convierte el string persistido a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleRider, RoleDriver, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

func (r Role) String() string { return string(r) }

// Kind distingue el store de origen.
type Kind string

const (
	KindRider  Kind = "RIDER"
	KindDriver Kind = "DRIVER"
)

func (k Kind) String() string { return string(k) }

// Principal es el resultado de una resolución. Roles nunca está vacío.
type Principal struct {
	Identifier   string
	PasswordHash string
	Roles        []Role
	EntityID     uuid.UUID
	Kind         Kind
}

// HasRole indica si el principal tiene al menos uno de los roles.
func (p *Principal) HasRole(roles ...Role) bool {
	if p == nil {
		return false
	}
	for _, have := range p.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// NormalizeIdentifier pasa a minúsculas y recorta espacios. Es idempotente.
func NormalizeIdentifier(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}
