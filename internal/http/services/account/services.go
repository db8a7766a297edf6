// Package account contiene el alta de riders y drivers, la consulta del
// perfil propio y la administración de riders.
package account

import (
	"errors"

	"github.com/dropDatabas3/ridepass/internal/domain/repository"
	dto "github.com/dropDatabas3/ridepass/internal/http/dto/account"
	"github.com/dropDatabas3/ridepass/internal/principal"
	"github.com/dropDatabas3/ridepass/internal/security/password"
)

// Deps contiene las dependencias del service de cuentas.
type Deps struct {
	Riders  repository.CredentialRepository
	Drivers repository.CredentialRepository
	Hasher  password.Hasher
	Policy  password.Policy
	// Blacklist opcional de contraseñas comunes.
	Blacklist *password.Blacklist
}

// Service errors
var (
	ErrAlreadyExists = errors.New("account already exists")
	ErrNotFound      = errors.New("account not found")
	ErrMarkup        = errors.New("potentially malicious content")
	ErrUnknownKind   = errors.New("unknown principal kind")
)

// ValidationError input inválido. Message es apto para el cliente.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

func invalid(field, msg string) error { return &ValidationError{Field: field, Message: msg} }

func toProfile(kind principal.Kind, c *repository.Credential) dto.Profile {
	return dto.Profile{
		ID:        c.ID.String(),
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Identifier,
		Role:      c.Role,
		Kind:      kind.String(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
