package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Credential es el registro persistido de un rider o un driver.
type Credential struct {
	ID           uuid.UUID
	Identifier   string // email normalizado, único dentro del store
	PasswordHash string
	Role         string // ROLE_USER, ROLE_ADMIN, ROLE_CAPTAIN
	FirstName    string
	LastName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateCredentialInput contiene los datos para dar de alta una credencial.
type CreateCredentialInput struct {
	Identifier   string
	PasswordHash string
	Role         string
	FirstName    string
	LastName     string
}

// ListFilter opciones de paginado.
type ListFilter struct {
	Limit  int // Default 50, max 200
	Offset int
}

// Normalize aplica defaults y topes.
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 200 {
		f.Limit = 200
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// CredentialRepository define operaciones sobre un store de credenciales.
type CredentialRepository interface {
	// FindByIdentifier retorna ErrNotFound si no existe.
	FindByIdentifier(ctx context.Context, identifier string) (*Credential, error)

	ExistsByIdentifier(ctx context.Context, identifier string) (bool, error)

	// Create asigna ID y timestamps. Retorna ErrConflict si el identificador
	// ya existe en este store.
	Create(ctx context.Context, in CreateCredentialInput) (*Credential, error)

	// List ordena por fecha de alta.
	List(ctx context.Context, filter ListFilter) ([]Credential, error)

	// Delete retorna ErrNotFound si no existe.
	Delete(ctx context.Context, identifier string) error
}
