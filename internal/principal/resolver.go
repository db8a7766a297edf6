package principal

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/ridepass/internal/domain/repository"
)

// ErrNotFound el identificador no existe en ningún store consultado.
var ErrNotFound = errors.New("principal not found")

// Resolver resuelve un identificador a un Principal.
type Resolver interface {
	// Resolve retorna un error que cumple errors.Is(err, ErrNotFound) si el
	// identificador no existe.
	Resolve(ctx context.Context, identifier string) (*Principal, error)
}

// StoreResolver resuelve contra un único store de credenciales.
type StoreResolver struct {
	Kind Kind
	Repo repository.CredentialRepository
}

var _ Resolver = (*StoreResolver)(nil)

func NewStoreResolver(kind Kind, repo repository.CredentialRepository) *StoreResolver {
	return &StoreResolver{Kind: kind, Repo: repo}
}

func (r *StoreResolver) Resolve(ctx context.Context, identifier string) (*Principal, error) {
	id := NormalizeIdentifier(identifier)
	if id == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrNotFound)
	}
	rec, err := r.Repo.FindByIdentifier(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, r.Kind, id)
		}
		return nil, fmt.Errorf("resolve %s: %w", r.Kind, err)
	}

	role, err := ParseRole(rec.Role)
	if err != nil {
		return nil, fmt.Errorf("resolve %s %s: %w", r.Kind, id, err)
	}
	return &Principal{
		Identifier:   rec.Identifier,
		PasswordHash: rec.PasswordHash,
		Roles:        []Role{role},
		EntityID:     rec.ID,
		Kind:         r.Kind,
	}, nil
}
