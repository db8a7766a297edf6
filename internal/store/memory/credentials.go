// Package memory implementa CredentialRepository en memoria. Es el driver por
// defecto en dev y el que usan los tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/ridepass/internal/domain/repository"
)

// CredentialRepo guarda credenciales en un map protegido por RWMutex.
type CredentialRepo struct {
	mu   sync.RWMutex
	byID map[string]repository.Credential
	now  func() time.Time
}

var _ repository.CredentialRepository = (*CredentialRepo)(nil)

func NewCredentialRepo() *CredentialRepo {
	return &CredentialRepo{
		byID: make(map[string]repository.Credential),
		now:  time.Now,
	}
}

func (r *CredentialRepo) FindByIdentifier(_ context.Context, identifier string) (*repository.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[identifier]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *CredentialRepo) ExistsByIdentifier(_ context.Context, identifier string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[identifier]
	return ok, nil
}

func (r *CredentialRepo) Create(_ context.Context, in repository.CreateCredentialInput) (*repository.Credential, error) {
	if in.Identifier == "" || in.PasswordHash == "" {
		return nil, repository.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[in.Identifier]; ok {
		return nil, repository.ErrConflict
	}
	now := r.now().UTC()
	c := repository.Credential{
		ID:           uuid.New(),
		Identifier:   in.Identifier,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.byID[in.Identifier] = c
	return &c, nil
}

func (r *CredentialRepo) List(_ context.Context, filter repository.ListFilter) ([]repository.Credential, error) {
	filter = filter.Normalize()
	r.mu.RLock()
	out := make([]repository.Credential, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Identifier < out[j].Identifier
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if filter.Offset >= len(out) {
		return []repository.Credential{}, nil
	}
	out = out[filter.Offset:]
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *CredentialRepo) Delete(_ context.Context, identifier string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[identifier]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, identifier)
	return nil
}
