package account

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/ridepass/internal/audit"
	"github.com/dropDatabas3/ridepass/internal/domain/repository"
	dto "github.com/dropDatabas3/ridepass/internal/http/dto/account"
	"github.com/dropDatabas3/ridepass/internal/observability/logger"
	"github.com/dropDatabas3/ridepass/internal/principal"
)

func (s *accountService) Profile(ctx context.Context, kind principal.Kind, identifier string) (*dto.Profile, error) {
	var repo repository.CredentialRepository
	switch kind {
	case principal.KindRider:
		repo = s.deps.Riders
	case principal.KindDriver:
		repo = s.deps.Drivers
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	c, err := repo.FindByIdentifier(ctx, principal.NormalizeIdentifier(identifier))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("profile: %w", err)
	}
	p := toProfile(kind, c)
	return &p, nil
}

func (s *accountService) ListRiders(ctx context.Context, filter repository.ListFilter) ([]dto.Profile, error) {
	list, err := s.deps.Riders.List(ctx, filter.Normalize())
	if err != nil {
		return nil, fmt.Errorf("list riders: %w", err)
	}
	out := make([]dto.Profile, 0, len(list))
	for i := range list {
		out = append(out, toProfile(principal.KindRider, &list[i]))
	}
	return out, nil
}

func (s *accountService) DeleteRider(ctx context.Context, identifier string) error {
	ident := principal.NormalizeIdentifier(identifier)
	if err := s.deps.Riders.Delete(ctx, ident); err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete rider: %w", err)
	}
	audit.Log(ctx, audit.AccountDeleted,
		logger.Subject(ident),
		logger.EntityKind(principal.KindRider.String()))
	return nil
}
