package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/ridepass/internal/audit"
	"github.com/dropDatabas3/ridepass/internal/domain/repository"
	dto "github.com/dropDatabas3/ridepass/internal/http/dto/account"
	"github.com/dropDatabas3/ridepass/internal/observability/logger"
	"github.com/dropDatabas3/ridepass/internal/principal"
	"github.com/dropDatabas3/ridepass/internal/security/password"
	"github.com/dropDatabas3/ridepass/internal/validation"
)

// AccountService opera sobre los stores de credenciales.
type AccountService interface {
	RegisterRider(ctx context.Context, req dto.RegisterRiderRequest) (*dto.Profile, error)
	RegisterDriver(ctx context.Context, req dto.RegisterDriverRequest) (*dto.Profile, error)
	Profile(ctx context.Context, kind principal.Kind, identifier string) (*dto.Profile, error)
	ListRiders(ctx context.Context, filter repository.ListFilter) ([]dto.Profile, error)
	DeleteRider(ctx context.Context, identifier string) error
}

type accountService struct {
	deps Deps
}

// NewAccountService crea el AccountService.
func NewAccountService(deps Deps) AccountService {
	if deps.Policy.MinLength == 0 && deps.Policy.MaxLength == 0 {
		deps.Policy = password.DefaultPolicy
	}
	return &accountService{deps: deps}
}

type registration struct {
	kind      principal.Kind
	email     string
	password  string
	firstName string
	lastName  string
	role      principal.Role
}

func (s *accountService) RegisterRider(ctx context.Context, req dto.RegisterRiderRequest) (*dto.Profile, error) {
	// El registro es anónimo: el rol pedido se ignora. ROLE_ADMIN solo se
	// asigna vía bootstrap o ridepassctl admin create.
	if r := strings.TrimSpace(req.Role); r != "" && !strings.EqualFold(r, "user") {
		logger.From(ctx).Warn("requested role ignored on self-registration",
			logger.Layer("service"),
			logger.Component("account.register"),
			logger.String("requested_role", r))
	}
	return s.register(ctx, registration{
		kind:      principal.KindRider,
		email:     req.Email,
		password:  req.Password,
		firstName: req.FirstName,
		lastName:  req.LastName,
		role:      principal.RoleRider,
	})
}

func (s *accountService) RegisterDriver(ctx context.Context, req dto.RegisterDriverRequest) (*dto.Profile, error) {
	return s.register(ctx, registration{
		kind:      principal.KindDriver,
		email:     req.Email,
		password:  req.Password,
		firstName: req.FullName.FirstName,
		lastName:  req.FullName.LastName,
		role:      principal.RoleDriver,
	})
}

func (s *accountService) register(ctx context.Context, in registration) (*dto.Profile, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("account.register"),
		logger.EntityKind(in.kind.String()),
	)

	for _, v := range []string{in.email, in.firstName, in.lastName} {
		if validation.HasMarkup(v) {
			return nil, ErrMarkup
		}
	}

	email := principal.NormalizeIdentifier(in.email)
	if email == "" {
		return nil, invalid("email", "Email is required")
	}
	if !validation.ValidEmail(email) {
		return nil, invalid("email", "Email must be valid")
	}
	if !validation.ValidName(in.firstName) {
		return nil, invalid("first_name", "First name is required")
	}
	if strings.TrimSpace(in.lastName) != "" && !validation.ValidName(in.lastName) {
		return nil, invalid("last_name", "Last name is invalid")
	}
	if in.password == "" {
		return nil, invalid("password", "Password is required")
	}
	if ok, reasons := s.deps.Policy.Validate(in.password); !ok {
		return nil, invalid("password", password.Describe(reasons))
	}
	if s.deps.Blacklist != nil && s.deps.Blacklist.Contains(in.password) {
		return nil, invalid("password", "password is too common")
	}

	own, other := s.repos(in.kind)
	exists, err := own.ExistsByIdentifier(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("register: exists: %w", err)
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	// La unicidad es por store. Un mismo email en ambos stores se permite y
	// el delegator resuelve siempre al rider.
	if found, err := other.ExistsByIdentifier(ctx, email); err == nil && found {
		log.Warn("identifier already registered in the other store, rider takes priority",
			logger.Subject(email))
	}

	hash, err := s.deps.Hasher.Hash(in.password)
	if err != nil {
		return nil, fmt.Errorf("register: hash: %w", err)
	}

	c, err := own.Create(ctx, repository.CreateCredentialInput{
		Identifier:   email,
		PasswordHash: hash,
		Role:         in.role.String(),
		FirstName:    strings.TrimSpace(in.firstName),
		LastName:     strings.TrimSpace(in.lastName),
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("register: create: %w", err)
	}

	audit.Log(ctx, audit.AccountCreated,
		logger.Subject(email),
		logger.EntityKind(in.kind.String()),
		logger.EntityID(c.ID.String()),
		logger.String("role", c.Role))
	p := toProfile(in.kind, c)
	return &p, nil
}

func (s *accountService) repos(kind principal.Kind) (own, other repository.CredentialRepository) {
	if kind == principal.KindDriver {
		return s.deps.Drivers, s.deps.Riders
	}
	return s.deps.Riders, s.deps.Drivers
}
