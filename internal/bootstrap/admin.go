// Package bootstrap crea el primer rider con ROLE_ADMIN cuando el store no
// tiene ninguno.
package bootstrap

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dropDatabas3/ridepass/internal/audit"
	"github.com/dropDatabas3/ridepass/internal/domain/repository"
	"github.com/dropDatabas3/ridepass/internal/observability/logger"
	"github.com/dropDatabas3/ridepass/internal/principal"
	"github.com/dropDatabas3/ridepass/internal/security/password"
	"github.com/dropDatabas3/ridepass/internal/validation"
)

// AdminBootstrapConfig holds configuration for admin bootstrap
type AdminBootstrapConfig struct {
	Riders repository.CredentialRepository
	Hasher password.Hasher
	Policy password.Policy

	SkipPrompt    bool   // sin prompt: requiere AdminEmail y AdminPassword
	AdminEmail    string // Pre-filled email (optional)
	AdminPassword string // Pre-filled password (optional)

	// In/Out para el prompt. Default os.Stdin / os.Stdout.
	In  io.Reader
	Out io.Writer
}

var ErrMissingCredentials = errors.New("bootstrap: admin email and password are required")

// CheckAndCreateAdmin crea el admin si no existe ninguno. Devuelve true si
// creó uno.
func CheckAndCreateAdmin(ctx context.Context, cfg AdminBootstrapConfig) (bool, error) {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.In == nil {
		cfg.In = os.Stdin
	}

	hasAdmin, err := HasAdmin(ctx, cfg.Riders)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing admins: %w", err)
	}
	if hasAdmin {
		return false, nil
	}

	email, pwd := cfg.AdminEmail, cfg.AdminPassword
	if email == "" || pwd == "" {
		if cfg.SkipPrompt {
			return false, ErrMissingCredentials
		}
		fmt.Fprintln(cfg.Out, "No admin users found. Let's create the first one.")
		email, pwd, err = promptAdminCredentials(cfg.In, cfg.Out)
		if err != nil {
			return false, fmt.Errorf("failed to prompt admin credentials: %w", err)
		}
	}

	if err := createAdmin(ctx, cfg, email, pwd); err != nil {
		return false, err
	}
	return true, nil
}

// HasAdmin recorre el store de riders buscando un ROLE_ADMIN.
func HasAdmin(ctx context.Context, riders repository.CredentialRepository) (bool, error) {
	filter := repository.ListFilter{Limit: 200}
	for {
		page, err := riders.List(ctx, filter)
		if err != nil {
			return false, err
		}
		for _, c := range page {
			if r, err := principal.ParseRole(c.Role); err == nil && r == principal.RoleAdmin {
				return true, nil
			}
		}
		if len(page) < filter.Limit {
			return false, nil
		}
		filter.Offset += len(page)
	}
}

func createAdmin(ctx context.Context, cfg AdminBootstrapConfig, email, plain string) error {
	email = principal.NormalizeIdentifier(email)
	if !validation.ValidEmail(email) {
		return fmt.Errorf("bootstrap: invalid email %q", email)
	}
	policy := cfg.Policy
	if policy.MinLength == 0 {
		policy = password.DefaultPolicy
	}
	if ok, reasons := policy.Validate(plain); !ok {
		return fmt.Errorf("bootstrap: %s", password.Describe(reasons))
	}

	hash, err := cfg.Hasher.Hash(plain)
	if err != nil {
		return fmt.Errorf("bootstrap: hash: %w", err)
	}
	c, err := cfg.Riders.Create(ctx, repository.CreateCredentialInput{
		Identifier:   email,
		PasswordHash: hash,
		Role:         principal.RoleAdmin.String(),
		FirstName:    "Admin",
	})
	if errors.Is(err, repository.ErrConflict) {
		return fmt.Errorf("bootstrap: %s already exists as a non-admin rider", email)
	}
	if err != nil {
		return err
	}
	audit.Log(ctx, audit.AdminBootstrapped, logger.Subject(email), logger.EntityID(c.ID.String()))
	return nil
}

// promptAdminCredentials pide email y password. Si in es una terminal la
// contraseña se lee sin eco.
func promptAdminCredentials(in io.Reader, out io.Writer) (email, pwd string, err error) {
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "Admin Email: ")
	email, err = reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && email != "") {
		return "", "", err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return "", "", fmt.Errorf("email cannot be empty")
	}

	readSecret := func(label string) (string, error) {
		fmt.Fprint(out, label)
		if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			b, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(out)
			return string(b), err
		}
		s, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && s != "") {
			return "", err
		}
		return strings.TrimRight(s, "\r\n"), nil
	}

	if pwd, err = readSecret("Admin Password: "); err != nil {
		return "", "", err
	}
	confirm, err := readSecret("Confirm Password: ")
	if err != nil {
		return "", "", err
	}
	if pwd != confirm {
		return "", "", fmt.Errorf("passwords do not match")
	}
	return email, pwd, nil
}
