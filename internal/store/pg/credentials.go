package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/ridepass/internal/domain/repository"
)

const (
	TableRider  = "rider"
	TableDriver = "driver"
)

// credentialRepo implementa CredentialRepository sobre una tabla.
type credentialRepo struct {
	pool  *pgxpool.Pool
	table string
}

// NewRiderRepo retorna el store de riders.
func NewRiderRepo(pool *pgxpool.Pool) repository.CredentialRepository {
	return &credentialRepo{pool: pool, table: TableRider}
}

// NewDriverRepo retorna el store de drivers.
func NewDriverRepo(pool *pgxpool.Pool) repository.CredentialRepository {
	return &credentialRepo{pool: pool, table: TableDriver}
}

// table es siempre una de las constantes de arriba, nunca input de usuario.
func (r *credentialRepo) q(format string) string {
	return fmt.Sprintf(format, r.table)
}

const credentialColumns = `id, identifier, password_hash, role, first_name, last_name, created_at, updated_at`

func scanCredential(row pgx.Row) (*repository.Credential, error) {
	var c repository.Credential
	err := row.Scan(&c.ID, &c.Identifier, &c.PasswordHash, &c.Role,
		&c.FirstName, &c.LastName, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *credentialRepo) FindByIdentifier(ctx context.Context, identifier string) (*repository.Credential, error) {
	row := r.pool.QueryRow(ctx, r.q(`SELECT `+credentialColumns+` FROM %s WHERE identifier = $1`), identifier)
	c, err := scanCredential(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: find %s by identifier: %w", r.table, err)
	}
	return c, nil
}

func (r *credentialRepo) ExistsByIdentifier(ctx context.Context, identifier string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, r.q(`SELECT EXISTS (SELECT 1 FROM %s WHERE identifier = $1)`), identifier).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pg: exists %s: %w", r.table, err)
	}
	return exists, nil
}

func (r *credentialRepo) Create(ctx context.Context, in repository.CreateCredentialInput) (*repository.Credential, error) {
	if in.Identifier == "" || in.PasswordHash == "" {
		return nil, repository.ErrInvalidInput
	}
	row := r.pool.QueryRow(ctx, r.q(`
		INSERT INTO %s (id, identifier, password_hash, role, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+credentialColumns),
		uuid.New(), in.Identifier, in.PasswordHash, in.Role, in.FirstName, in.LastName,
	)
	c, err := scanCredential(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, repository.ErrConflict
		}
		return nil, fmt.Errorf("pg: create %s: %w", r.table, err)
	}
	return c, nil
}

func (r *credentialRepo) List(ctx context.Context, filter repository.ListFilter) ([]repository.Credential, error) {
	filter = filter.Normalize()
	rows, err := r.pool.Query(ctx, r.q(`SELECT `+credentialColumns+` FROM %s ORDER BY created_at, identifier LIMIT $1 OFFSET $2`),
		filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("pg: list %s: %w", r.table, err)
	}
	defer rows.Close()

	out := make([]repository.Credential, 0, filter.Limit)
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("pg: scan %s: %w", r.table, err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pg: list %s: %w", r.table, err)
	}
	return out, nil
}

func (r *credentialRepo) Delete(ctx context.Context, identifier string) error {
	tag, err := r.pool.Exec(ctx, r.q(`DELETE FROM %s WHERE identifier = $1`), identifier)
	if err != nil {
		return fmt.Errorf("pg: delete %s: %w", r.table, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
