package pg

import (
	"context"
	"os"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/ridepass/internal/domain/repository"
	"github.com/dropDatabas3/ridepass/migrations/postgres"
)

func TestParseMigrations_OrdersAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"m/0002_second.sql": {Data: []byte("SELECT 2;")},
		"m/0001_first.sql":  {Data: []byte("SELECT 1;")},
		"m/README.md":       {Data: []byte("ignored")},
	}
	migs, err := NewMigrator(fsys, "m").ParseMigrations()
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, 1, migs[0].Version)
	assert.Equal(t, "first", migs[0].Name)
	assert.Equal(t, 2, migs[1].Version)
}

func TestParseMigrations_DuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"0001_a.sql": {Data: []byte("SELECT 1;")},
		"0001_b.sql": {Data: []byte("SELECT 1;")},
	}
	_, err := NewMigrator(fsys, ".").ParseMigrations()
	require.Error(t, err)
}

func TestEmbeddedMigrationsParse(t *testing.T) {
	migs, err := NewMigrator(postgres.FS, postgres.Dir).ParseMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Equal(t, 1, migs[0].Version)
}

// Requiere una base real: RIDEPASS_TEST_PG_DSN=postgres://...
func TestCredentialRepo_Postgres(t *testing.T) {
	dsn := os.Getenv("RIDEPASS_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("RIDEPASS_TEST_PG_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := Connect(ctx, PoolConfig{DSN: dsn})
	require.NoError(t, err)
	defer pool.Close()

	_, err = NewMigrator(postgres.FS, postgres.Dir).Run(ctx, pool)
	require.NoError(t, err)

	repo := NewDriverRepo(pool)
	ident := "pgtest-" + time.Now().Format("150405.000000") + "@x.com"
	t.Cleanup(func() { _ = repo.Delete(context.Background(), ident) })

	c, err := repo.Create(ctx, repository.CreateCredentialInput{Identifier: ident, PasswordHash: "h", Role: "ROLE_CAPTAIN"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, repository.CreateCredentialInput{Identifier: ident, PasswordHash: "h"})
	require.ErrorIs(t, err, repository.ErrConflict)

	got, err := repo.FindByIdentifier(ctx, ident)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	// el mismo identificador no existe en la tabla de riders
	_, err = NewRiderRepo(pool).FindByIdentifier(ctx, ident)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, ident))
	require.ErrorIs(t, repo.Delete(ctx, ident), repository.ErrNotFound)
}
