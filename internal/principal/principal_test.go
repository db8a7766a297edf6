package principal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/ridepass/internal/domain/repository"
	"github.com/dropDatabas3/ridepass/internal/store/memory"
)

func seed(t *testing.T, repo repository.CredentialRepository, ident, role string) *repository.Credential {
	t.Helper()
	c, err := repo.Create(context.Background(), repository.CreateCredentialInput{
		Identifier: ident, PasswordHash: "hash-" + role, Role: role,
	})
	require.NoError(t, err)
	return c
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" role_captain ")
	require.NoError(t, err)
	assert.Equal(t, RoleDriver, r)

	_, err = ParseRole("ROLE_ROOT")
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestNormalizeIdentifier(t *testing.T) {
	assert.Equal(t, "alice@x.com", NormalizeIdentifier("  Alice@X.com "))
	assert.Equal(t, "alice@x.com", NormalizeIdentifier(NormalizeIdentifier("ALICE@x.com")))
}

func TestStoreResolver(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCredentialRepo()
	rec := seed(t, repo, "alice@x.com", "ROLE_USER")
	r := NewStoreResolver(KindRider, repo)

	p, err := r.Resolve(ctx, " ALICE@x.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", p.Identifier)
	assert.Equal(t, []Role{RoleRider}, p.Roles)
	assert.Equal(t, rec.ID, p.EntityID)
	assert.Equal(t, KindRider, p.Kind)

	_, err = r.Resolve(ctx, "nobody@x.com")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = r.Resolve(ctx, "   ")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreResolver_UnknownRoleIsNotNotFound(t *testing.T) {
	repo := memory.NewCredentialRepo()
	seed(t, repo, "weird@x.com", "ROLE_GOD")

	_, err := NewStoreResolver(KindRider, repo).Resolve(context.Background(), "weird@x.com")
	require.ErrorIs(t, err, ErrUnknownRole)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestDelegator_Priority(t *testing.T) {
	ctx := context.Background()
	riders, drivers := memory.NewCredentialRepo(), memory.NewCredentialRepo()
	seed(t, riders, "both@x.com", "ROLE_USER")
	seed(t, drivers, "both@x.com", "ROLE_CAPTAIN")
	seed(t, drivers, "driver@x.com", "ROLE_CAPTAIN")

	d := NewDelegator(NewStoreResolver(KindRider, riders), NewStoreResolver(KindDriver, drivers))

	p, err := d.Resolve(ctx, "both@x.com")
	require.NoError(t, err)
	assert.Equal(t, KindRider, p.Kind)
	assert.True(t, p.HasRole(RoleRider))
	assert.False(t, p.HasRole(RoleDriver))

	p, err = d.Resolve(ctx, "driver@x.com")
	require.NoError(t, err)
	assert.Equal(t, KindDriver, p.Kind)

	_, err = d.Resolve(ctx, "ghost@x.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelegator_EmptyChain(t *testing.T) {
	d := NewDelegator()
	_, err := d.Resolve(context.Background(), "a@x.com")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, d.Len())
}

type failingResolver struct{ err error }

func (f failingResolver) Resolve(context.Context, string) (*Principal, error) { return nil, f.err }

func TestDelegator_HardErrorStopsChain(t *testing.T) {
	drivers := memory.NewCredentialRepo()
	seed(t, drivers, "a@x.com", "ROLE_CAPTAIN")
	boom := errors.New("store down")

	d := NewDelegator(failingResolver{err: boom}, NewStoreResolver(KindDriver, drivers))
	_, err := d.Resolve(context.Background(), "a@x.com")
	require.ErrorIs(t, err, boom)
}
