package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/ridepass/internal/domain/repository"
)

func TestCredentialRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	r := NewCredentialRepo()

	_, err := r.FindByIdentifier(ctx, "a@x.com")
	require.ErrorIs(t, err, repository.ErrNotFound)

	c, err := r.Create(ctx, repository.CreateCredentialInput{
		Identifier: "a@x.com", PasswordHash: "h", Role: "ROLE_USER", FirstName: "A",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, c.ID)

	_, err = r.Create(ctx, repository.CreateCredentialInput{Identifier: "a@x.com", PasswordHash: "h2"})
	require.ErrorIs(t, err, repository.ErrConflict)

	got, err := r.FindByIdentifier(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, "h", got.PasswordHash)

	ok, err := r.ExistsByIdentifier(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, r.Delete(ctx, "a@x.com"))
	require.ErrorIs(t, r.Delete(ctx, "a@x.com"), repository.ErrNotFound)
}

func TestCredentialRepo_CreateRejectsEmpty(t *testing.T) {
	_, err := NewCredentialRepo().Create(context.Background(), repository.CreateCredentialInput{Identifier: "a@x.com"})
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestCredentialRepo_ListPaginates(t *testing.T) {
	ctx := context.Background()
	r := NewCredentialRepo()
	for i := 0; i < 5; i++ {
		_, err := r.Create(ctx, repository.CreateCredentialInput{
			Identifier: fmt.Sprintf("u%d@x.com", i), PasswordHash: "h",
		})
		require.NoError(t, err)
	}

	all, err := r.List(ctx, repository.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	page, err := r.List(ctx, repository.ListFilter{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	empty, err := r.List(ctx, repository.ListFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}
