package repository

import (
	"context"
	"testing"

	"github.com/minisocial/minisocial/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryCreateDuplicate(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewUserRepository(db.DB)
	ctx := context.Background()

	alice := createUser(t, db, "alice")

	err := repo.Create(ctx, &models.User{Username: "alice", PasswordHash: "other"})
	assert.ErrorIs(t, err, ErrDuplicate)

	stored, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash-alice", stored.PasswordHash)
}

func TestUserRepositoryLookups(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewUserRepository(db.DB)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	got, err := repo.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, bob.ID, got.ID)

	missing, err := repo.GetByUsername(ctx, "carol")
	require.NoError(t, err)
	assert.Nil(t, missing)

	missing, err = repo.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	others, err := repo.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, "bob", others[0].Username)
}
