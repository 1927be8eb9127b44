package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostTitleUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "secret1")
	bob := f.register(t, "bob", "secret2")

	post, err := f.posts.CreatePost(ctx, alice, "hello", "first post")
	require.NoError(t, err)
	assert.NotZero(t, post.ID)
	assert.False(t, post.DatePosted.IsZero())

	_, err = f.posts.CreatePost(ctx, bob, "hello", "same title")
	assert.ErrorIs(t, err, ErrPostTitleTaken)
}

func TestProfileLikeState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "secret1")
	bob := f.register(t, "bob", "secret2")

	first, err := f.posts.CreatePost(ctx, bob, "first", "one")
	require.NoError(t, err)
	second, err := f.posts.CreatePost(ctx, bob, "second", "two")
	require.NoError(t, err)

	_, err = f.likes.Toggle(ctx, alice, first.ID)
	require.NoError(t, err)
	_, err = f.likes.Toggle(ctx, bob, first.ID)
	require.NoError(t, err)
	_, err = f.likes.Toggle(ctx, bob, second.ID)
	require.NoError(t, err)
	require.NoError(t, f.users.Follow(ctx, alice, bob))

	profile, err := f.posts.Profile(ctx, alice, bob)
	require.NoError(t, err)
	assert.False(t, profile.IsOwnProfile)
	assert.True(t, profile.IsFollowing)
	require.Len(t, profile.Posts, 2)
	assert.Equal(t, map[uint]bool{first.ID: true}, profile.LikedPostIDs)
	assert.Equal(t, int64(2), profile.LikeCounts[first.ID])
	assert.Equal(t, int64(1), profile.LikeCounts[second.ID])

	own, err := f.posts.Profile(ctx, bob, bob)
	require.NoError(t, err)
	assert.True(t, own.IsOwnProfile)
	assert.False(t, own.IsFollowing)
	assert.Equal(t, map[uint]bool{first.ID: true, second.ID: true}, own.LikedPostIDs)

	_, err = f.posts.Profile(ctx, alice, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
