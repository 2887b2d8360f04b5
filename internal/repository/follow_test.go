package repository

import (
	"context"
	"testing"

	"plume/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_Idempotence(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	follower := createUser(t, db, "reader")
	author := createUser(t, db, "writer")

	require.NoError(t, repo.Follow(ctx, follower.ID, author.ID))
	require.NoError(t, repo.Follow(ctx, follower.ID, author.ID))

	// Exactly one edge regardless of how many times follow ran.
	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	following, err := repo.IsFollowing(ctx, follower.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, following)
}

func TestFollowRepository_UnfollowIdempotence(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	follower := createUser(t, db, "reader")
	author := createUser(t, db, "writer")

	// Unfollow with no prior edge is a silent no-op.
	require.NoError(t, repo.Unfollow(ctx, follower.ID, author.ID))

	require.NoError(t, repo.Follow(ctx, follower.ID, author.ID))
	require.NoError(t, repo.Unfollow(ctx, follower.ID, author.ID))
	require.NoError(t, repo.Unfollow(ctx, follower.ID, author.ID))

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Zero(t, count)

	following, err := repo.IsFollowing(ctx, follower.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowRepository_FollowedAuthorIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	follower := createUser(t, db, "reader")
	a := createUser(t, db, "author-a")
	b := createUser(t, db, "author-b")
	c := createUser(t, db, "author-c")

	require.NoError(t, repo.Follow(ctx, follower.ID, a.ID))
	require.NoError(t, repo.Follow(ctx, follower.ID, c.ID))

	ids, err := repo.FollowedAuthorIDs(ctx, follower.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{a.ID, c.ID}, ids)
	assert.NotContains(t, ids, b.ID)

	// A viewer with no follows gets an empty set, not an error.
	ids, err = repo.FollowedAuthorIDs(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFollowRepository_EdgesAreDirected(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	follower := createUser(t, db, "reader")
	author := createUser(t, db, "writer")

	require.NoError(t, repo.Follow(ctx, follower.ID, author.ID))

	reverse, err := repo.IsFollowing(ctx, author.ID, follower.ID)
	require.NoError(t, err)
	assert.False(t, reverse, "a follow edge must not imply the reverse edge")
}
