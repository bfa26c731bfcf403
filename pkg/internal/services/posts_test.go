package services

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.solsynth.dev/hypernet/tribune/pkg/internal/models"
)

func TestNewPostRequiresCategoryWrite(t *testing.T) {
	ctx := context.Background()
	m, rootID := newTestManager(t)
	categoryID := newCategoryWith(t, m, rootID, "general", models.PermissionUnverified, models.PermissionUser)
	freshID := registerUserAt(t, m, rootID, "fresh", models.PermissionUnverified)
	aliceID := registerUserAt(t, m, rootID, "alice", models.PermissionUser)

	_, err := m.NewPost(ctx, freshID, categoryID, mustTitle(t, "hello"), mustContent(t, "first"))
	require.Error(t, err)
	assert.Equal(t, ErrorKindUnauthorized, KindOf(err))

	postID, err := m.NewPost(ctx, aliceID, categoryID, mustTitle(t, "hello"), mustContent(t, "first"))
	require.NoError(t, err)

	post, err := m.GetPost(ctx, &aliceID, postID)
	require.NoError(t, err)
	assert.Equal(t, aliceID, post.CreatorID)
	assert.Equal(t, categoryID, post.CategoryID)
	assert.False(t, post.Locked)
}

func TestNewPostUnknownCategory(t *testing.T) {
	ctx := context.Background()
	m, rootID := newTestManager(t)
	aliceID := registerUserAt(t, m, rootID, "alice", models.PermissionUser)

	_, err := m.NewPost(ctx, aliceID, models.NewId(), mustTitle(t, "hello"), mustContent(t, "first"))
	require.Error(t, err)
	assert.Equal(t, ErrorKindNotFound, KindOf(err))
}

func TestEditPostCreatorOnly(t *testing.T) {
	ctx := context.Background()
	m, rootID := newTestManager(t)
	categoryID := newCategoryWith(t, m, rootID, "general", models.PermissionUnverified, models.PermissionUser)
	aliceID := registerUserAt(t, m, rootID, "alice", models.PermissionUser)

	postID, err := m.NewPost(ctx, aliceID, categoryID, mustTitle(t, "hello"), mustContent(t, "first"))
	require.NoError(t, err)

	// Even a moderator cannot edit someone else's post.
	err = m.EditPost(ctx, rootID, postID, EditPostParams{Content: lo.ToPtr(mustContent(t, "hijacked"))})
	require.Error(t, err)
	assert.Equal(t, ErrorKindUnauthorized, KindOf(err))

	require.NoError(t, m.EditPost(ctx, aliceID, postID, EditPostParams{Content: lo.ToPtr(mustContent(t, "revised"))}))

	post, err := m.GetPost(ctx, &aliceID, postID)
	require.NoError(t, err)
	assert.Equal(t, "revised", post.Content.String())
	assert.Equal(t, "hello", post.Title.String(), "untouched fields survive the edit")
	assert.NotNil(t, post.EditedAt)
}

func TestEditPostRefile(t *testing.T) {
	ctx := context.Background()
	m, rootID := newTestManager(t)
	from := newCategoryWith(t, m, rootID, "from", models.PermissionUnverified, models.PermissionUser)
	to := newCategoryWith(t, m, rootID, "to", models.PermissionUnverified, models.PermissionUser)
	aliceID := registerUserAt(t, m, rootID, "alice", models.PermissionUser)

	postID, err := m.NewPost(ctx, aliceID, from, mustTitle(t, "hello"), mustContent(t, "first"))
	require.NoError(t, err)

	err = m.EditPost(ctx, aliceID, postID, EditPostParams{CategoryID: lo.ToPtr(models.NewId())})
	require.Error(t, err)
	assert.Equal(t, ErrorKindNotFound, KindOf(err))

	require.NoError(t, m.EditPost(ctx, aliceID, postID, EditPostParams{CategoryID: &to}))

	post, err := m.GetPost(ctx, &aliceID, postID)
	require.NoError(t, err)
	assert.Equal(t, to, post.CategoryID)
}

func TestSetPostLockedModeratorOnly(t *testing.T) {
	ctx := context.Background()
	m, rootID := newTestManager(t)
	categoryID := newCategoryWith(t, m, rootID, "general", models.PermissionUnverified, models.PermissionUser)
	aliceID := registerUserAt(t, m, rootID, "alice", models.PermissionUser)

	postID, err := m.NewPost(ctx, aliceID, categoryID, mustTitle(t, "hello"), mustContent(t, "first"))
	require.NoError(t, err)

	err = m.SetPostLocked(ctx, aliceID, postID, true)
	require.Error(t, err)
	assert.Equal(t, ErrorKindUnauthorized, KindOf(err))

	require.NoError(t, m.SetPostLocked(ctx, rootID, postID, true))

	post, err := m.GetPost(ctx, &aliceID, postID)
	require.NoError(t, err)
	assert.True(t, post.Locked)

	// The flag is state carried on the record, never an authorization input:
	// the creator keeps editing a locked post.
	require.NoError(t, m.EditPost(ctx, aliceID, postID, EditPostParams{Content: lo.ToPtr(mustContent(t, "still mine"))}))

	require.NoError(t, m.SetPostLocked(ctx, rootID, postID, false))
	post, err = m.GetPost(ctx, &aliceID, postID)
	require.NoError(t, err)
	assert.False(t, post.Locked)
}

func TestEditPostAfterRemoval(t *testing.T) {
	ctx := context.Background()
	m, rootID := newTestManager(t)
	categoryID := newCategoryWith(t, m, rootID, "general", models.PermissionUnverified, models.PermissionUser)
	aliceID := registerUserAt(t, m, rootID, "alice", models.PermissionUser)

	postID, err := m.NewPost(ctx, aliceID, categoryID, mustTitle(t, "hello"), mustContent(t, "first"))
	require.NoError(t, err)
	require.NoError(t, m.RemovePost(ctx, aliceID, postID))

	// Editing a tombstoned post proceeds exactly like editing a live one.
	require.NoError(t, m.EditPost(ctx, aliceID, postID, EditPostParams{Content: lo.ToPtr(mustContent(t, "post mortem"))}))

	post, err := m.GetPost(ctx, &aliceID, postID)
	require.NoError(t, err)
	assert.Equal(t, "post mortem", post.Content.String())
	assert.True(t, post.Deleted, "the edit carries the tombstone along")
	assert.True(t, post.Locked)
}

func TestRemovePostLocksAndTombstones(t *testing.T) {
	ctx := context.Background()
	m, rootID := newTestManager(t)
	categoryID := newCategoryWith(t, m, rootID, "general", models.PermissionUnverified, models.PermissionUser)
	aliceID := registerUserAt(t, m, rootID, "alice", models.PermissionUser)
	bobID := registerUserAt(t, m, rootID, "bob", models.PermissionUser)

	postID, err := m.NewPost(ctx, aliceID, categoryID, mustTitle(t, "hello"), mustContent(t, "first"))
	require.NoError(t, err)

	// Peers cannot remove each other's posts.
	err = m.RemovePost(ctx, bobID, postID)
	require.Error(t, err)
	assert.Equal(t, ErrorKindUnauthorized, KindOf(err))

	// A moderator can, even without being the creator.
	require.NoError(t, m.RemovePost(ctx, rootID, postID))

	post, err := m.GetPost(ctx, &aliceID, postID)
	require.NoError(t, err)
	assert.True(t, post.Deleted)
	assert.True(t, post.Locked, "removal locks the post against further activity")
}

func TestGetPostHonorsCategoryRead(t *testing.T) {
	ctx := context.Background()
	m, rootID := newTestManager(t)
	categoryID := newCategoryWith(t, m, rootID, "staff", models.PermissionAdmin, models.PermissionAdmin)

	postID, err := m.NewPost(ctx, rootID, categoryID, mustTitle(t, "memo"), mustContent(t, "internal"))
	require.NoError(t, err)

	_, err = m.GetPost(ctx, nil, postID)
	require.Error(t, err)
	assert.Equal(t, ErrorKindUnauthorized, KindOf(err))

	_, err = m.GetPost(ctx, &rootID, postID)
	assert.NoError(t, err)
}

func TestListPostsByCategorySkipsTombstones(t *testing.T) {
	ctx := context.Background()
	m, rootID := newTestManager(t)
	categoryID := newCategoryWith(t, m, rootID, "general", models.PermissionUnverified, models.PermissionUser)
	aliceID := registerUserAt(t, m, rootID, "alice", models.PermissionUser)

	keepID, err := m.NewPost(ctx, aliceID, categoryID, mustTitle(t, "keep"), mustContent(t, "stays"))
	require.NoError(t, err)
	dropID, err := m.NewPost(ctx, aliceID, categoryID, mustTitle(t, "drop"), mustContent(t, "goes"))
	require.NoError(t, err)
	require.NoError(t, m.RemovePost(ctx, aliceID, dropID))

	posts, err := m.ListPostsByCategory(ctx, nil, categoryID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, keepID, posts[0].ID)
}
