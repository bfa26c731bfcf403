package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.solsynth.dev/hypernet/tribune/pkg/internal/models"
)

func TestMissingLookupsReturnNilNil(t *testing.T) {
	ctx := context.Background()
	s := New()

	user, err := s.UserByID(ctx, models.NewId())
	require.NoError(t, err)
	assert.Nil(t, user)

	byName, err := s.UserByUsername(ctx, models.Name("ghost"))
	require.NoError(t, err)
	assert.Nil(t, byName)

	category, err := s.CategoryByID(ctx, models.NewId())
	require.NoError(t, err)
	assert.Nil(t, category)

	post, err := s.PostByID(ctx, models.NewId())
	require.NoError(t, err)
	assert.Nil(t, post)

	reply, err := s.ReplyByID(ctx, models.NewId())
	require.NoError(t, err)
	assert.Nil(t, reply)

	attachment, err := s.AttachmentByID(ctx, models.NewId())
	require.NoError(t, err)
	assert.Nil(t, attachment)
}

func TestCreateAndLookupRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	user := models.User{
		ID:         models.NewId(),
		Username:   models.Name("alice"),
		Permission: models.PermissionUser,
		CreatedAt:  time.Now().UTC(),
	}
	id, err := s.CreateUser(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	got, err := s.UserByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user, *got)

	byName, err := s.UserByUsername(ctx, models.Name("alice"))
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, user.ID, byName.ID)
}

func TestLookupReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()

	category := models.Category{
		ID:                     models.NewId(),
		Title:                  models.Title("general"),
		MinimumReadPermission:  models.PermissionUnverified,
		MinimumWritePermission: models.PermissionUser,
		CreatedAt:              time.Now().UTC(),
	}
	_, err := s.CreateCategory(ctx, category)
	require.NoError(t, err)

	first, err := s.CategoryByID(ctx, category.ID)
	require.NoError(t, err)
	first.Title = models.Title("scribbled over")

	second, err := s.CategoryByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Title("general"), second.Title)
}

func TestEditRequiresExistingRow(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.EditPost(ctx, models.Post{ID: models.NewId()})
	assert.Error(t, err)

	post := models.Post{
		ID:         models.NewId(),
		CategoryID: models.NewId(),
		CreatorID:  models.NewId(),
		Title:      models.Title("first"),
		Content:    models.Content("hello"),
		CreatedAt:  time.Now().UTC(),
	}
	_, err = s.CreatePost(ctx, post)
	require.NoError(t, err)

	post.Content = models.Content("edited")
	require.NoError(t, s.EditPost(ctx, post))

	got, err := s.PostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Content("edited"), got.Content)
}

func TestListsAreOrderedAndScoped(t *testing.T) {
	ctx := context.Background()
	s := New()

	categoryID := models.NewId()
	otherID := models.NewId()
	base := time.Now().UTC()

	// Inserted newest-first on purpose; enumeration must come back oldest-first.
	for i := 2; i >= 0; i-- {
		_, err := s.CreatePost(ctx, models.Post{
			ID:         models.NewId(),
			CategoryID: categoryID,
			CreatorID:  models.NewId(),
			Title:      models.Title("post"),
			Content:    models.Content("body"),
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}
	_, err := s.CreatePost(ctx, models.Post{
		ID:         models.NewId(),
		CategoryID: otherID,
		CreatorID:  models.NewId(),
		Title:      models.Title("elsewhere"),
		Content:    models.Content("body"),
		CreatedAt:  base,
	})
	require.NoError(t, err)

	posts, err := s.PostsByCategory(ctx, categoryID)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	for i := 1; i < len(posts); i++ {
		assert.False(t, posts[i].CreatedAt.Before(posts[i-1].CreatedAt))
	}
}

func TestAllAttachments(t *testing.T) {
	ctx := context.Background()
	s := New()

	for i := 0; i < 2; i++ {
		_, err := s.CreateAttachment(ctx, models.Attachment{
			ID:        models.NewId(),
			CreatorID: models.NewId(),
			Path:      "a/b/c",
			CreatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	all, err := s.AllAttachments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
