package services

import (
	"context"
	"time"

	"github.com/samber/lo"

	"git.solsynth.dev/hypernet/tribune/pkg/internal/models"
	"git.solsynth.dev/hypernet/tribune/pkg/internal/storage"
)

// NewPost files a post under a category; the actor needs the category's
// write threshold.
func (m *Manager) NewPost(ctx context.Context, actorID models.Id, categoryID models.Id, title models.Title, content models.Content) (models.Id, error) {
	var id models.Id
	err := m.mutate(ctx, actorID, func(s storage.Store, actor *models.User) error {
		if _, err := requireCategoryWrite(ctx, s, actor, categoryID, "create posts"); err != nil {
			return err
		}

		post := models.Post{
			ID:         models.NewId(),
			CategoryID: categoryID,
			CreatorID:  actor.ID,
			Title:      title,
			Content:    content,
			CreatedAt:  time.Now().UTC(),
		}
		var err error
		id, err = s.CreatePost(ctx, post)
		if err != nil {
			return storageFailure(err, "saving post in the store")
		}
		return nil
	})
	return id, err
}

// EditPostParams carries the fields a post edit may change; nil keeps the
// stored value. Setting CategoryID re-files the post.
type EditPostParams struct {
	Title      *models.Title
	Content    *models.Content
	CategoryID *models.Id
}

// EditPost updates a post. Only the creator may edit; the edit is authorized
// against the category the post currently sits in. Tombstoned and locked
// posts stay editable, the flags are state, not authorization.
func (m *Manager) EditPost(ctx context.Context, actorID models.Id, postID models.Id, params EditPostParams) error {
	return m.mutate(ctx, actorID, func(s storage.Store, actor *models.User) error {
		post, err := s.PostByID(ctx, postID)
		if err != nil {
			return storageFailure(err, "reading post from the store")
		}
		if post == nil {
			return notFound("invalid post id")
		}
		if post.CreatorID != actor.ID {
			return unauthorized("only the creator may edit a post")
		}
		if _, err := requireCategoryWrite(ctx, s, actor, post.CategoryID, "edit posts"); err != nil {
			return err
		}
		if params.CategoryID != nil {
			target, err := s.CategoryByID(ctx, *params.CategoryID)
			if err != nil {
				return storageFailure(err, "reading category from the store")
			}
			if target == nil {
				return notFound("invalid category id")
			}
		}

		merged := *post
		if params.Title != nil {
			merged.Title = *params.Title
		}
		if params.Content != nil {
			merged.Content = *params.Content
		}
		if params.CategoryID != nil {
			merged.CategoryID = *params.CategoryID
		}
		merged.EditedAt = lo.ToPtr(time.Now().UTC())

		if err := s.EditPost(ctx, merged); err != nil {
			return storageFailure(err, "saving post in the store")
		}
		return nil
	})
}

// RemovePost tombstones a post and locks it so nothing can land under it
// afterwards. The creator may remove their own; anyone else also needs the
// important-actions threshold.
func (m *Manager) RemovePost(ctx context.Context, actorID models.Id, postID models.Id) error {
	return m.mutate(ctx, actorID, func(s storage.Store, actor *models.User) error {
		post, err := s.PostByID(ctx, postID)
		if err != nil {
			return storageFailure(err, "reading post from the store")
		}
		if post == nil {
			return notFound("invalid post id")
		}
		if post.CreatorID != actor.ID {
			if err := requireThreshold(actor.Permission, models.PermissionForImportantActions, "remove other users' posts"); err != nil {
				return err
			}
		}
		if _, err := requireCategoryWrite(ctx, s, actor, post.CategoryID, "remove posts"); err != nil {
			return err
		}

		merged := *post
		merged.Deleted = true
		merged.Locked = true
		merged.EditedAt = lo.ToPtr(time.Now().UTC())

		if err := s.EditPost(ctx, merged); err != nil {
			return storageFailure(err, "saving post in the store")
		}
		return nil
	})
}

// SetPostLocked flips the moderation lock flag. The flag travels with the
// record for callers to surface; no operation consults it for authorization.
// Moderation-only.
func (m *Manager) SetPostLocked(ctx context.Context, actorID models.Id, postID models.Id, locked bool) error {
	return m.mutate(ctx, actorID, func(s storage.Store, actor *models.User) error {
		if err := requireThreshold(actor.Permission, models.PermissionForImportantActions, "lock or unlock posts"); err != nil {
			return err
		}

		post, err := s.PostByID(ctx, postID)
		if err != nil {
			return storageFailure(err, "reading post from the store")
		}
		if post == nil {
			return notFound("invalid post id")
		}

		merged := *post
		merged.Locked = locked
		merged.EditedAt = lo.ToPtr(time.Now().UTC())

		if err := s.EditPost(ctx, merged); err != nil {
			return storageFailure(err, "saving post in the store")
		}
		return nil
	})
}

// GetPost returns a post to any caller clearing its category's read
// threshold. Tombstoned posts still resolve; the flag travels with them.
func (m *Manager) GetPost(ctx context.Context, actorID *models.Id, postID models.Id) (*models.Post, error) {
	var post *models.Post
	err := m.gate.Read(func(r storage.Reader) error {
		held, err := holderPermission(ctx, r, actorID)
		if err != nil {
			return err
		}
		p, err := r.PostByID(ctx, postID)
		if err != nil {
			return storageFailure(err, "reading post from the store")
		}
		if p == nil {
			return notFound("invalid post id")
		}
		category, err := categoryOfPost(ctx, r, p)
		if err != nil {
			return err
		}
		if err := requireCategoryRead(held, category, "read posts"); err != nil {
			return err
		}
		post = p
		return nil
	})
	return post, err
}

// ListPostsByCategory returns the live posts under a category, oldest first,
// for callers clearing its read threshold.
func (m *Manager) ListPostsByCategory(ctx context.Context, actorID *models.Id, categoryID models.Id) ([]models.Post, error) {
	var posts []models.Post
	err := m.gate.Read(func(r storage.Reader) error {
		held, err := holderPermission(ctx, r, actorID)
		if err != nil {
			return err
		}
		category, err := r.CategoryByID(ctx, categoryID)
		if err != nil {
			return storageFailure(err, "reading category from the store")
		}
		if category == nil {
			return notFound("invalid category id")
		}
		if err := requireCategoryRead(held, category, "read posts"); err != nil {
			return err
		}
		all, err := r.PostsByCategory(ctx, categoryID)
		if err != nil {
			return storageFailure(err, "reading posts from the store")
		}
		posts = lo.Filter(all, func(p models.Post, _ int) bool {
			return !p.Deleted
		})
		return nil
	})
	return posts, err
}
