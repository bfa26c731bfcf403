package services

import (
	"context"
	"time"

	"github.com/samber/lo"

	"git.solsynth.dev/hypernet/tribune/pkg/internal/models"
	"git.solsynth.dev/hypernet/tribune/pkg/internal/storage"
)

// NewReply attaches a reply to a post. Authorization follows the parent
// post's category write threshold.
func (m *Manager) NewReply(ctx context.Context, actorID models.Id, postID models.Id, content models.Content) (models.Id, error) {
	var id models.Id
	err := m.mutate(ctx, actorID, func(s storage.Store, actor *models.User) error {
		post, err := s.PostByID(ctx, postID)
		if err != nil {
			return storageFailure(err, "reading post from the store")
		}
		if post == nil {
			return notFound("invalid post id")
		}
		if _, err := requireCategoryWrite(ctx, s, actor, post.CategoryID, "create replies"); err != nil {
			return err
		}

		reply := models.Reply{
			ID:        models.NewId(),
			PostID:    postID,
			CreatorID: actor.ID,
			Content:   content,
			CreatedAt: time.Now().UTC(),
		}
		id, err = s.CreateReply(ctx, reply)
		if err != nil {
			return storageFailure(err, "saving reply in the store")
		}
		return nil
	})
	return id, err
}

// EditReply updates a reply's content. Creator-only, authorized against the
// parent post's category.
func (m *Manager) EditReply(ctx context.Context, actorID models.Id, replyID models.Id, content models.Content) error {
	return m.mutate(ctx, actorID, func(s storage.Store, actor *models.User) error {
		reply, err := s.ReplyByID(ctx, replyID)
		if err != nil {
			return storageFailure(err, "reading reply from the store")
		}
		if reply == nil {
			return notFound("invalid reply id")
		}
		if reply.CreatorID != actor.ID {
			return unauthorized("only the creator may edit a reply")
		}

		post, err := s.PostByID(ctx, reply.PostID)
		if err != nil {
			return storageFailure(err, "reading post from the store")
		}
		if post == nil {
			return notFound("invalid post id")
		}
		if _, err := requireCategoryWrite(ctx, s, actor, post.CategoryID, "edit replies"); err != nil {
			return err
		}

		merged := *reply
		merged.Content = content
		merged.EditedAt = lo.ToPtr(time.Now().UTC())

		if err := s.EditReply(ctx, merged); err != nil {
			return storageFailure(err, "saving reply in the store")
		}
		return nil
	})
}

// RemoveReply tombstones a reply. The creator may remove their own; anyone
// else also needs the important-actions threshold.
func (m *Manager) RemoveReply(ctx context.Context, actorID models.Id, replyID models.Id) error {
	return m.mutate(ctx, actorID, func(s storage.Store, actor *models.User) error {
		reply, err := s.ReplyByID(ctx, replyID)
		if err != nil {
			return storageFailure(err, "reading reply from the store")
		}
		if reply == nil {
			return notFound("invalid reply id")
		}
		if reply.CreatorID != actor.ID {
			if err := requireThreshold(actor.Permission, models.PermissionForImportantActions, "remove other users' replies"); err != nil {
				return err
			}
		}

		post, err := s.PostByID(ctx, reply.PostID)
		if err != nil {
			return storageFailure(err, "reading post from the store")
		}
		if post == nil {
			return notFound("invalid post id")
		}
		if _, err := requireCategoryWrite(ctx, s, actor, post.CategoryID, "remove replies"); err != nil {
			return err
		}

		merged := *reply
		merged.Deleted = true
		merged.EditedAt = lo.ToPtr(time.Now().UTC())

		if err := s.EditReply(ctx, merged); err != nil {
			return storageFailure(err, "saving reply in the store")
		}
		return nil
	})
}

// ListRepliesByPost returns the live replies under a post, oldest first, for
// callers clearing the parent category's read threshold.
func (m *Manager) ListRepliesByPost(ctx context.Context, actorID *models.Id, postID models.Id) ([]models.Reply, error) {
	var replies []models.Reply
	err := m.gate.Read(func(r storage.Reader) error {
		held, err := holderPermission(ctx, r, actorID)
		if err != nil {
			return err
		}
		post, err := r.PostByID(ctx, postID)
		if err != nil {
			return storageFailure(err, "reading post from the store")
		}
		if post == nil {
			return notFound("invalid post id")
		}
		category, err := categoryOfPost(ctx, r, post)
		if err != nil {
			return err
		}
		if err := requireCategoryRead(held, category, "read replies"); err != nil {
			return err
		}
		all, err := r.RepliesByPost(ctx, postID)
		if err != nil {
			return storageFailure(err, "reading replies from the store")
		}
		replies = lo.Filter(all, func(rp models.Reply, _ int) bool {
			return !rp.Deleted
		})
		return nil
	})
	return replies, err
}
