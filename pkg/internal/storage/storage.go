package storage

import (
	"context"

	"git.solsynth.dev/hypernet/tribune/pkg/internal/models"
)

// Reader is the lookup surface handed out under a shared acquisition of the
// gate. Missing entities come back as (nil, nil); an error always means the
// backend itself failed.
type Reader interface {
	UserByID(ctx context.Context, id models.Id) (*models.User, error)
	UserByUsername(ctx context.Context, username models.Name) (*models.User, error)
	CategoryByID(ctx context.Context, id models.Id) (*models.Category, error)
	PostByID(ctx context.Context, id models.Id) (*models.Post, error)
	ReplyByID(ctx context.Context, id models.Id) (*models.Reply, error)
	AttachmentByID(ctx context.Context, id models.Id) (*models.Attachment, error)

	AllCategories(ctx context.Context) ([]models.Category, error)
	PostsByCategory(ctx context.Context, categoryID models.Id) ([]models.Post, error)
	RepliesByPost(ctx context.Context, postID models.Id) ([]models.Reply, error)
	AllAttachments(ctx context.Context) ([]models.Attachment, error)
}

// Store is the full persistence contract. Creates persist a fully-formed
// record (the caller mints the Id and timestamps) and echo the new Id back.
// Edits take a complete replacement record; there is no partial patch at
// this layer, merging fields is the lifecycle manager's job.
type Store interface {
	Reader

	CreateUser(ctx context.Context, user models.User) (models.Id, error)
	CreateCategory(ctx context.Context, category models.Category) (models.Id, error)
	CreatePost(ctx context.Context, post models.Post) (models.Id, error)
	CreateReply(ctx context.Context, reply models.Reply) (models.Id, error)
	CreateAttachment(ctx context.Context, attachment models.Attachment) (models.Id, error)

	EditUser(ctx context.Context, user models.User) error
	EditCategory(ctx context.Context, category models.Category) error
	EditPost(ctx context.Context, post models.Post) error
	EditReply(ctx context.Context, reply models.Reply) error
}
