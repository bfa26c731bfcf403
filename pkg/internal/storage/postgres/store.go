package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"git.solsynth.dev/hypernet/tribune/pkg/internal/models"
)

// AutoMaintainRange lists every table the store owns; migration walks it.
var AutoMaintainRange = []any{
	&models.User{},
	&models.Category{},
	&models.Post{},
	&models.Reply{},
	&models.Attachment{},
}

// Store is the production persistence backend.
type Store struct {
	db *gorm.DB
}

// New connects and migrates the schema.
func New(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := db.AutoMigrate(AutoMaintainRange...); err != nil {
		return nil, fmt.Errorf("unable to run database auto migration: %w", err)
	}

	return &Store{db: db}, nil
}

func firstOrNil[T any](tx *gorm.DB) (*T, error) {
	var item T
	if err := tx.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (s *Store) UserByID(ctx context.Context, id models.Id) (*models.User, error) {
	return firstOrNil[models.User](s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *Store) UserByUsername(ctx context.Context, username models.Name) (*models.User, error) {
	return firstOrNil[models.User](s.db.WithContext(ctx).Where("username = ?", username))
}

func (s *Store) CategoryByID(ctx context.Context, id models.Id) (*models.Category, error) {
	return firstOrNil[models.Category](s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *Store) PostByID(ctx context.Context, id models.Id) (*models.Post, error) {
	return firstOrNil[models.Post](s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *Store) ReplyByID(ctx context.Context, id models.Id) (*models.Reply, error) {
	return firstOrNil[models.Reply](s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *Store) AttachmentByID(ctx context.Context, id models.Id) (*models.Attachment, error) {
	return firstOrNil[models.Attachment](s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *Store) AllCategories(ctx context.Context) ([]models.Category, error) {
	var items []models.Category
	err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&items).Error
	return items, err
}

func (s *Store) PostsByCategory(ctx context.Context, categoryID models.Id) ([]models.Post, error) {
	var items []models.Post
	err := s.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (s *Store) RepliesByPost(ctx context.Context, postID models.Id) ([]models.Reply, error) {
	var items []models.Reply
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (s *Store) AllAttachments(ctx context.Context) ([]models.Attachment, error) {
	var items []models.Attachment
	err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&items).Error
	return items, err
}

func (s *Store) CreateUser(ctx context.Context, user models.User) (models.Id, error) {
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return "", err
	}
	return user.ID, nil
}

func (s *Store) CreateCategory(ctx context.Context, category models.Category) (models.Id, error) {
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return "", err
	}
	return category.ID, nil
}

func (s *Store) CreatePost(ctx context.Context, post models.Post) (models.Id, error) {
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return "", err
	}
	return post.ID, nil
}

func (s *Store) CreateReply(ctx context.Context, reply models.Reply) (models.Id, error) {
	if err := s.db.WithContext(ctx).Create(&reply).Error; err != nil {
		return "", err
	}
	return reply.ID, nil
}

func (s *Store) CreateAttachment(ctx context.Context, attachment models.Attachment) (models.Id, error) {
	if err := s.db.WithContext(ctx).Create(&attachment).Error; err != nil {
		return "", err
	}
	return attachment.ID, nil
}

func (s *Store) EditUser(ctx context.Context, user models.User) error {
	return s.db.WithContext(ctx).Save(&user).Error
}

func (s *Store) EditCategory(ctx context.Context, category models.Category) error {
	return s.db.WithContext(ctx).Save(&category).Error
}

func (s *Store) EditPost(ctx context.Context, post models.Post) error {
	return s.db.WithContext(ctx).Save(&post).Error
}

func (s *Store) EditReply(ctx context.Context, reply models.Reply) error {
	return s.db.WithContext(ctx).Save(&reply).Error
}
