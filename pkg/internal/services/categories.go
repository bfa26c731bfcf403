package services

import (
	"context"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/samber/lo"

	localCache "git.solsynth.dev/hypernet/tribune/pkg/internal/cache"
	"git.solsynth.dev/hypernet/tribune/pkg/internal/models"
	"git.solsynth.dev/hypernet/tribune/pkg/internal/storage"
)

// NewCategory creates a category. Besides the important-actions threshold the
// actor must themselves clear both thresholds they are setting, so nobody can
// mint a room they could not enter.
func (m *Manager) NewCategory(ctx context.Context, actorID models.Id, title models.Title, read models.Permission, write models.Permission) (models.Id, error) {
	var id models.Id
	err := m.mutate(ctx, actorID, func(s storage.Store, actor *models.User) error {
		if err := requireThreshold(actor.Permission, models.PermissionForImportantActions, "create categories"); err != nil {
			return err
		}
		if err := requireThreshold(actor.Permission, read, fmt.Sprintf("create categories with read permission %s", read)); err != nil {
			return err
		}
		if err := requireThreshold(actor.Permission, write, fmt.Sprintf("create categories with write permission %s", write)); err != nil {
			return err
		}

		category := models.Category{
			ID:                     models.NewId(),
			Title:                  title,
			MinimumReadPermission:  read,
			MinimumWritePermission: write,
			CreatedAt:              time.Now().UTC(),
		}
		var err error
		id, err = s.CreateCategory(ctx, category)
		if err != nil {
			return storageFailure(err, "saving category in the store")
		}
		invalidateCategoryCache(ctx)
		return nil
	})
	return id, err
}

// EditCategoryParams carries the fields a category edit may change; nil keeps
// the stored value.
type EditCategoryParams struct {
	Title                  *models.Title
	MinimumReadPermission  *models.Permission
	MinimumWritePermission *models.Permission
}

func (m *Manager) EditCategory(ctx context.Context, actorID models.Id, categoryID models.Id, params EditCategoryParams) error {
	return m.mutate(ctx, actorID, func(s storage.Store, actor *models.User) error {
		if err := requireThreshold(actor.Permission, models.PermissionForImportantActions, "edit categories"); err != nil {
			return err
		}
		if params.MinimumReadPermission != nil {
			if err := requireThreshold(actor.Permission, *params.MinimumReadPermission, fmt.Sprintf("set read permission %s", *params.MinimumReadPermission)); err != nil {
				return err
			}
		}
		if params.MinimumWritePermission != nil {
			if err := requireThreshold(actor.Permission, *params.MinimumWritePermission, fmt.Sprintf("set write permission %s", *params.MinimumWritePermission)); err != nil {
				return err
			}
		}

		category, err := s.CategoryByID(ctx, categoryID)
		if err != nil {
			return storageFailure(err, "reading category from the store")
		}
		if category == nil {
			return notFound("invalid category id")
		}

		merged := *category
		if params.Title != nil {
			merged.Title = *params.Title
		}
		if params.MinimumReadPermission != nil {
			merged.MinimumReadPermission = *params.MinimumReadPermission
		}
		if params.MinimumWritePermission != nil {
			merged.MinimumWritePermission = *params.MinimumWritePermission
		}
		merged.EditedAt = lo.ToPtr(time.Now().UTC())

		if err := s.EditCategory(ctx, merged); err != nil {
			return storageFailure(err, "saving category in the store")
		}
		invalidateCategoryCache(ctx)
		return nil
	})
}

// RemoveCategory tombstones a category. Posts filed under it keep their
// reference; they just stop being listable through it.
func (m *Manager) RemoveCategory(ctx context.Context, actorID models.Id, categoryID models.Id) error {
	return m.mutate(ctx, actorID, func(s storage.Store, actor *models.User) error {
		if err := requireThreshold(actor.Permission, models.PermissionForImportantActions, "remove categories"); err != nil {
			return err
		}

		category, err := s.CategoryByID(ctx, categoryID)
		if err != nil {
			return storageFailure(err, "reading category from the store")
		}
		if category == nil {
			return notFound("invalid category id")
		}

		merged := *category
		merged.Deleted = true
		merged.EditedAt = lo.ToPtr(time.Now().UTC())

		if err := s.EditCategory(ctx, merged); err != nil {
			return storageFailure(err, "saving category in the store")
		}
		invalidateCategoryCache(ctx)
		return nil
	})
}

// GetCategory returns a category to any caller clearing its read threshold.
// The actor id is optional; anonymous callers read at the default level.
func (m *Manager) GetCategory(ctx context.Context, actorID *models.Id, categoryID models.Id) (*models.Category, error) {
	var held models.Permission
	err := m.gate.Read(func(r storage.Reader) error {
		p, err := holderPermission(ctx, r, actorID)
		if err != nil {
			return err
		}
		held = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	category, err := m.cachedCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, notFound("invalid category id")
	}
	if err := requireCategoryRead(held, category, "read"); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories returns the categories the caller is allowed to read,
// oldest first. Tombstoned categories never show up.
func (m *Manager) ListCategories(ctx context.Context, actorID *models.Id) ([]models.Category, error) {
	var categories []models.Category
	err := m.gate.Read(func(r storage.Reader) error {
		held, err := holderPermission(ctx, r, actorID)
		if err != nil {
			return err
		}
		all, err := r.AllCategories(ctx)
		if err != nil {
			return storageFailure(err, "reading categories from the store")
		}
		categories = lo.Filter(all, func(c models.Category, _ int) bool {
			return !c.Deleted && models.IsAllowed(held, c.MinimumReadPermission)
		})
		return nil
	})
	return categories, err
}

// cachedCategory serves single-category lookups through the process cache so
// the read path does not keep contending on the gate for hot rows.
func (m *Manager) cachedCategory(ctx context.Context, categoryID models.Id) (*models.Category, error) {
	fetch := func() (*models.Category, error) {
		var category *models.Category
		err := m.gate.Read(func(r storage.Reader) error {
			c, err := r.CategoryByID(ctx, categoryID)
			if err != nil {
				return storageFailure(err, "reading category from the store")
			}
			category = c
			return nil
		})
		return category, err
	}

	if localCache.S == nil {
		return fetch()
	}

	marshal := marshaler.New(cache.New[any](localCache.S))
	key := fmt.Sprintf("category#%s", categoryID)

	if val, err := marshal.Get(ctx, key, new(models.Category)); err == nil {
		if category, ok := val.(*models.Category); ok {
			return category, nil
		}
	}

	category, err := fetch()
	if err != nil || category == nil {
		return category, err
	}

	_ = marshal.Set(ctx, key, *category,
		store.WithExpiration(5*time.Minute),
		store.WithTags([]string{"categories"}),
	)
	return category, nil
}

// invalidateCategoryCache drops every cached category after any mutation that
// could change one's visibility or thresholds.
func invalidateCategoryCache(ctx context.Context) {
	if localCache.S == nil {
		return
	}
	marshal := marshaler.New(cache.New[any](localCache.S))
	_ = marshal.Invalidate(ctx, store.WithInvalidateTags([]string{"categories"}))
}
