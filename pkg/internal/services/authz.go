package services

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"git.solsynth.dev/hypernet/tribune/pkg/internal/gate"
	"git.solsynth.dev/hypernet/tribune/pkg/internal/models"
	"git.solsynth.dev/hypernet/tribune/pkg/internal/storage"
)

// Manager orchestrates every content operation against the gated store.
// The attachment filesystem is injected so the byte-shipping mechanics stay
// swappable (and in-memory under test).
type Manager struct {
	gate  *gate.Gate
	files afero.Fs
}

func NewManager(g *gate.Gate, files afero.Fs) *Manager {
	return &Manager{gate: g, files: files}
}

// mutate is the shared authorize-then-mutate shell. It resolves the acting
// user and runs the operation's whole read-validate-write sequence inside a
// single exclusive acquisition, so validation can never be based on a record
// another writer superseded in between.
func (m *Manager) mutate(ctx context.Context, actorID models.Id, op func(storage.Store, *models.User) error) error {
	return m.gate.Write(func(s storage.Store) error {
		actor, err := requireActor(ctx, s, actorID)
		if err != nil {
			return err
		}
		return op(s, actor)
	})
}

// requireActor resolves the acting user. A missing row is an authentication
// failure, not a lookup failure: the session named someone who isn't there.
func requireActor(ctx context.Context, r storage.Reader, id models.Id) (*models.User, error) {
	user, err := r.UserByID(ctx, id)
	if err != nil {
		return nil, storageFailure(err, "reading actor from the store")
	}
	if user == nil {
		return nil, unauthenticated("invalid session")
	}
	return user, nil
}

// holderPermission is the read-path counterpart: anonymous callers and
// sessions that no longer resolve both count as Unverified.
func holderPermission(ctx context.Context, r storage.Reader, actorID *models.Id) (models.Permission, error) {
	if actorID == nil {
		return models.DefaultPermission, nil
	}
	user, err := r.UserByID(ctx, *actorID)
	if err != nil {
		return "", storageFailure(err, "reading actor from the store")
	}
	if user == nil {
		return models.DefaultPermission, nil
	}
	return user.Permission, nil
}

func requireThreshold(held models.Permission, required models.Permission, action string) error {
	if !models.IsAllowed(held, required) {
		return unauthorized("you must be %s or above to %s, you are %s", required, action, held)
	}
	return nil
}

// requireCategoryWrite fetches the category and applies its write threshold
// against the actor. This is the resource-derived half of the engine; posts
// use it directly and replies reach it through their parent post.
func requireCategoryWrite(ctx context.Context, r storage.Reader, actor *models.User, categoryID models.Id, verb string) (*models.Category, error) {
	category, err := r.CategoryByID(ctx, categoryID)
	if err != nil {
		return nil, storageFailure(err, "reading category from the store")
	}
	if category == nil {
		return nil, notFound("invalid category id")
	}
	action := fmt.Sprintf("%s in category %s", verb, category.Title)
	if err := requireThreshold(actor.Permission, category.MinimumWritePermission, action); err != nil {
		return nil, err
	}
	return category, nil
}

// requireCategoryRead applies the read threshold for a permission already in
// hand (possibly the anonymous default).
func requireCategoryRead(held models.Permission, category *models.Category, verb string) error {
	action := fmt.Sprintf("%s in category %s", verb, category.Title)
	return requireThreshold(held, category.MinimumReadPermission, action)
}

// categoryOfPost resolves the category a post currently sits in.
func categoryOfPost(ctx context.Context, r storage.Reader, post *models.Post) (*models.Category, error) {
	category, err := r.CategoryByID(ctx, post.CategoryID)
	if err != nil {
		return nil, storageFailure(err, "reading category from the store")
	}
	if category == nil {
		return nil, notFound("invalid category id")
	}
	return category, nil
}
