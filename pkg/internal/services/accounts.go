package services

import (
	"context"
	"time"

	"github.com/samber/lo"

	"git.solsynth.dev/hypernet/tribune/pkg/internal/models"
	"git.solsynth.dev/hypernet/tribune/pkg/internal/security"
	"git.solsynth.dev/hypernet/tribune/pkg/internal/storage"
)

// Register creates an account at the Unverified level. Usernames are unique
// by exact, case-sensitive match; the nickname starts out as the username.
func (m *Manager) Register(ctx context.Context, username models.Name, password security.Password) (models.Id, error) {
	// Hashing is slow on purpose; do it before taking the exclusive side.
	hash, err := password.Hash()
	if err != nil {
		return "", storageFailure(err, "hashing a password")
	}

	var id models.Id
	err = m.gate.Write(func(s storage.Store) error {
		existing, err := s.UserByUsername(ctx, username)
		if err != nil {
			return storageFailure(err, "reading user from the store")
		}
		if existing != nil {
			return validation("user already exists")
		}

		user := models.User{
			ID:         models.NewId(),
			Username:   username,
			Nickname:   lo.ToPtr(username),
			Password:   hash,
			Permission: models.PermissionUnverified,
			CreatedAt:  time.Now().UTC(),
		}
		id, err = s.CreateUser(ctx, user)
		if err != nil {
			return storageFailure(err, "saving user in the store")
		}
		return nil
	})
	return id, err
}

// Authenticate verifies credentials and returns the account so the caller
// can establish a session. Unknown usernames and wrong passwords are
// deliberately indistinguishable.
func (m *Manager) Authenticate(ctx context.Context, username models.Name, password string) (*models.User, error) {
	var user *models.User
	err := m.gate.Read(func(r storage.Reader) error {
		u, err := r.UserByUsername(ctx, username)
		if err != nil {
			return storageFailure(err, "reading user from the store")
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Password.Verify(password) {
		return nil, validation("invalid username or password")
	}
	return user, nil
}

func (m *Manager) GetUser(ctx context.Context, id models.Id) (*models.User, error) {
	var user *models.User
	err := m.gate.Read(func(r storage.Reader) error {
		u, err := r.UserByID(ctx, id)
		if err != nil {
			return storageFailure(err, "reading user from the store")
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("invalid user id")
	}
	return user, nil
}

func (m *Manager) GetUserByUsername(ctx context.Context, username models.Name) (*models.User, error) {
	var user *models.User
	err := m.gate.Read(func(r storage.Reader) error {
		u, err := r.UserByUsername(ctx, username)
		if err != nil {
			return storageFailure(err, "reading user from the store")
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("invalid username")
	}
	return user, nil
}

// EditProfileParams carries the fields a profile edit may change. Nil means
// keep the stored value; the Clear flags reset an optional field to empty.
type EditProfileParams struct {
	Nickname      *models.Name
	ClearNickname bool
	AvatarID      *models.Id
	ClearAvatar   bool
	Password      *security.Password
}

// EditProfile lets an actor change their own profile. Fields the caller did
// not supply are carried over from the stored record untouched.
func (m *Manager) EditProfile(ctx context.Context, actorID models.Id, params EditProfileParams) error {
	var hash *security.HashedPassword
	if params.Password != nil {
		h, err := params.Password.Hash()
		if err != nil {
			return storageFailure(err, "hashing a password")
		}
		hash = &h
	}

	return m.mutate(ctx, actorID, func(s storage.Store, actor *models.User) error {
		merged := *actor
		switch {
		case params.ClearNickname:
			merged.Nickname = nil
		case params.Nickname != nil:
			merged.Nickname = params.Nickname
		}
		switch {
		case params.ClearAvatar:
			merged.AvatarID = nil
		case params.AvatarID != nil:
			merged.AvatarID = params.AvatarID
		}
		if hash != nil {
			merged.Password = *hash
		}
		merged.EditedAt = lo.ToPtr(time.Now().UTC())

		if err := s.EditUser(ctx, merged); err != nil {
			return storageFailure(err, "saving user in the store")
		}
		return nil
	})
}

// EditPermission grants a user a new permission level. The actor needs the
// important-actions threshold and cannot grant a level above their own.
func (m *Manager) EditPermission(ctx context.Context, actorID models.Id, targetID models.Id, permission models.Permission) error {
	return m.mutate(ctx, actorID, func(s storage.Store, actor *models.User) error {
		if err := requireThreshold(actor.Permission, models.PermissionForImportantActions, "edit user permissions"); err != nil {
			return err
		}
		if err := requireThreshold(actor.Permission, permission, "grant the "+permission.String()+" level"); err != nil {
			return err
		}

		target, err := s.UserByID(ctx, targetID)
		if err != nil {
			return storageFailure(err, "reading user from the store")
		}
		if target == nil {
			return notFound("invalid user id")
		}

		merged := *target
		merged.Permission = permission
		merged.EditedAt = lo.ToPtr(time.Now().UTC())

		if err := s.EditUser(ctx, merged); err != nil {
			return storageFailure(err, "saving user in the store")
		}
		return nil
	})
}

// RemoveUser tombstones an account. Actors may remove themselves; removing
// anyone else takes the important-actions threshold. The row survives, only
// the flag flips, and re-removing is a no-op.
func (m *Manager) RemoveUser(ctx context.Context, actorID models.Id, targetID models.Id) error {
	return m.mutate(ctx, actorID, func(s storage.Store, actor *models.User) error {
		if actor.ID != targetID {
			if err := requireThreshold(actor.Permission, models.PermissionForImportantActions, "remove other users"); err != nil {
				return err
			}
		}

		target, err := s.UserByID(ctx, targetID)
		if err != nil {
			return storageFailure(err, "reading user from the store")
		}
		if target == nil {
			return notFound("invalid user id")
		}

		merged := *target
		merged.Deleted = true
		merged.EditedAt = lo.ToPtr(time.Now().UTC())

		if err := s.EditUser(ctx, merged); err != nil {
			return storageFailure(err, "saving user in the store")
		}
		return nil
	})
}

// EnsureRootAccount creates the bootstrap Root account when it is missing
// and returns its id either way. Registration only mints Unverified users,
// so a fresh deployment needs this to obtain its first administrator.
func (m *Manager) EnsureRootAccount(ctx context.Context, username models.Name, password security.Password) (models.Id, error) {
	hash, err := password.Hash()
	if err != nil {
		return "", storageFailure(err, "hashing a password")
	}

	var id models.Id
	err = m.gate.Write(func(s storage.Store) error {
		existing, err := s.UserByUsername(ctx, username)
		if err != nil {
			return storageFailure(err, "reading user from the store")
		}
		if existing != nil {
			id = existing.ID
			return nil
		}

		user := models.User{
			ID:         models.NewId(),
			Username:   username,
			Nickname:   lo.ToPtr(username),
			Password:   hash,
			Permission: models.PermissionRoot,
			CreatedAt:  time.Now().UTC(),
		}
		id, err = s.CreateUser(ctx, user)
		if err != nil {
			return storageFailure(err, "saving user in the store")
		}
		return nil
	})
	return id, err
}
