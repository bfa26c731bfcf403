package services

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"git.solsynth.dev/hypernet/tribune/pkg/internal/gate"
	"git.solsynth.dev/hypernet/tribune/pkg/internal/models"
	"git.solsynth.dev/hypernet/tribune/pkg/internal/security"
	"git.solsynth.dev/hypernet/tribune/pkg/internal/storage/memory"
)

// newTestManager builds a manager on the in-memory store and filesystem with
// the bootstrap Root account already seeded.
func newTestManager(t *testing.T) (*Manager, models.Id) {
	t.Helper()
	viper.Set("security.password_cost", bcrypt.MinCost)
	m := NewManager(gate.New(memory.New()), afero.NewMemMapFs())
	rootID, err := m.EnsureRootAccount(context.Background(), mustName(t, "root"), mustPassword(t, "root-password"))
	require.NoError(t, err)
	return m, rootID
}

func mustName(t *testing.T, raw string) models.Name {
	t.Helper()
	name, err := models.NewName(raw)
	require.NoError(t, err)
	return name
}

func mustTitle(t *testing.T, raw string) models.Title {
	t.Helper()
	title, err := models.NewTitle(raw)
	require.NoError(t, err)
	return title
}

func mustContent(t *testing.T, raw string) models.Content {
	t.Helper()
	content, err := models.NewContent(raw)
	require.NoError(t, err)
	return content
}

func mustPassword(t *testing.T, raw string) security.Password {
	t.Helper()
	password, err := security.NewPassword(raw)
	require.NoError(t, err)
	return password
}

// registerUserAt registers an account and has root grant it the given level.
func registerUserAt(t *testing.T, m *Manager, rootID models.Id, username string, permission models.Permission) models.Id {
	t.Helper()
	ctx := context.Background()
	id, err := m.Register(ctx, mustName(t, username), mustPassword(t, "a decent password"))
	require.NoError(t, err)
	if permission != models.PermissionUnverified {
		require.NoError(t, m.EditPermission(ctx, rootID, id, permission))
	}
	return id
}

// newCategoryWith creates a category as root with the given thresholds.
func newCategoryWith(t *testing.T, m *Manager, rootID models.Id, title string, read models.Permission, write models.Permission) models.Id {
	t.Helper()
	id, err := m.NewCategory(context.Background(), rootID, mustTitle(t, title), read, write)
	require.NoError(t, err)
	return id
}
