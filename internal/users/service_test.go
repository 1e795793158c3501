package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/DisguisedKairos/supermarket-backend/pkg/config"
	"github.com/DisguisedKairos/supermarket-backend/pkg/db/models"
	"github.com/DisguisedKairos/supermarket-backend/pkg/enums"
	pkgerrors "github.com/DisguisedKairos/supermarket-backend/pkg/errors"
	"github.com/DisguisedKairos/supermarket-backend/pkg/pagination"
	"github.com/DisguisedKairos/supermarket-backend/pkg/security"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  address TEXT NOT NULL DEFAULT '',
  contact TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL DEFAULT 'user',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	return db
}

func newUser(t *testing.T, db *gorm.DB, username, email string, role enums.Role) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func testPasswordCfg() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestServiceListUsers(t *testing.T) {
	db := setupUsersTestDB(t)
	svc, err := NewService(ServiceParams{Repo: NewRepository(db), PasswordCfg: testPasswordCfg()})
	require.NoError(t, err)

	newUser(t, db, "alice", "alice@example.com", enums.RoleUser)
	newUser(t, db, "bob", "bob@example.com", enums.RoleAdmin)

	page, err := svc.ListUsers(context.Background(), pagination.PageParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Users, 2)
	require.EqualValues(t, 2, page.Total)
	require.Equal(t, 1, page.Page)
}

func TestServiceUpdateRole(t *testing.T) {
	db := setupUsersTestDB(t)
	svc, err := NewService(ServiceParams{Repo: NewRepository(db), PasswordCfg: testPasswordCfg()})
	require.NoError(t, err)

	user := newUser(t, db, "alice", "alice@example.com", enums.RoleUser)

	updated, err := svc.UpdateRole(context.Background(), user.ID, enums.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, enums.RoleAdmin, updated.Role)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	require.Equal(t, enums.RoleAdmin, reloaded.Role)

	_, err = svc.UpdateRole(context.Background(), user.ID, enums.Role("superuser"))
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestServiceUpdateRoleNotFound(t *testing.T) {
	db := setupUsersTestDB(t)
	svc, err := NewService(ServiceParams{Repo: NewRepository(db), PasswordCfg: testPasswordCfg()})
	require.NoError(t, err)

	_, err = svc.UpdateRole(context.Background(), uuid.New(), enums.RoleAdmin)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestServiceResetPassword(t *testing.T) {
	db := setupUsersTestDB(t)
	svc, err := NewService(ServiceParams{Repo: NewRepository(db), PasswordCfg: testPasswordCfg()})
	require.NoError(t, err)

	user := newUser(t, db, "alice", "alice@example.com", enums.RoleUser)

	temp, err := svc.ResetPassword(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, temp, tempPasswordLength)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	ok, err := security.VerifyPassword(temp, reloaded.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestServiceDeleteUser(t *testing.T) {
	db := setupUsersTestDB(t)
	svc, err := NewService(ServiceParams{Repo: NewRepository(db), PasswordCfg: testPasswordCfg()})
	require.NoError(t, err)

	user := newUser(t, db, "alice", "alice@example.com", enums.RoleUser)
	require.NoError(t, svc.DeleteUser(context.Background(), user.ID))

	err = db.First(&models.User{}, "id = ?", user.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = svc.DeleteUser(context.Background(), user.ID)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}
