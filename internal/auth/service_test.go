package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/DisguisedKairos/supermarket-backend/internal/users"
	pkgauth "github.com/DisguisedKairos/supermarket-backend/pkg/auth"
	"github.com/DisguisedKairos/supermarket-backend/pkg/auth/session"
	"github.com/DisguisedKairos/supermarket-backend/pkg/config"
	"github.com/DisguisedKairos/supermarket-backend/pkg/enums"
	pkgerrors "github.com/DisguisedKairos/supermarket-backend/pkg/errors"
)

type fakeSessionManager struct {
	tokens map[string]string
	nextID string
}

func newFakeSessionManager() *fakeSessionManager {
	return &fakeSessionManager{tokens: map[string]string{}}
}

func (f *fakeSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	f.tokens[accessID] = token
	return token, nil
}

func (f *fakeSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := f.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(f.tokens, oldAccessID)
	newID := f.nextID
	if newID == "" {
		newID = uuid.NewString()
	}
	token := "refresh-" + newID
	f.tokens[newID] = token
	return newID, token, nil
}

func (f *fakeSessionManager) Revoke(_ context.Context, accessID string) error {
	delete(f.tokens, accessID)
	return nil
}

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	usersTable := `
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
	require.NoError(t, db.Exec(usersTable).Error)
	return db
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "supermarket",
		ExpirationMinutes: 30,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newAuthService(t *testing.T, db *gorm.DB, sessions sessionManager) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		UserRepo:       users.NewRepository(db),
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordCfg:    testPasswordConfig(),
	})
	require.NoError(t, err)
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := newAuthService(t, db, newFakeSessionManager())
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Username: "shopper",
		Email:    "Shopper@Example.com",
		Password: "hunter22",
		Address:  " 1 Market Street ",
		Contact:  "555-0101",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, "shopper@example.com", resp.User.Email)
	require.Equal(t, enums.RoleUser, resp.User.Role)
	require.Equal(t, "1 Market Street", resp.User.Address)
	require.Equal(t, "555-0101", resp.User.Contact)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, claims.UserID)
	require.Equal(t, enums.RoleUser, claims.Role)
	require.NotEmpty(t, claims.ID)

	login, err := svc.Login(ctx, LoginRequest{Email: "shopper@example.com", Password: "hunter22"})
	require.NoError(t, err)
	require.NotEmpty(t, login.AccessToken)
}

func TestRegisterAdminAssignsAdminRole(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := newAuthService(t, db, newFakeSessionManager())

	resp, err := svc.RegisterAdmin(context.Background(), RegisterRequest{
		Username: "manager",
		Email:    "manager@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	require.Equal(t, enums.RoleAdmin, resp.User.Role)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, enums.RoleAdmin, claims.Role)
}

func TestRegisterValidation(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := newAuthService(t, db, newFakeSessionManager())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "a@b.com", Password: "hunter22"})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = svc.Register(ctx, RegisterRequest{Username: "x", Email: "not-an-email", Password: "hunter22"})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = svc.Register(ctx, RegisterRequest{Username: "x", Email: "a@b.com", Password: "short"})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := newAuthService(t, db, newFakeSessionManager())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "one", Email: "dup@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "two", Email: "DUP@example.com", Password: "hunter22"})
	require.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))
}

func TestLoginInvalidCredentials(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := newAuthService(t, db, newFakeSessionManager())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "shopper", Email: "s@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "s@example.com", Password: "wrong-pass"})
	require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
	require.Contains(t, err.Error(), invalidCredentialsMessage)

	_, err = svc.Login(ctx, LoginRequest{Email: "missing@example.com", Password: "hunter22"})
	require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
}

func TestRefreshRotatesSession(t *testing.T) {
	db := setupAuthTestDB(t)
	sessions := newFakeSessionManager()
	svc := newAuthService(t, db, sessions)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{Username: "shopper", Email: "s@example.com", Password: "hunter22"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, RefreshRequest{
		AccessToken:  reg.AccessToken,
		RefreshToken: reg.RefreshToken,
	})
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
	require.NotEqual(t, reg.RefreshToken, refreshed.RefreshToken)

	// the old pair no longer rotates
	_, err = svc.Refresh(ctx, RefreshRequest{
		AccessToken:  reg.AccessToken,
		RefreshToken: reg.RefreshToken,
	})
	require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
}

func TestLogoutRevokesSession(t *testing.T) {
	db := setupAuthTestDB(t)
	sessions := newFakeSessionManager()
	svc := newAuthService(t, db, sessions)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{Username: "shopper", Email: "s@example.com", Password: "hunter22"})
	require.NoError(t, err)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), reg.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims.ID))

	_, err = svc.Refresh(ctx, RefreshRequest{
		AccessToken:  reg.AccessToken,
		RefreshToken: reg.RefreshToken,
	})
	require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
}
