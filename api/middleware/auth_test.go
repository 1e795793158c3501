package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	pkgauth "github.com/DisguisedKairos/supermarket-backend/pkg/auth"
	"github.com/DisguisedKairos/supermarket-backend/pkg/config"
	"github.com/DisguisedKairos/supermarket-backend/pkg/enums"
)

type fakeSessionChecker struct {
	ok  bool
	err error
}

func (f *fakeSessionChecker) HasSession(context.Context, string) (bool, error) {
	return f.ok, f.err
}

func authTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "middleware-secret",
		Issuer:            "supermarket",
		ExpirationMinutes: 15,
	}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, userID uuid.UUID) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID:   userID,
		Username: "shopper",
		Role:     enums.RoleUser,
		JTI:      uuid.NewString(),
	})
	require.NoError(t, err)
	return token
}

func TestAuthSeedsContext(t *testing.T) {
	cfg := authTestConfig()
	userID := uuid.New()

	var seenUser, seenRole, seenAccess string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = UserIDFromContext(r.Context())
		seenRole = RoleFromContext(r.Context())
		seenAccess = AccessIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := Auth(cfg, &fakeSessionChecker{ok: true}, nil)(next)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, cfg, userID))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, userID.String(), seenUser)
	require.Equal(t, string(enums.RoleUser), seenRole)
	require.NotEmpty(t, seenAccess)
}

func TestAuthRejectsMissingAndBadTokens(t *testing.T) {
	cfg := authTestConfig()
	handler := Auth(cfg, &fakeSessionChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	cfg := authTestConfig()
	handler := Auth(cfg, &fakeSessionChecker{ok: false}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, cfg, uuid.New()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
