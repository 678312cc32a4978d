package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quilltips-backend/pkg/jwt"
)

type fakeSessions struct {
	live bool
	err  error
}

func (f *fakeSessions) Validate(ctx context.Context, sessionID string) (bool, error) {
	return f.live, f.err
}

type fakeRoles struct {
	role   string
	err    error
	called bool
}

func (f *fakeRoles) Role(ctx context.Context, accountID uuid.UUID) (string, error) {
	f.called = true
	return f.role, f.err
}

const redirectBody = `{"error":{"code":"AUTH_REQUIRED","message":"authentication required"},"redirect":"/login","success":false}`

func guardedRequest(t *testing.T, guard gin.HandlerFunc, token string) (*httptest.ResponseRecorder, *bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reached := false
	router := gin.New()
	router.GET("/dashboard", guard, func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec, &reached
}

func accessToken(t *testing.T, manager *jwt.Manager, accountID uuid.UUID) string {
	t.Helper()
	token, err := manager.GenerateAccessToken(accountID.String(), "jane@example.com", "author", "session-1")
	require.NoError(t, err)
	return token
}

func TestAuthorGuardMissingTokenRedirects(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Minute, time.Hour)
	roles := &fakeRoles{role: "author"}
	guard := AuthorGuard(manager, &fakeSessions{live: true}, roles)

	rec, reached := guardedRequest(t, guard, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, redirectBody, rec.Body.String())
	assert.False(t, *reached)
	assert.False(t, roles.called)
}

func TestAuthorGuardRevokedSessionRedirectsBeforeRoleFetch(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Minute, time.Hour)
	roles := &fakeRoles{role: "author"}
	guard := AuthorGuard(manager, &fakeSessions{live: false}, roles)

	rec, reached := guardedRequest(t, guard, accessToken(t, manager, uuid.New()))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, redirectBody, rec.Body.String())
	assert.False(t, *reached)
	// Revocation wins before any profile lookup.
	assert.False(t, roles.called)
}

func TestAuthorGuardWrongRoleGetsSameRedirect(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Minute, time.Hour)
	guard := AuthorGuard(manager, &fakeSessions{live: true}, &fakeRoles{role: "reader"})

	rec, reached := guardedRequest(t, guard, accessToken(t, manager, uuid.New()))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, redirectBody, rec.Body.String())
	assert.False(t, *reached)
}

func TestAuthorGuardTamperedTokenGetsSameRedirect(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Minute, time.Hour)
	other := jwt.NewManager("other-secret", time.Minute, time.Hour)
	guard := AuthorGuard(manager, &fakeSessions{live: true}, &fakeRoles{role: "author"})

	rec, reached := guardedRequest(t, guard, accessToken(t, other, uuid.New()))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, redirectBody, rec.Body.String())
	assert.False(t, *reached)
}

func TestAuthorGuardPassesAndSetsContext(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Minute, time.Hour)
	accountID := uuid.New()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/dashboard", AuthorGuard(manager, &fakeSessions{live: true}, &fakeRoles{role: "author"}), func(c *gin.Context) {
		assert.Equal(t, accountID, MustAccountID(c))
		assert.Equal(t, "session-1", SessionIDFromContext(c))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, manager, accountID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthGuardRejectsRefreshTokenOnAccessRoute(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Minute, time.Hour)
	refresh, err := manager.GenerateRefreshToken(uuid.NewString(), "session-1")
	require.NoError(t, err)

	guard := AuthGuard(manager, &fakeSessions{live: true})
	rec, reached := guardedRequest(t, guard, refresh)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}
