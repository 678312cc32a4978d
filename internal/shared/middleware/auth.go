package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quilltips-backend/pkg/jwt"
)

// LoginRoute is where the frontend sends unauthenticated users.
const LoginRoute = "/login"

// SessionValidator checks whether a session is still live in the session
// store. Logout revokes the key, so a revoked session fails here before any
// profile lookup happens.
type SessionValidator interface {
	Validate(ctx context.Context, sessionID string) (bool, error)
}

// RoleFetcher resolves the role of an account. Defined here (not in the
// account domain) to avoid coupling the middleware to a concrete service.
type RoleFetcher interface {
	Role(ctx context.Context, accountID uuid.UUID) (string, error)
}

// Context keys set by the guard
const (
	ContextKeyAccountID = "accountID"
	ContextKeySessionID = "sessionID"
)

// AuthorGuard gates the author dashboard. Fail-closed: every failure mode
// (missing/malformed token, revoked session, profile fetch error, wrong role)
// produces the identical login redirect, never a distinct error.
func AuthorGuard(manager *jwt.Manager, sessions SessionValidator, roles RoleFetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, manager)
		if !ok {
			redirectToLogin(c)
			return
		}

		// Revocation check runs before the role fetch so a sign-out always
		// wins over an in-flight verification.
		live, err := sessions.Validate(c.Request.Context(), claims.SessionID)
		if err != nil || !live {
			redirectToLogin(c)
			return
		}

		accountID, err := uuid.Parse(claims.AccountID)
		if err != nil {
			redirectToLogin(c)
			return
		}

		role, err := roles.Role(c.Request.Context(), accountID)
		if err != nil || role != "author" {
			redirectToLogin(c)
			return
		}

		c.Set(ContextKeyAccountID, accountID)
		c.Set(ContextKeySessionID, claims.SessionID)
		c.Next()
	}
}

// AuthGuard authenticates without requiring the author role; used by the
// session endpoints themselves (logout, refresh, event stream).
func AuthGuard(manager *jwt.Manager, sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, manager)
		if !ok {
			redirectToLogin(c)
			return
		}

		live, err := sessions.Validate(c.Request.Context(), claims.SessionID)
		if err != nil || !live {
			redirectToLogin(c)
			return
		}

		accountID, err := uuid.Parse(claims.AccountID)
		if err != nil {
			redirectToLogin(c)
			return
		}

		c.Set(ContextKeyAccountID, accountID)
		c.Set(ContextKeySessionID, claims.SessionID)
		c.Next()
	}
}

func bearerClaims(c *gin.Context, manager *jwt.Manager) (*jwt.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := manager.ValidateAccessToken(parts[1])
	if err != nil {
		return nil, false
	}

	return claims, true
}

// redirectToLogin is the single fail-closed response body, identical across
// every verification failure.
func redirectToLogin(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success":  false,
		"redirect": LoginRoute,
		"error": gin.H{
			"code":    "AUTH_REQUIRED",
			"message": "authentication required",
		},
	})
	c.Abort()
}

// MustAccountID returns the account id set by the guard. Handlers behind the
// guard can rely on it being present.
func MustAccountID(c *gin.Context) uuid.UUID {
	v, _ := c.Get(ContextKeyAccountID)
	id, _ := v.(uuid.UUID)
	return id
}

// SessionIDFromContext returns the session id set by the guard.
func SessionIDFromContext(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}
