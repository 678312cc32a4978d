package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quilltips-backend/internal/domains/analytics/visitor"
)

const (
	ContextKeyVisitorID = "visitor_id"

	visitorCookieMaxAge = 60 * 60 * 24 * 365 // 1 year in seconds
)

// VisitorMiddlewareConfig holds cookie settings for the visitor id cookie.
type VisitorMiddlewareConfig struct {
	CookieDomain   string
	CookiePath     string
	CookieSecure   bool
	CookieSameSite http.SameSite
}

// DefaultVisitorMiddlewareConfig returns secure default configuration
func DefaultVisitorMiddlewareConfig() VisitorMiddlewareConfig {
	return VisitorMiddlewareConfig{
		CookieDomain:   "",
		CookiePath:     "/",
		CookieSecure:   true, // set false for localhost dev
		CookieSameSite: http.SameSiteLaxMode,
	}
}

// VisitorMiddleware resolves the pseudo-anonymous visitor identity for the
// request and sets it in the gin context. The cookie jar is the durable
// storage behind the visitor.Provider; when the client refuses cookies the
// provider degrades to an ephemeral "anon-" id.
func VisitorMiddleware(config VisitorMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		provider := visitor.NewProvider(&cookieStorage{c: c, config: config})
		c.Set(ContextKeyVisitorID, provider.VisitorID())
		c.Next()
	}
}

// VisitorIDFromContext returns the visitor id set by VisitorMiddleware.
func VisitorIDFromContext(c *gin.Context) string {
	return c.GetString(ContextKeyVisitorID)
}

// cookieStorage adapts the request's cookie jar to visitor.Storage.
type cookieStorage struct {
	c      *gin.Context
	config VisitorMiddlewareConfig
}

func (s *cookieStorage) Get(key string) (string, error) {
	value, err := s.c.Cookie(key)
	if err == http.ErrNoCookie {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *cookieStorage) Set(key, value string) error {
	s.c.SetSameSite(s.config.CookieSameSite)
	s.c.SetCookie(
		key,
		value,
		visitorCookieMaxAge,
		s.config.CookiePath,
		s.config.CookieDomain,
		s.config.CookieSecure,
		true, // httpOnly
	)
	return nil
}
