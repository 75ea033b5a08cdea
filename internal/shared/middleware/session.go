package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookieName = "sk_session"
	SessionMaxAge     = 60 * 60 * 24 * 30 // 30 days in seconds

	ContextKeySessionID = "session_id"
	ContextKeyOwnerKey  = "owner_key"
)

type SessionMiddlewareConfig struct {
	CookieDomain   string
	CookiePath     string
	CookieSecure   bool
	CookieSameSite http.SameSite
}

func DefaultSessionMiddlewareConfig(secure bool) SessionMiddlewareConfig {
	return SessionMiddlewareConfig{
		CookiePath:     "/",
		CookieSecure:   secure,
		CookieSameSite: http.SameSiteLaxMode,
	}
}

// SessionMiddleware gives every visitor an owner key for builder sessions:
// "user:<id>" when authenticated, otherwise "anon:<cookie id>". The cookie is
// issued on first visit. Must run after OptionalAuthMiddleware.
func SessionMiddleware(config SessionMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.New().String()
			c.SetSameSite(config.CookieSameSite)
			c.SetCookie(SessionCookieName, sessionID, SessionMaxAge,
				config.CookiePath, config.CookieDomain, config.CookieSecure, true)
		}
		c.Set(ContextKeySessionID, sessionID)

		if userID, ok := GetAuthenticatedUserID(c); ok {
			c.Set(ContextKeyOwnerKey, "user:"+userID)
		} else {
			c.Set(ContextKeyOwnerKey, "anon:"+sessionID)
		}

		c.Next()
	}
}

func GetOwnerKey(c *gin.Context) string {
	return c.GetString(ContextKeyOwnerKey)
}
