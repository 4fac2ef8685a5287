package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionContextKey is a gin context key for the checkout session identifier.
	SessionContextKey = "sessionID"
	sessionCookieName = "wf_session"
	sessionCookieAge  = 30 * 24 * 60 * 60
)

// Session attaches a checkout session identifier to every request, minting a
// new one when the visitor arrives without a cookie.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookieName)
		if err != nil || id == "" {
			id = uuid.NewString()
			c.SetCookie(sessionCookieName, id, sessionCookieAge, "/", "", false, true)
		}

		c.Set(SessionContextKey, id)
		c.Next()
	}
}
