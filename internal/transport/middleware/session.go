package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "session_id"

	sessionIDKey = "session_id"
)

// SessionAcquirer creates the session when it does not exist yet.
type SessionAcquirer interface {
	Acquire(ctx context.Context, id string) (string, error)
}

// Session resolves the visitor's session from the header or the cookie and
// starts a new one when neither carries a valid id.
func Session(sessions SessionAcquirer, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				id = cookie
			}
		}
		if id != "" {
			if _, err := uuid.Parse(id); err != nil {
				logrus.WithField("session_id", id).Debug("Ignoring malformed session id")
				id = ""
			}
		}

		id, err := sessions.Acquire(c.Request.Context(), id)
		if err != nil {
			logrus.Errorf("Failed to acquire session: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
			return
		}

		c.Set(sessionIDKey, id)
		c.Header(SessionHeader, id)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, int(ttl.Seconds()), "/", "", false, true)

		c.Next()
	}
}

// SessionID returns the id resolved by Session, or "" outside of it.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
