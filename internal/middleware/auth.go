// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dravik/licensing-console/internal/services"
)

const workspaceKey = "workspace"

// LoginPath is where visitors without a session are sent.
const LoginPath = "/login"

// Sessions is what the gate needs to know about the signed-in user.
type Sessions interface {
	Current() *services.Workspace
	Logout() error
}

// SessionRequired redirects to the login page unless a session is active.
// It runs before the page handler, so no backend fetch starts for a
// visitor who is not signed in. A session whose credential has expired is
// ended on the spot.
func SessionRequired(sessions Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws := activeWorkspace(sessions)
		if ws == nil {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		c.Set(workspaceKey, ws)
		c.Next()
	}
}

// OptionalSession exposes the workspace to handlers that render either
// way, such as the landing page.
func OptionalSession(sessions Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ws := activeWorkspace(sessions); ws != nil {
			c.Set(workspaceKey, ws)
		}
		c.Next()
	}
}

func activeWorkspace(sessions Sessions) *services.Workspace {
	ws := sessions.Current()
	if ws == nil {
		return nil
	}
	if exp, ok := ws.Session().ExpiresAt(); ok && !time.Now().Before(exp) {
		logrus.WithField("expired_at", exp).Info("Session credential expired")
		if err := sessions.Logout(); err != nil {
			logrus.WithError(err).Warn("Failed to clear expired session")
		}
		return nil
	}
	return ws
}

// CurrentWorkspace returns the workspace set by the session middleware.
func CurrentWorkspace(c *gin.Context) (*services.Workspace, bool) {
	v, exists := c.Get(workspaceKey)
	if !exists {
		return nil, false
	}
	ws, ok := v.(*services.Workspace)
	return ws, ok && ws != nil
}
