package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionChecker reports whether a complete credential pair is stored.
type SessionChecker interface {
	Authenticated() bool
}

// sessionErrorResponse matches the handlers.ErrorResponse structure.
type sessionErrorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
	TraceID  string `json:"trace_id,omitempty"`
}

// RequireSession gates routes that only make sense with a stored credential
// pair. The credential itself is not verified here; the platform is the
// authority, and its rejection is handled downstream.
func RequireSession(sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessions == nil || !sessions.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, sessionErrorResponse{
				Error:    "authentication required",
				Redirect: "/login",
				TraceID:  GetTraceID(c),
			})
			return
		}

		c.Next()
	}
}
