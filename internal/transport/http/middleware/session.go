package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/takatama/bottle-store/internal/core/session"
)

const keyIdentity = "identity"

// LoginPrompt is shown when an anonymous request reaches a protected route.
const LoginPrompt = "ログインしてください。"

// RequireSession is the access-control gate: without a valid cookie pair the
// request is redirected to the login view, otherwise the verified identity
// is placed in the request context for handlers.
func RequireSession(codec *session.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := codec.Read(c.Request)
		if id == nil {
			c.Redirect(http.StatusSeeOther, "/login?message="+url.QueryEscape(LoginPrompt))
			c.Abort()
			return
		}
		c.Set(keyIdentity, *id)
		c.Next()
	}
}

// Identity returns the session identity stored by RequireSession.
func Identity(c *gin.Context) (session.Identity, bool) {
	v, ok := c.Get(keyIdentity)
	if !ok {
		return session.Identity{}, false
	}
	id, ok := v.(session.Identity)
	return id, ok
}
