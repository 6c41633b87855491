package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/takatama/bottle-store/internal/core/session"
	"github.com/takatama/bottle-store/internal/service"
)

type AuthHandler struct {
	auth     *service.AuthService
	sessions *session.Codec
	log      *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, sessions *session.Codec, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, log: log}
}

// ShowLogin handles GET /login; an optional message query is shown inline.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Message": c.Query("message")})
}

// Login handles POST /login. The failure message never says whether the
// email or the password was wrong.
func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	id, err := h.auth.Authenticate(c.Request.Context(), email, password)
	if err != nil {
		serverError(c, h.log, err)
		return
	}
	if id == nil {
		redirectToLogin(c, msgLoginFailed)
		return
	}
	if err := h.sessions.Issue(c.Writer, *id); err != nil {
		serverError(c, h.log, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/products")
}

// Logout handles GET /logout: revoke both cookies, back to the login view.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Revoke(c.Writer)
	redirectToLogin(c, msgLoggedOut)
}
