package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mdw "github.com/takatama/bottle-store/internal/transport/http/middleware"
)

// Localized user-facing messages.
const (
	msgLoginFailed   = "ログインに失敗しました。"
	msgLoggedOut     = "ログアウトしました。"
	msgNoSuchProduct = "該当する商品がありません。"
	msgInvalidRate   = "評価の値が不正です。"
	msgServerError   = "サーバーエラーが発生しました。"
)

// clientError ends the request with a localized error page; the mutation (if
// any) has not been attempted.
func clientError(c *gin.Context, message string) {
	c.HTML(http.StatusBadRequest, "error.html", gin.H{"Message": message})
	c.Abort()
}

// serverError is the store-failure path: logged, never masked as success.
func serverError(c *gin.Context, log *zap.Logger, err error) {
	log.Error("request failed",
		zap.String("rid", mdw.RequestIDFrom(c)),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": msgServerError})
	c.Abort()
}

func redirectToLogin(c *gin.Context, message string) {
	c.Redirect(http.StatusSeeOther, "/login?message="+url.QueryEscape(message))
}
