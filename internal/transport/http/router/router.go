package router

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/takatama/bottle-store/internal/core/session"
	"github.com/takatama/bottle-store/internal/transport/http/handler"
	mdw "github.com/takatama/bottle-store/internal/transport/http/middleware"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Products *handler.ProductHandler
	Reviews  *handler.ReviewHandler
}

// New builds the engine: hardening middleware on everything, login routes
// open, product and review routes behind the session gate.
func New(l *zap.Logger, codec *session.Codec, h Handlers, templateGlob string) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.SecureHeaders(),
		mdw.AccessLog(l),
	)

	r.LoadHTMLGlob(templateGlob)

	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(mdw.Registry, promhttp.HandlerOpts{})))

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusSeeOther, "/products") })
	r.GET("/login", h.Auth.ShowLogin)
	r.POST("/login", h.Auth.Login)
	r.GET("/logout", h.Auth.Logout)

	authed := r.Group("")
	authed.Use(mdw.RequireSession(codec))
	authed.GET("/products", h.Products.List)
	authed.GET("/products/:product_id", h.Products.Show)
	authed.POST("/reviews", h.Reviews.Post)

	return r
}
