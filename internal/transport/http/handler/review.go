package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/takatama/bottle-store/internal/service"
	mdw "github.com/takatama/bottle-store/internal/transport/http/middleware"
)

type ReviewHandler struct {
	reviews *service.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(reviews *service.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, log: log}
}

// Post handles POST /reviews. The acting user comes from the session only;
// whatever user id a form might carry is never read. _method=delete removes
// the caller's review, anything else upserts it.
func (h *ReviewHandler) Post(c *gin.Context) {
	id, ok := mdw.Identity(c)
	if !ok {
		redirectToLogin(c, mdw.LoginPrompt)
		return
	}

	productID, err := strconv.ParseInt(c.PostForm("product_id"), 10, 64)
	if err != nil {
		clientError(c, msgNoSuchProduct)
		return
	}

	if c.PostForm("_method") == "delete" {
		if err := h.reviews.Remove(c.Request.Context(), id, productID); err != nil {
			serverError(c, h.log, err)
			return
		}
		c.Redirect(http.StatusSeeOther, "/products/"+strconv.FormatInt(productID, 10))
		return
	}

	rate, err := strconv.Atoi(c.PostForm("rate"))
	if err != nil {
		clientError(c, msgInvalidRate)
		return
	}
	comment := c.PostForm("comment") // absent form value is ""

	err = h.reviews.Post(c.Request.Context(), id, productID, rate, comment)
	if errors.Is(err, service.ErrRateOutOfRange) {
		clientError(c, msgInvalidRate)
		return
	}
	if err != nil {
		serverError(c, h.log, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/products")
}
