package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/takatama/bottle-store/internal/service"
	mdw "github.com/takatama/bottle-store/internal/transport/http/middleware"
)

// selectableRates drives the rating dropdown, highest first.
var selectableRates = []int{5, 4, 3, 2, 1}

type ProductHandler struct {
	catalog *service.CatalogService
	reviews *service.ReviewService
	log     *zap.Logger
}

func NewProductHandler(catalog *service.CatalogService, reviews *service.ReviewService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, reviews: reviews, log: log}
}

// List handles GET /products with an optional q substring filter.
func (h *ProductHandler) List(c *gin.Context) {
	id, _ := mdw.Identity(c)
	query := c.Query("q")

	products, err := h.catalog.List(c.Request.Context(), query)
	if err != nil {
		serverError(c, h.log, err)
		return
	}
	c.HTML(http.StatusOK, "products.html", gin.H{
		"Nickname": id.Nickname,
		"Query":    query,
		"Products": products,
	})
}

// Show handles GET /products/:product_id: the product, its recomputed
// aggregate, all reviews with author nickname, and the caller's own review
// pre-filling the form.
func (h *ProductHandler) Show(c *gin.Context) {
	id, _ := mdw.Identity(c)

	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		clientError(c, msgNoSuchProduct)
		return
	}
	product, err := h.catalog.Find(c.Request.Context(), productID)
	if err != nil {
		serverError(c, h.log, err)
		return
	}
	if product == nil {
		clientError(c, msgNoSuchProduct)
		return
	}

	reviews, rating, err := h.reviews.ForProduct(c.Request.Context(), productID)
	if err != nil {
		serverError(c, h.log, err)
		return
	}
	own, err := h.reviews.Own(c.Request.Context(), id, productID)
	if err != nil {
		serverError(c, h.log, err)
		return
	}

	data := gin.H{
		"Nickname":  id.Nickname,
		"Product":   product,
		"Rating":    rating,
		"Reviews":   reviews,
		"Rates":     selectableRates,
		"HasOwn":    own != nil,
		"MyRate":    0,
		"MyComment": "",
	}
	if own != nil {
		data["MyRate"] = own.Rate
		data["MyComment"] = own.Comment
	}
	c.HTML(http.StatusOK, "product.html", data)
}
