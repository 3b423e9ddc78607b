package httpserver

import (
	"net/http"

	"webshop-api/internal/domain"
	prodrepo "webshop-api/internal/repository/product"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listProducts(c *gin.Context) {
	f := prodrepo.Filter{
		CategoryID: c.Query("category"),
		Query:      c.Query("q"),
		Sort:       c.Query("sort"),
	}
	products, err := h.deps.ProductSvc.List(c.Request.Context(), f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.ProductSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) productImage(c *gin.Context) {
	img, err := h.deps.ProductSvc.Image(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(img), img)
}

func (h *handlers) listCategories(c *gin.Context) {
	categories, err := h.deps.CategorySvc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
