package httpserver

import (
	"net/http"

	"webshop-api/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listWishlist(c *gin.Context) {
	items, err := h.deps.WishlistSvc.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if items == nil {
		items = []domain.WishlistItem{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *handlers) addWishlist(c *gin.Context) {
	if err := h.deps.WishlistSvc.Add(c.Request.Context(), currentUser(c).ID, c.Param("productId")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *handlers) removeWishlist(c *gin.Context) {
	if err := h.deps.WishlistSvc.Remove(c.Request.Context(), currentUser(c).ID, c.Param("productId")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *handlers) clearWishlist(c *gin.Context) {
	if err := h.deps.WishlistSvc.Clear(c.Request.Context(), currentUser(c).ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
