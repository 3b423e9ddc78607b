package httpserver

import (
	"net/http"

	"webshop-api/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *handlers) orderHistory(c *gin.Context) {
	orders, err := h.deps.OrderSvc.History(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *handlers) reorder(c *gin.Context) {
	res, err := h.deps.OrderSvc.Reorder(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"added":   res.Added,
		"skipped": res.Skipped,
	})
}
