package httpserver

import (
	"net/http"

	"webshop-api/internal/domain"
	cartsvc "webshop-api/internal/service/cart"

	"github.com/gin-gonic/gin"
)

type cartMutationRequest struct {
	Action    string `json:"action" binding:"required"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"qty"`
}

func (h *handlers) getCart(c *gin.Context) {
	items, err := h.deps.CartSvc.Items(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// mutateCart dispatches on the action field the same way the storefront
// posts it: add, update, remove or clear in one endpoint.
func (h *handlers) mutateCart(c *gin.Context) {
	var req cartMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	userID := currentUser(c).ID

	var (
		res *cartsvc.Result
		err error
	)
	switch req.Action {
	case "add":
		res, err = h.deps.CartSvc.Add(ctx, userID, req.ProductID, req.Quantity)
	case "update":
		res, err = h.deps.CartSvc.Update(ctx, userID, req.ProductID, req.Quantity)
	case "remove":
		res, err = h.deps.CartSvc.Remove(ctx, userID, req.ProductID)
	case "clear":
		res, err = h.deps.CartSvc.Clear(ctx, userID)
	default:
		respondError(c, http.StatusBadRequest, "unknown action")
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := res.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"items":         items,
		"updatedStocks": res.UpdatedStocks,
	})
}
