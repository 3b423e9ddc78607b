package httpserver

import (
	"net/http"

	couponsvc "webshop-api/internal/service/coupon"

	"github.com/gin-gonic/gin"
)

type validateCouponRequest struct {
	Code        string `json:"code"`
	AmountCents int64  `json:"amount"`
}

func (h *handlers) listCoupons(c *gin.Context) {
	listings, err := h.deps.CouponSvc.ListForUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if listings == nil {
		listings = []couponsvc.Listing{}
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "coupons": listings})
}

// validateCoupon previews a coupon against a cart amount without
// touching usage counters.
func (h *handlers) validateCoupon(c *gin.Context) {
	var req validateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	outcome, err := h.deps.CouponSvc.Evaluate(c.Request.Context(), req.Code, req.AmountCents, currentUser(c).ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":          outcome.Valid,
		"discountAmount": outcome.DiscountCents,
		"newAmount":      outcome.NewAmountCents,
		"message":        outcome.Reason,
	})
}
