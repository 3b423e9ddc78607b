package httpserver

import (
	"errors"
	"net/http"

	"webshop-api/internal/domain"
	checkoutsvc "webshop-api/internal/service/checkout"

	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	SelectedItems  []string `json:"selectedItems" binding:"required"`
	CouponCode     string   `json:"couponCode"`
	Amount         int64    `json:"amount"`
	OriginalAmount int64    `json:"originalAmount"`
}

func (h *handlers) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	conf, err := h.deps.CheckoutSvc.Checkout(c.Request.Context(), currentUser(c).ID, checkoutsvc.Input{
		SelectedProductIDs:  req.SelectedItems,
		CouponCode:          req.CouponCode,
		AmountCents:         req.Amount,
		OriginalAmountCents: req.OriginalAmount,
	})
	if err != nil {
		var couponErr *checkoutsvc.CouponInvalidError
		switch {
		case errors.Is(err, checkoutsvc.ErrNoItemsSelected):
			respondError(c, http.StatusBadRequest, "no items selected")
		case errors.As(err, &couponErr):
			respondError(c, http.StatusBadRequest, couponErr.Reason)
		case errors.Is(err, domain.ErrCouponExhausted):
			// Lost the race between evaluation and redemption; nothing
			// was written.
			respondError(c, http.StatusConflict, "coupon no longer available")
		default:
			respondServiceError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"orderId":        conf.OrderID,
		"paymentRef":     conf.PaymentRef,
		"totalAmount":    conf.TotalCents,
		"discountAmount": conf.DiscountCents,
	})
}
