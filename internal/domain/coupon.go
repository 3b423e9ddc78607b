package domain

import "time"

// Coupon discount types.
const (
	CouponTypePercent = "PERCENT"
	CouponTypeFlat    = "FLAT"
)

type Coupon struct {
	ID               string     `json:"couponId"`
	Code             string     `json:"code"`
	Type             string     `json:"type"`
	Value            int64      `json:"value"`
	MinAmountCents   int64      `json:"minAmountCents"`
	MaxDiscountCents *int64     `json:"maxDiscountCents,omitempty"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
	UsageLimit       *int       `json:"usageLimit,omitempty"`
	UsedCount        int        `json:"usedCount"`
	Active           bool       `json:"active"`
	NewUserOnly      bool       `json:"newUserOnly"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// DiscountOutcome is the result of evaluating a coupon code against an
// order amount. Evaluation never mutates state; CouponID carries the
// identity checkout needs to record usage later.
type DiscountOutcome struct {
	Valid          bool
	Reason         string
	CouponID       string
	DiscountCents  int64
	NewAmountCents int64
}

// CouponUsage is one append-only redemption audit row.
type CouponUsage struct {
	ID                  string    `json:"id"`
	CouponID            string    `json:"couponId"`
	UserID              string    `json:"userId"`
	OrderID             *string   `json:"orderId,omitempty"`
	AmountBeforeCents   int64     `json:"amountBeforeCents"`
	DiscountAmountCents int64     `json:"discountAmountCents"`
	CreatedAt           time.Time `json:"createdAt"`
}
