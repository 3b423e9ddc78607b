package domain

import "time"

// CartItem is one (user, product) cart row joined with catalog fields
// the storefront needs to render it.
type CartItem struct {
	UserID     string    `json:"-"`
	ProductID  string    `json:"productId"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"priceCents"`
	Quantity   int       `json:"qty"`
	Stock      int       `json:"stock"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
