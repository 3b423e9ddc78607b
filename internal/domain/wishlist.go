package domain

import "time"

type WishlistItem struct {
	UserID     string    `json:"-"`
	ProductID  string    `json:"productId"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"priceCents"`
	Stock      int       `json:"stock"`
	CreatedAt  time.Time `json:"createdAt"`
}
