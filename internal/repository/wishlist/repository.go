package wishlist

import (
	"context"

	"webshop-api/internal/domain"
)

type Repository interface {
	// Add returns ErrAlreadyExists when the product is already wished.
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
	List(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	Clear(ctx context.Context, userID string) error
}
