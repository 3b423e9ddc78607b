package cart

import (
	"context"

	"webshop-api/internal/domain"

	"github.com/jackc/pgx/v5"
)

type Repository interface {
	Items(ctx context.Context, userID string) ([]domain.CartItem, error)
	Quantity(ctx context.Context, userID, productID string) (int, error)
	// Add upserts the (user, product) row, accumulating quantity.
	Add(ctx context.Context, userID, productID string, qty int) error
	SetQuantity(ctx context.Context, userID, productID string, qty int) error
	// Remove deletes the row and reports the quantity it held.
	Remove(ctx context.Context, userID, productID string) (int, error)
	Clear(ctx context.Context, userID string) error

	// DeleteSelected removes the checked-out product rows inside the
	// caller's checkout transaction.
	DeleteSelected(ctx context.Context, tx pgx.Tx, userID string, productIDs []string) error
}
