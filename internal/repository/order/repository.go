package order

import (
	"context"

	"webshop-api/internal/domain"

	"github.com/jackc/pgx/v5"
)

type Repository interface {
	// Create and CreateLines run inside the caller's checkout
	// transaction so the order header, its lines, the cart deletion and
	// coupon usage commit or roll back as one unit.
	Create(ctx context.Context, tx pgx.Tx, userID string, totalCents int64, status string) (string, error)
	CreateLines(ctx context.Context, tx pgx.Tx, orderID string, lines []domain.OrderLine) error

	HistoryByUser(ctx context.Context, userID string) ([]domain.Order, error)
	Lines(ctx context.Context, userID, orderID string) ([]domain.OrderLine, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}
