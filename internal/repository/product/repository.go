package product

import (
	"context"

	"webshop-api/internal/domain"
)

// Filter narrows List results; zero values mean "no constraint".
type Filter struct {
	CategoryID string
	Query      string
	Sort       string // "low-high" | "high-low" | ""
}

type Repository interface {
	List(ctx context.Context, f Filter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Image(ctx context.Context, id string) ([]byte, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error

	// DecrementStock atomically checks and decrements stock
	// (stock = stock - qty WHERE stock >= qty) and returns the new value.
	// A conditional update matching no row yields ErrInsufficientStock
	// with no mutation.
	DecrementStock(ctx context.Context, id string, qty int) (int, error)
	// IncrementStock adds qty back unconditionally and returns the new
	// value. Used for releases and for compensating a decrement whose
	// downstream write failed.
	IncrementStock(ctx context.Context, id string, qty int) (int, error)
	Stock(ctx context.Context, id string) (int, error)
}
