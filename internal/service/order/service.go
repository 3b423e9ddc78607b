package order

import (
	"context"
	"errors"
	"io"
	"log"

	"webshop-api/internal/domain"
	"webshop-api/internal/service/cart"
)

type orderRepo interface {
	HistoryByUser(ctx context.Context, userID string) ([]domain.Order, error)
	Lines(ctx context.Context, userID, orderID string) ([]domain.OrderLine, error)
}

type cartAdder interface {
	Add(ctx context.Context, userID, productID string, qty int) (*cart.Result, error)
}

// Service serves order history and turns past orders back into cart
// contents.
type Service struct {
	orders orderRepo
	cart   cartAdder
	logger *log.Logger
}

func New(orders orderRepo, cart cartAdder, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{orders: orders, cart: cart, logger: logger}
}

func (s *Service) History(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.HistoryByUser(ctx, userID)
}

// ReorderResult reports which historical lines made it back into the
// cart and which were skipped because the product ran out of stock or
// disappeared from the catalog.
type ReorderResult struct {
	Added   []domain.OrderLine `json:"added"`
	Skipped []domain.OrderLine `json:"skipped"`
}

// Reorder adds every line of a past order back to the user's cart at
// current prices. Lines that cannot be satisfied are skipped rather than
// failing the whole operation.
func (s *Service) Reorder(ctx context.Context, userID, orderID string) (*ReorderResult, error) {
	lines, err := s.orders.Lines(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrNotFound
	}

	res := &ReorderResult{}
	for _, line := range lines {
		_, err := s.cart.Add(ctx, userID, line.ProductID, line.Quantity)
		switch {
		case err == nil:
			res.Added = append(res.Added, line)
		case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrNotFound):
			s.logger.Printf("reorder: skipping line order_id=%s product_id=%s qty=%d error=%v", orderID, line.ProductID, line.Quantity, err)
			res.Skipped = append(res.Skipped, line)
		default:
			return nil, err
		}
	}
	return res, nil
}
