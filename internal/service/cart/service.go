package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"webshop-api/internal/domain"
)

type cartRepo interface {
	Items(ctx context.Context, userID string) ([]domain.CartItem, error)
	Quantity(ctx context.Context, userID, productID string) (int, error)
	Add(ctx context.Context, userID, productID string, qty int) error
	SetQuantity(ctx context.Context, userID, productID string, qty int) error
	Remove(ctx context.Context, userID, productID string) (int, error)
	Clear(ctx context.Context, userID string) error
}

type stockRepo interface {
	DecrementStock(ctx context.Context, id string, qty int) (int, error)
	IncrementStock(ctx context.Context, id string, qty int) (int, error)
}

// Service keeps cart rows and product stock consistent. Stock is
// reserved (decremented) before any cart write that reduces
// availability, with a compensating increment if that write fails;
// it is released (incremented) after writes that give availability back.
type Service struct {
	repo   cartRepo
	stock  stockRepo
	logger *log.Logger
}

func New(repo cartRepo, stock stockRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, stock: stock, logger: logger}
}

// Result carries the cart state after a mutation plus the new stock
// levels of every product the mutation touched.
type Result struct {
	Items         []domain.CartItem
	UpdatedStocks map[string]int
}

func (s *Service) Items(ctx context.Context, userID string) ([]domain.CartItem, error) {
	return s.repo.Items(ctx, userID)
}

func (s *Service) Add(ctx context.Context, userID, productID string, qty int) (*Result, error) {
	if qty <= 0 {
		return nil, errors.New("quantity must be positive")
	}

	newStock, err := s.stock.DecrementStock(ctx, productID, qty)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Add(ctx, userID, productID, qty); err != nil {
		// The reservation went through but the cart write did not; give
		// the stock back so availability is not understated.
		if _, compErr := s.stock.IncrementStock(ctx, productID, qty); compErr != nil {
			s.logger.Printf("cart: compensation failed product_id=%s qty=%d error=%v", productID, qty, compErr)
		}
		return nil, fmt.Errorf("add cart row: %w", err)
	}

	return s.result(ctx, userID, map[string]int{productID: newStock})
}

func (s *Service) Update(ctx context.Context, userID, productID string, newQty int) (*Result, error) {
	if newQty <= 0 {
		return nil, errors.New("quantity must be positive")
	}

	currentQty, err := s.repo.Quantity(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	stocks := map[string]int{}
	switch {
	case newQty == currentQty:
		// nothing to do
	case newQty > currentQty:
		diff := newQty - currentQty
		newStock, err := s.stock.DecrementStock(ctx, productID, diff)
		if err != nil {
			return nil, err
		}
		if err := s.repo.SetQuantity(ctx, userID, productID, newQty); err != nil {
			if _, compErr := s.stock.IncrementStock(ctx, productID, diff); compErr != nil {
				s.logger.Printf("cart: compensation failed product_id=%s qty=%d error=%v", productID, diff, compErr)
			}
			return nil, fmt.Errorf("update cart row: %w", err)
		}
		stocks[productID] = newStock
	default:
		diff := currentQty - newQty
		if err := s.repo.SetQuantity(ctx, userID, productID, newQty); err != nil {
			return nil, fmt.Errorf("update cart row: %w", err)
		}
		newStock, err := s.stock.IncrementStock(ctx, productID, diff)
		if err != nil {
			s.logger.Printf("cart: stock release failed product_id=%s qty=%d error=%v", productID, diff, err)
		} else {
			stocks[productID] = newStock
		}
	}

	return s.result(ctx, userID, stocks)
}

func (s *Service) Remove(ctx context.Context, userID, productID string) (*Result, error) {
	qty, err := s.repo.Remove(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	stocks := map[string]int{}
	if qty > 0 {
		newStock, err := s.stock.IncrementStock(ctx, productID, qty)
		if err != nil {
			s.logger.Printf("cart: stock release failed product_id=%s qty=%d error=%v", productID, qty, err)
		} else {
			stocks[productID] = newStock
		}
	}

	return s.result(ctx, userID, stocks)
}

func (s *Service) Clear(ctx context.Context, userID string) (*Result, error) {
	items, err := s.repo.Items(ctx, userID)
	if err != nil {
		return nil, err
	}

	stocks := map[string]int{}
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		newStock, err := s.stock.IncrementStock(ctx, it.ProductID, it.Quantity)
		if err != nil {
			s.logger.Printf("cart: stock release failed product_id=%s qty=%d error=%v", it.ProductID, it.Quantity, err)
			continue
		}
		stocks[it.ProductID] = newStock
	}

	if err := s.repo.Clear(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	return s.result(ctx, userID, stocks)
}

func (s *Service) result(ctx context.Context, userID string, stocks map[string]int) (*Result, error) {
	items, err := s.repo.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Result{Items: items, UpdatedStocks: stocks}, nil
}
