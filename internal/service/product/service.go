package product

import (
	"context"
	"errors"
	"strings"

	"webshop-api/internal/domain"
	prodrepo "webshop-api/internal/repository/product"
)

// Service wraps catalog reads and the admin-side writes with input
// validation. Stock arithmetic lives in the repository; nothing here
// touches quantities.
type Service struct {
	repo prodrepo.Repository
}

func New(repo prodrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, f prodrepo.Filter) ([]domain.Product, error) {
	switch f.Sort {
	case "", "low-high", "high-low":
	default:
		f.Sort = ""
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Image(ctx context.Context, id string) ([]byte, error) {
	return s.repo.Image(ctx, id)
}

func (s *Service) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if err := validate(&p); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.ID == "" {
		return nil, errors.New("product id required")
	}
	if err := validate(&p); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validate(p *domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return errors.New("product name required")
	}
	if p.PriceCents <= 0 {
		return errors.New("price must be positive")
	}
	if p.Stock < 0 {
		return errors.New("stock cannot be negative")
	}
	if p.CategoryID == "" {
		return errors.New("category required")
	}
	return nil
}
