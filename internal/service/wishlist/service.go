package wishlist

import (
	"context"
	"errors"

	"webshop-api/internal/domain"
	wishrepo "webshop-api/internal/repository/wishlist"
)

// Service manages per-user wishlists. Adding is idempotent: wishing a
// product twice is not an error.
type Service struct {
	repo wishrepo.Repository
}

func New(repo wishrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Add(ctx context.Context, userID, productID string) error {
	err := s.repo.Add(ctx, userID, productID)
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil
	}
	return err
}

func (s *Service) Remove(ctx context.Context, userID, productID string) error {
	return s.repo.Remove(ctx, userID, productID)
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.repo.Clear(ctx, userID)
}
