package category

import (
	"context"
	"errors"
	"strings"

	"webshop-api/internal/domain"
	catrepo "webshop-api/internal/repository/category"
)

type Service struct {
	repo catrepo.Repository
}

func New(repo catrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("category name required")
	}
	return s.repo.Create(ctx, name)
}

func (s *Service) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("category name required")
	}
	return s.repo.Rename(ctx, id, name)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
