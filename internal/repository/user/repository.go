package user

import (
	"context"

	"webshop-api/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	SetBlocked(ctx context.Context, id string, blocked bool) error
	// UpsertAdmin seeds or refreshes the persisted admin credential.
	UpsertAdmin(ctx context.Context, email, passwordHash string) error
}
