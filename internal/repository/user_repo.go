package repository

import (
	"context"

	"github.com/amJayem/used-books-resale-server/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) (string, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, userID string) (*entity.User, error)
	DeleteByID(ctx context.Context, userID string) error
	ListByRole(ctx context.Context, role entity.UserRole) ([]*entity.User, error)
}
