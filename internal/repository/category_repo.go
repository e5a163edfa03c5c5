package repository

import (
	"context"

	"github.com/amJayem/used-books-resale-server/internal/domain/entity"
)

type CategoryRepository interface {
	ListAll(ctx context.Context) ([]*entity.Category, error)
	GetByID(ctx context.Context, categoryID string) (*entity.Category, error)
	// Seed inserts reference categories when the collection is empty.
	Seed(ctx context.Context, categories []*entity.Category) error
}
