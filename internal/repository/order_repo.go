package repository

import (
	"context"

	"github.com/amJayem/used-books-resale-server/internal/domain/entity"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) (string, error)
	GetByID(ctx context.Context, orderID string) (*entity.Order, error)
	ListByBuyer(ctx context.Context, buyerEmail string) ([]*entity.Order, error)
	// MarkPaid flips the payment flag exactly once. A second call returns
	// ErrAlreadyPaid, a missing order ErrNotFound.
	MarkPaid(ctx context.Context, orderID string) (*entity.Order, error)
}
