package repository

import (
	"context"

	"github.com/amJayem/used-books-resale-server/internal/domain/entity"
)

type UpdateListingStatusParams struct {
	ListingID string
	Status    entity.ListingStatus
}

type SetAdvertiseParams struct {
	ListingID string
	Advertise bool
}

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) (string, error)
	GetByID(ctx context.Context, listingID string) (*entity.Listing, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]*entity.Listing, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*entity.Listing, error)
	ListFeatured(ctx context.Context) ([]*entity.Listing, error)
	UpdateStatus(ctx context.Context, params UpdateListingStatusParams) error
	SetAdvertise(ctx context.Context, params SetAdvertiseParams) error
	AppendPhotoURL(ctx context.Context, listingID, photoURL string) error
	DeleteByID(ctx context.Context, listingID string) error
}
