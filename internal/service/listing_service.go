package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/amJayem/used-books-resale-server/internal/adapter/nats"
	"github.com/amJayem/used-books-resale-server/internal/domain/entity"
	"github.com/amJayem/used-books-resale-server/internal/platform/logger"
	"github.com/amJayem/used-books-resale-server/internal/repository"
)

const (
	natsSubjectListingCreated       = "listing.created"
	natsSubjectListingStatusUpdated = "listing.status.updated"
)

// FeaturedCache keeps the featured-listings read warm; a nil,nil result is
// a miss.
type FeaturedCache interface {
	GetFeatured(ctx context.Context) ([]*entity.Listing, error)
	SetFeatured(ctx context.Context, listings []*entity.Listing) error
	InvalidateFeatured(ctx context.Context) error
}

// PhotoStorage stores listing photos and returns their public URL.
type PhotoStorage interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
}

type CreateListingParams struct {
	CategoryID    string
	BookName      string
	Description   string
	OriginalPrice float64
	ResalePrice   float64
	YearsOfUse    int
	Location      string
}

type ListingService interface {
	Create(ctx context.Context, params CreateListingParams, ownerEmail string, role entity.UserRole) (*entity.Listing, error)
	GetByID(ctx context.Context, listingID string) (*entity.Listing, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]*entity.Listing, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*entity.Listing, error)
	ListFeatured(ctx context.Context) ([]*entity.Listing, error)
	UpdateStatus(ctx context.Context, listingID, newStatus, callerEmail string) (*entity.Listing, error)
	SetAdvertise(ctx context.Context, listingID string, flag bool, callerEmail string) (*entity.Listing, error)
	AttachPhoto(ctx context.Context, listingID, callerEmail, fileName string, data []byte) (*entity.Listing, error)
	Delete(ctx context.Context, listingID, callerEmail string) error
}

type listingService struct {
	listingRepo  repository.ListingRepository
	cache        FeaturedCache
	photoStorage PhotoStorage
	msgPublisher nats.MessagePublisher
	log          logger.Logger
}

func NewListingService(
	listingRepo repository.ListingRepository,
	cache FeaturedCache,
	photoStorage PhotoStorage,
	msgPublisher nats.MessagePublisher,
	log logger.Logger,
) ListingService {
	return &listingService{
		listingRepo:  listingRepo,
		cache:        cache,
		photoStorage: photoStorage,
		msgPublisher: msgPublisher,
		log:          log,
	}
}

func (s *listingService) Create(ctx context.Context, params CreateListingParams, ownerEmail string, role entity.UserRole) (*entity.Listing, error) {
	if role != entity.RoleSeller {
		s.log.Warnf("Non-seller %s attempted to create a listing", ownerEmail)
		return nil, ErrForbidden
	}

	listing, err := entity.NewListing(ownerEmail, params.CategoryID, params.BookName, params.ResalePrice)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	listing.Description = params.Description
	listing.OriginalPrice = params.OriginalPrice
	listing.YearsOfUse = params.YearsOfUse
	listing.Location = params.Location

	listingID, err := s.listingRepo.Create(ctx, listing)
	if err != nil {
		s.log.Errorf("Failed to create listing for %s: %v", ownerEmail, err)
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	listing.ID = listingID

	s.invalidateFeatured(ctx)

	if err := s.msgPublisher.Publish(ctx, natsSubjectListingCreated, listing); err != nil {
		s.log.Warnf("Failed to publish listing created event for listing %s: %v", listingID, err)
	}

	s.log.Infof("Listing %s created by %s", listingID, ownerEmail)
	return listing, nil
}

func (s *listingService) GetByID(ctx context.Context, listingID string) (*entity.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return listing, nil
}

func (s *listingService) ListByOwner(ctx context.Context, ownerEmail string) ([]*entity.Listing, error) {
	listings, err := s.listingRepo.ListByOwner(ctx, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings by owner: %w", err)
	}
	return listings, nil
}

func (s *listingService) ListByCategory(ctx context.Context, categoryID string) ([]*entity.Listing, error) {
	listings, err := s.listingRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings by category: %w", err)
	}
	return listings, nil
}

func (s *listingService) ListFeatured(ctx context.Context) ([]*entity.Listing, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFeatured(ctx)
		if err != nil {
			s.log.Warnf("Featured cache read failed, falling through to store: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	listings, err := s.listingRepo.ListFeatured(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured listings: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetFeatured(ctx, listings); err != nil {
			s.log.Warnf("Failed to cache featured listings: %v", err)
		}
	}
	return listings, nil
}

func (s *listingService) UpdateStatus(ctx context.Context, listingID, newStatus, callerEmail string) (*entity.Listing, error) {
	status, err := entity.ParseListingStatus(newStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	listing, err := s.ownedListing(ctx, listingID, callerEmail, "update status of")
	if err != nil {
		return nil, err
	}

	if err := listing.UpdateStatus(status); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	err = s.listingRepo.UpdateStatus(ctx, repository.UpdateListingStatusParams{
		ListingID: listingID,
		Status:    listing.Status,
	})
	if err != nil {
		s.log.Errorf("Failed to update status of listing %s: %v", listingID, err)
		return nil, fmt.Errorf("failed to update listing status: %w", err)
	}

	s.invalidateFeatured(ctx)

	if err := s.msgPublisher.Publish(ctx, natsSubjectListingStatusUpdated, listing); err != nil {
		s.log.Warnf("Failed to publish listing status updated event for listing %s: %v", listingID, err)
	}

	s.log.Infof("Listing %s status set to %s by %s", listingID, status, callerEmail)
	return listing, nil
}

// SetAdvertise flips the flag in any status. A non-available listing keeps
// its flag but is hidden by the featured read filter.
func (s *listingService) SetAdvertise(ctx context.Context, listingID string, flag bool, callerEmail string) (*entity.Listing, error) {
	listing, err := s.ownedListing(ctx, listingID, callerEmail, "advertise")
	if err != nil {
		return nil, err
	}

	listing.SetAdvertise(flag)
	err = s.listingRepo.SetAdvertise(ctx, repository.SetAdvertiseParams{
		ListingID: listingID,
		Advertise: flag,
	})
	if err != nil {
		s.log.Errorf("Failed to set advertise=%t on listing %s: %v", flag, listingID, err)
		return nil, fmt.Errorf("failed to set advertise flag: %w", err)
	}

	s.invalidateFeatured(ctx)

	s.log.Infof("Listing %s advertise set to %t by %s", listingID, flag, callerEmail)
	return listing, nil
}

func (s *listingService) AttachPhoto(ctx context.Context, listingID, callerEmail, fileName string, data []byte) (*entity.Listing, error) {
	if s.photoStorage == nil {
		return nil, fmt.Errorf("%w: photo storage is not configured", ErrInvalidInput)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty photo payload", ErrInvalidInput)
	}

	listing, err := s.ownedListing(ctx, listingID, callerEmail, "attach photo to")
	if err != nil {
		return nil, err
	}

	url, err := s.photoStorage.Upload(ctx, fileName, data)
	if err != nil {
		s.log.Errorf("Failed to upload photo for listing %s: %v", listingID, err)
		return nil, fmt.Errorf("failed to upload photo: %w", err)
	}

	if err := s.listingRepo.AppendPhotoURL(ctx, listingID, url); err != nil {
		s.log.Errorf("Failed to attach photo URL to listing %s: %v", listingID, err)
		return nil, fmt.Errorf("failed to attach photo: %w", err)
	}
	listing.PhotoURLs = append(listing.PhotoURLs, url)

	return listing, nil
}

func (s *listingService) Delete(ctx context.Context, listingID, callerEmail string) error {
	if _, err := s.ownedListing(ctx, listingID, callerEmail, "delete"); err != nil {
		return err
	}

	if err := s.listingRepo.DeleteByID(ctx, listingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		s.log.Errorf("Failed to delete listing %s: %v", listingID, err)
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	s.invalidateFeatured(ctx)

	s.log.Infof("Listing %s deleted by %s", listingID, callerEmail)
	return nil
}

// ownedListing loads the listing and enforces the ownership check every
// mutating operation must pass before touching state.
func (s *listingService) ownedListing(ctx context.Context, listingID, callerEmail, action string) (*entity.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	if !listing.IsOwnedBy(callerEmail) {
		s.log.Warnf("Caller %s attempted to %s listing %s owned by %s", callerEmail, action, listingID, listing.AddedBy)
		return nil, ErrForbidden
	}
	return listing, nil
}

func (s *listingService) invalidateFeatured(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFeatured(ctx); err != nil {
		s.log.Warnf("Failed to invalidate featured cache: %v", err)
	}
}
