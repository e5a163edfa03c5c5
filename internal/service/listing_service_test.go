package service

import (
	"context"
	"errors"
	"testing"

	"github.com/amJayem/used-books-resale-server/internal/domain/entity"
	"github.com/amJayem/used-books-resale-server/internal/platform/logger"
	"github.com/amJayem/used-books-resale-server/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newListingServiceForTest(
	repo *MockListingRepository,
	cache *MockFeaturedCache,
	storage *MockPhotoStorage,
	publisher *MockMessagePublisher,
) ListingService {
	var cacheIface FeaturedCache
	if cache != nil {
		cacheIface = cache
	}
	var storageIface PhotoStorage
	if storage != nil {
		storageIface = storage
	}
	return NewListingService(repo, cacheIface, storageIface, publisher, &logger.NoOpLogger{})
}

func availableListing(id, owner string) *entity.Listing {
	l, _ := entity.NewListing(owner, "cat-1", "The Go Programming Language", 25.0)
	l.ID = id
	return l
}

func TestListingService_Create_Success(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockCache := new(MockFeaturedCache)
	mockPublisher := new(MockMessagePublisher)
	listingSvc := newListingServiceForTest(mockRepo, mockCache, nil, mockPublisher)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.Listing) bool {
		return l.AddedBy == "seller@example.com" &&
			l.Status == entity.StatusAvailable &&
			!l.Advertise
	})).Return("listing-1", nil).Once()
	mockCache.On("InvalidateFeatured", mock.Anything).Return(nil).Once()
	mockPublisher.On("Publish", mock.Anything, "listing.created", mock.Anything).Return(nil).Once()

	listing, err := listingSvc.Create(context.Background(), CreateListingParams{
		CategoryID:  "cat-1",
		BookName:    "The Go Programming Language",
		ResalePrice: 25.0,
	}, "seller@example.com", entity.RoleSeller)

	assert.NoError(t, err)
	assert.Equal(t, "listing-1", listing.ID)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestListingService_Create_NonSellerForbidden(t *testing.T) {
	mockRepo := new(MockListingRepository)
	listingSvc := newListingServiceForTest(mockRepo, nil, nil, new(MockMessagePublisher))

	listing, err := listingSvc.Create(context.Background(), CreateListingParams{
		BookName:    "Some Book",
		ResalePrice: 10.0,
	}, "buyer@example.com", entity.RoleBuyer)

	assert.ErrorIs(t, err, ErrForbidden)
	assert.Nil(t, listing)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestListingService_Create_PublishFailureDoesNotFail(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockPublisher := new(MockMessagePublisher)
	listingSvc := newListingServiceForTest(mockRepo, nil, nil, mockPublisher)

	mockRepo.On("Create", mock.Anything, mock.Anything).Return("listing-1", nil).Once()
	mockPublisher.On("Publish", mock.Anything, "listing.created", mock.Anything).
		Return(errors.New("nats unavailable")).Once()

	listing, err := listingSvc.Create(context.Background(), CreateListingParams{
		BookName:    "Some Book",
		ResalePrice: 10.0,
	}, "seller@example.com", entity.RoleSeller)

	assert.NoError(t, err)
	assert.NotNil(t, listing)
	mockPublisher.AssertExpectations(t)
}

func TestListingService_ListFeatured_CacheHit(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockCache := new(MockFeaturedCache)
	listingSvc := newListingServiceForTest(mockRepo, mockCache, nil, new(MockMessagePublisher))

	cached := []*entity.Listing{availableListing("listing-1", "seller@example.com")}
	mockCache.On("GetFeatured", mock.Anything).Return(cached, nil).Once()

	listings, err := listingSvc.ListFeatured(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, cached, listings)
	mockRepo.AssertNotCalled(t, "ListFeatured")
	mockCache.AssertExpectations(t)
}

func TestListingService_ListFeatured_CacheMissFillsCache(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockCache := new(MockFeaturedCache)
	listingSvc := newListingServiceForTest(mockRepo, mockCache, nil, new(MockMessagePublisher))

	stored := []*entity.Listing{availableListing("listing-1", "seller@example.com")}
	mockCache.On("GetFeatured", mock.Anything).Return(nil, nil).Once()
	mockRepo.On("ListFeatured", mock.Anything).Return(stored, nil).Once()
	mockCache.On("SetFeatured", mock.Anything, stored).Return(nil).Once()

	listings, err := listingSvc.ListFeatured(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, stored, listings)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestListingService_ListFeatured_CacheErrorFallsThrough(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockCache := new(MockFeaturedCache)
	listingSvc := newListingServiceForTest(mockRepo, mockCache, nil, new(MockMessagePublisher))

	stored := []*entity.Listing{availableListing("listing-1", "seller@example.com")}
	mockCache.On("GetFeatured", mock.Anything).Return(nil, errors.New("redis down")).Once()
	mockRepo.On("ListFeatured", mock.Anything).Return(stored, nil).Once()
	mockCache.On("SetFeatured", mock.Anything, stored).Return(nil).Once()

	listings, err := listingSvc.ListFeatured(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, stored, listings)
	mockRepo.AssertExpectations(t)
}

func TestListingService_UpdateStatus_Success(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockCache := new(MockFeaturedCache)
	mockPublisher := new(MockMessagePublisher)
	listingSvc := newListingServiceForTest(mockRepo, mockCache, nil, mockPublisher)

	mockRepo.On("GetByID", mock.Anything, "listing-1").
		Return(availableListing("listing-1", "seller@example.com"), nil).Once()
	mockRepo.On("UpdateStatus", mock.Anything, repository.UpdateListingStatusParams{
		ListingID: "listing-1",
		Status:    entity.StatusReserved,
	}).Return(nil).Once()
	mockCache.On("InvalidateFeatured", mock.Anything).Return(nil).Once()
	mockPublisher.On("Publish", mock.Anything, "listing.status.updated", mock.Anything).Return(nil).Once()

	listing, err := listingSvc.UpdateStatus(context.Background(), "listing-1", "reserved", "seller@example.com")

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusReserved, listing.Status)
	mockRepo.AssertExpectations(t)
}

func TestListingService_UpdateStatus_NotOwnerForbidden(t *testing.T) {
	mockRepo := new(MockListingRepository)
	listingSvc := newListingServiceForTest(mockRepo, nil, nil, new(MockMessagePublisher))

	mockRepo.On("GetByID", mock.Anything, "listing-1").
		Return(availableListing("listing-1", "seller@example.com"), nil).Once()

	listing, err := listingSvc.UpdateStatus(context.Background(), "listing-1", "sold", "intruder@example.com")

	assert.ErrorIs(t, err, ErrForbidden)
	assert.Nil(t, listing)
	mockRepo.AssertNotCalled(t, "UpdateStatus")
}

func TestListingService_UpdateStatus_UnknownStatus(t *testing.T) {
	mockRepo := new(MockListingRepository)
	listingSvc := newListingServiceForTest(mockRepo, nil, nil, new(MockMessagePublisher))

	listing, err := listingSvc.UpdateStatus(context.Background(), "listing-1", "vaporized", "seller@example.com")

	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Nil(t, listing)
	mockRepo.AssertNotCalled(t, "GetByID")
}

func TestListingService_UpdateStatus_InvalidTransition(t *testing.T) {
	mockRepo := new(MockListingRepository)
	listingSvc := newListingServiceForTest(mockRepo, nil, nil, new(MockMessagePublisher))

	sold := availableListing("listing-1", "seller@example.com")
	sold.Status = entity.StatusSold
	mockRepo.On("GetByID", mock.Anything, "listing-1").Return(sold, nil).Once()

	listing, err := listingSvc.UpdateStatus(context.Background(), "listing-1", "reserved", "seller@example.com")

	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Nil(t, listing)
	mockRepo.AssertNotCalled(t, "UpdateStatus")
}

func TestListingService_SetAdvertise_AllowedOnSoldListing(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockCache := new(MockFeaturedCache)
	listingSvc := newListingServiceForTest(mockRepo, mockCache, nil, new(MockMessagePublisher))

	sold := availableListing("listing-1", "seller@example.com")
	sold.Status = entity.StatusSold
	mockRepo.On("GetByID", mock.Anything, "listing-1").Return(sold, nil).Once()
	mockRepo.On("SetAdvertise", mock.Anything, repository.SetAdvertiseParams{
		ListingID: "listing-1",
		Advertise: true,
	}).Return(nil).Once()
	mockCache.On("InvalidateFeatured", mock.Anything).Return(nil).Once()

	listing, err := listingSvc.SetAdvertise(context.Background(), "listing-1", true, "seller@example.com")

	assert.NoError(t, err)
	assert.True(t, listing.Advertise)
	// The flag is set but the listing is not surfaced as featured.
	assert.False(t, listing.IsFeatured())
	mockRepo.AssertExpectations(t)
}

func TestListingService_AttachPhoto_Success(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockStorage := new(MockPhotoStorage)
	listingSvc := newListingServiceForTest(mockRepo, nil, mockStorage, new(MockMessagePublisher))

	photo := []byte{0xFF, 0xD8, 0xFF}
	mockRepo.On("GetByID", mock.Anything, "listing-1").
		Return(availableListing("listing-1", "seller@example.com"), nil).Once()
	mockStorage.On("Upload", mock.Anything, "cover.jpg", photo).
		Return("http://minio.local/listing-photos/abc.jpg", nil).Once()
	mockRepo.On("AppendPhotoURL", mock.Anything, "listing-1", "http://minio.local/listing-photos/abc.jpg").
		Return(nil).Once()

	listing, err := listingSvc.AttachPhoto(context.Background(), "listing-1", "seller@example.com", "cover.jpg", photo)

	assert.NoError(t, err)
	assert.Contains(t, listing.PhotoURLs, "http://minio.local/listing-photos/abc.jpg")
	mockRepo.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

func TestListingService_AttachPhoto_StorageNotConfigured(t *testing.T) {
	mockRepo := new(MockListingRepository)
	listingSvc := newListingServiceForTest(mockRepo, nil, nil, new(MockMessagePublisher))

	listing, err := listingSvc.AttachPhoto(context.Background(), "listing-1", "seller@example.com", "cover.jpg", []byte{1})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, listing)
}

func TestListingService_Delete_Success(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockCache := new(MockFeaturedCache)
	listingSvc := newListingServiceForTest(mockRepo, mockCache, nil, new(MockMessagePublisher))

	mockRepo.On("GetByID", mock.Anything, "listing-1").
		Return(availableListing("listing-1", "seller@example.com"), nil).Once()
	mockRepo.On("DeleteByID", mock.Anything, "listing-1").Return(nil).Once()
	mockCache.On("InvalidateFeatured", mock.Anything).Return(nil).Once()

	err := listingSvc.Delete(context.Background(), "listing-1", "seller@example.com")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestListingService_Delete_NotFound(t *testing.T) {
	mockRepo := new(MockListingRepository)
	listingSvc := newListingServiceForTest(mockRepo, nil, nil, new(MockMessagePublisher))

	mockRepo.On("GetByID", mock.Anything, "ghost").Return(nil, repository.ErrNotFound).Once()

	err := listingSvc.Delete(context.Background(), "ghost", "seller@example.com")

	assert.ErrorIs(t, err, ErrNotFound)
	mockRepo.AssertNotCalled(t, "DeleteByID")
}
