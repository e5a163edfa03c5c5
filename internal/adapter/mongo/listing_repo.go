package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amJayem/used-books-resale-server/internal/app/config"
	"github.com/amJayem/used-books-resale-server/internal/domain/entity"
	"github.com/amJayem/used-books-resale-server/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const listingCollectionName = "books"

type listingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.ListingRepository {
	return &listingRepository{
		collection: client.Database(cfg.Database).Collection(listingCollectionName),
	}
}

func (r *listingRepository) Create(ctx context.Context, listing *entity.Listing) (string, error) {
	doc := *listing
	doc.ID = primitive.NewObjectID().Hex()
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, &doc)
	if err != nil {
		return "", fmt.Errorf("failed to create listing: %w", err)
	}
	return doc.ID, nil
}

func (r *listingRepository) GetByID(ctx context.Context, listingID string) (*entity.Listing, error) {
	var listing entity.Listing
	err := r.collection.FindOne(ctx, bson.M{"_id": listingID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing by ID %s: %w", listingID, err)
	}
	return &listing, nil
}

func (r *listingRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]*entity.Listing, error) {
	return r.find(ctx, bson.M{"added_by": ownerEmail})
}

func (r *listingRepository) ListByCategory(ctx context.Context, categoryID string) ([]*entity.Listing, error) {
	return r.find(ctx, bson.M{"category_id": categoryID})
}

// ListFeatured is a read-time filter: advertise may stay true on a sold
// listing, it just no longer matches here.
func (r *listingRepository) ListFeatured(ctx context.Context) ([]*entity.Listing, error) {
	return r.find(ctx, bson.M{"advertise": true, "status": entity.StatusAvailable})
}

func (r *listingRepository) find(ctx context.Context, filter bson.M) ([]*entity.Listing, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer cursor.Close(ctx)

	var listings []*entity.Listing
	if err = cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listed listings: %w", err)
	}
	return listings, nil
}

func (r *listingRepository) UpdateStatus(ctx context.Context, params repository.UpdateListingStatusParams) error {
	update := bson.M{
		"$set": bson.M{
			"status":     params.Status,
			"updated_at": time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": params.ListingID}, update)
	if err != nil {
		return fmt.Errorf("failed to update listing status for ID %s: %w", params.ListingID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *listingRepository) SetAdvertise(ctx context.Context, params repository.SetAdvertiseParams) error {
	update := bson.M{
		"$set": bson.M{
			"advertise":  params.Advertise,
			"updated_at": time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": params.ListingID}, update)
	if err != nil {
		return fmt.Errorf("failed to set advertise for listing %s: %w", params.ListingID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *listingRepository) AppendPhotoURL(ctx context.Context, listingID, photoURL string) error {
	update := bson.M{
		"$push": bson.M{"photo_urls": photoURL},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": listingID}, update)
	if err != nil {
		return fmt.Errorf("failed to append photo URL to listing %s: %w", listingID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *listingRepository) DeleteByID(ctx context.Context, listingID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": listingID})
	if err != nil {
		return fmt.Errorf("failed to delete listing %s: %w", listingID, err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
