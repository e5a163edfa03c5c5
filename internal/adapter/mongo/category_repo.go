package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/amJayem/used-books-resale-server/internal/app/config"
	"github.com/amJayem/used-books-resale-server/internal/domain/entity"
	"github.com/amJayem/used-books-resale-server/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const categoryCollectionName = "categories"

type categoryRepository struct {
	collection *mongo.Collection
}

func NewCategoryRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.CategoryRepository {
	return &categoryRepository{
		collection: client.Database(cfg.Database).Collection(categoryCollectionName),
	}
}

func (r *categoryRepository) ListAll(ctx context.Context) ([]*entity.Category, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []*entity.Category
	if err = cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode listed categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, categoryID string) (*entity.Category, error) {
	var category entity.Category
	err := r.collection.FindOne(ctx, bson.M{"_id": categoryID}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category by ID %s: %w", categoryID, err)
	}
	return &category, nil
}

func (r *categoryRepository) Seed(ctx context.Context, categories []*entity.Category) error {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	docs := make([]interface{}, len(categories))
	for i, c := range categories {
		if c.ID == "" {
			c.ID = primitive.NewObjectID().Hex()
		}
		docs[i] = c
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	return nil
}
