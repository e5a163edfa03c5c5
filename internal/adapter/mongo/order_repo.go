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

const orderCollectionName = "orders"

type orderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.OrderRepository {
	return &orderRepository{
		collection: client.Database(cfg.Database).Collection(orderCollectionName),
	}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) (string, error) {
	doc := *order
	doc.ID = primitive.NewObjectID().Hex()
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, &doc)
	if err != nil {
		return "", fmt.Errorf("failed to create order: %w", err)
	}
	return doc.ID, nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID string) (*entity.Order, error) {
	var order entity.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", orderID, err)
	}
	return &order, nil
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerEmail string) ([]*entity.Order, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"buyer_email": buyerEmail}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for buyer %s: %w", buyerEmail, err)
	}
	defer cursor.Close(ctx)

	var orders []*entity.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode listed orders: %w", err)
	}
	return orders, nil
}

// MarkPaid is a single-fire transition: the filter matches only unpaid
// orders, so a concurrent or repeated call cannot flip the flag twice.
func (r *orderRepository) MarkPaid(ctx context.Context, orderID string) (*entity.Order, error) {
	now := time.Now().UTC()
	filter := bson.M{"_id": orderID, "payment": false}
	update := bson.M{
		"$set": bson.M{
			"payment":    true,
			"paid_at":    now,
			"updated_at": now,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to mark order %s paid: %w", orderID, err)
	}
	if result.MatchedCount == 0 {
		order, errFind := r.GetByID(ctx, orderID)
		if errFind != nil {
			return nil, errFind
		}
		if order.Payment {
			return nil, repository.ErrAlreadyPaid
		}
		return nil, repository.ErrUpdateFailed
	}

	return r.GetByID(ctx, orderID)
}
