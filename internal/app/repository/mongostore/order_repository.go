package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/db"
	"github.com/ikkim/storefront/pkg/logger"
)

type orderRepository struct {
	orders   *mongo.Collection
	products *mongo.Collection
}

func NewOrderRepository(database *mongo.Database) repository.OrderRepository {
	return &orderRepository{
		orders:   database.Collection(db.OrdersCollection),
		products: database.Collection(db.ProductsCollection),
	}
}

// Place reserves stock line by line with conditional decrements and gives the
// reserved quantities back if a later line or the insert fails. This works on a
// standalone server where multi-document transactions are unavailable.
func (r *orderRepository) Place(ctx context.Context, order *model.Order) error {
	order.EnsureID()
	now := time.Now()
	order.CreatedAt, order.UpdatedAt = now, now

	release, err := reserveStock(ctx, collectionStock{r.products}, order.Items)
	if err != nil {
		return err
	}

	if _, err := r.orders.InsertOne(ctx, order); err != nil {
		release()
		logger.Error("Failed to insert order document", err, map[string]interface{}{
			"user_id": order.UserID,
		})
		return translate(err)
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	if err := r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *orderRepository) FindByUserID(ctx context.Context, userID string) ([]model.Order, error) {
	return r.find(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *orderRepository) FindAll(ctx context.Context, limit, offset int) ([]model.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}
	return r.find(ctx, bson.M{}, opts)
}

func (r *orderRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptionsBuilder) ([]model.Order, error) {
	cursor, err := r.orders.Find(ctx, filter, opts)
	if err != nil {
		logger.Error("Failed to find order documents", err)
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []model.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	result, err := r.orders.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
