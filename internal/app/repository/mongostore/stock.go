package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/pkg/logger"
)

// stockLedger is the product stock bookkeeping order placement relies on.
type stockLedger interface {
	// take decrements stock by quantity only if that much is available.
	take(ctx context.Context, productID string, quantity int) (bool, error)
	give(ctx context.Context, productID string, quantity int) error
	exists(ctx context.Context, productID string) (bool, error)
}

// reserveStock takes the quantity of every item, all or nothing. On success
// the returned release gives everything back; on failure nothing stays taken.
func reserveStock(ctx context.Context, ledger stockLedger, items []model.OrderItem) (release func(), err error) {
	reserved := make([]model.OrderItem, 0, len(items))
	release = func() {
		// Compensation must run even when ctx is already cancelled.
		bg := context.WithoutCancel(ctx)
		for _, item := range reserved {
			if err := ledger.give(bg, item.ProductID, item.Quantity); err != nil {
				logger.Error("Failed to release reserved stock", err, map[string]interface{}{
					"product_id": item.ProductID,
					"quantity":   item.Quantity,
				})
			}
		}
	}

	for _, item := range items {
		ok, err := ledger.take(ctx, item.ProductID, item.Quantity)
		if err != nil {
			release()
			return nil, err
		}
		if ok {
			reserved = append(reserved, item)
			continue
		}

		release()
		found, err := ledger.exists(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, repository.ErrNotFound
		}
		return nil, repository.ErrInsufficientStock
	}
	return release, nil
}

// collectionStock keeps stock on the product documents.
type collectionStock struct {
	products *mongo.Collection
}

func (s collectionStock) take(ctx context.Context, productID string, quantity int) (bool, error) {
	result, err := s.products.UpdateOne(ctx,
		bson.M{"_id": productID, "stock": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"stock": -quantity}})
	if err != nil {
		return false, err
	}
	return result.MatchedCount == 1, nil
}

func (s collectionStock) give(ctx context.Context, productID string, quantity int) error {
	_, err := s.products.UpdateOne(ctx, bson.M{"_id": productID}, bson.M{"$inc": bson.M{"stock": quantity}})
	return err
}

func (s collectionStock) exists(ctx context.Context, productID string) (bool, error) {
	count, err := s.products.CountDocuments(ctx, bson.M{"_id": productID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
