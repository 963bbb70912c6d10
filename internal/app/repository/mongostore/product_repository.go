package mongostore

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/db"
	"github.com/ikkim/storefront/pkg/logger"
)

type productRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(database *mongo.Database) repository.ProductRepository {
	return &productRepository{coll: database.Collection(db.ProductsCollection)}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	product.EnsureID()
	now := time.Now()
	product.CreatedAt, product.UpdatedAt = now, now
	if product.Images == nil {
		product.Images = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		logger.Error("Failed to insert product document", err, map[string]interface{}{
			"title": product.Title,
		})
		return translate(err)
	}
	return nil
}

func (r *productRepository) FindWithFilter(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		query["title"] = bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		logger.Error("Failed to find product documents", err)
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []model.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepository) FindByTitle(ctx context.Context, title string) (*model.Product, error) {
	var product model.Product
	if err := r.coll.FindOne(ctx, bson.M{"title": title}).Decode(&product); err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	product.UpdatedAt = time.Now()
	set := bson.M{
		"title":       product.Title,
		"description": product.Description,
		"price":       product.Price,
		"sizes":       product.Sizes,
		"category":    product.Category,
		"images":      product.Images,
		"stock":       product.Stock,
		"updatedAt":   product.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if product.DiscountedPrice != nil {
		set["discountedPrice"] = *product.DiscountedPrice
	} else {
		update["$unset"] = bson.M{"discountedPrice": ""}
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": product.ID}, update)
	if err != nil {
		logger.Error("Failed to update product document", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Error("Failed to delete product document", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
