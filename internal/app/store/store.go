package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/ikkim/storefront/config"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/app/repository/mongostore"
	"github.com/ikkim/storefront/internal/db"
	"github.com/ikkim/storefront/pkg/logger"
)

// Repositories is the set of repositories backed by the configured driver.
type Repositories struct {
	Users    repository.UserRepository
	Products repository.ProductRepository
	Orders   repository.OrderRepository

	mongoClient *mongo.Client
}

// Open connects to the database selected by cfg.Driver. For PostgreSQL the
// schema is migrated; for MongoDB the indexes are ensured.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*Repositories, error) {
	switch cfg.Driver {
	case config.DriverPostgres, "":
		if err := db.Initialize(cfg); err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		conn := db.GetDB()
		return &Repositories{
			Users:    repository.NewUserRepository(conn),
			Products: repository.NewProductRepository(conn),
			Orders:   repository.NewOrderRepository(conn),
		}, nil

	case config.DriverMongo:
		client, database, err := db.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Users:       mongostore.NewUserRepository(database),
			Products:    mongostore.NewProductRepository(database),
			Orders:      mongostore.NewOrderRepository(database),
			mongoClient: client,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Close releases the underlying connection.
func (r *Repositories) Close(ctx context.Context) {
	if r.mongoClient != nil {
		if err := r.mongoClient.Disconnect(ctx); err != nil {
			logger.Error("Failed to disconnect from MongoDB", err)
		}
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("Failed to close database connection", err)
	}
}
