package repository

import (
	"context"
	"testing"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	orders   OrderRepository
	products ProductRepository
	product  *model.Product
}

func setupOrderTest(t *testing.T) orderFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	products := NewProductRepository(testDB)
	product := &model.Product{Title: "Kurta", Price: 999, Category: "men", Stock: 3}
	require.NoError(t, products.Create(context.Background(), product))

	return orderFixture{
		orders:   NewOrderRepository(testDB),
		products: products,
		product:  product,
	}
}

func newOrder(userID, productID string, quantity int) *model.Order {
	return &model.Order{
		UserID: userID,
		Items: []model.OrderItem{
			{ProductID: productID, Title: "Kurta", UnitPrice: 999, Quantity: quantity, Size: "M"},
		},
		TotalAmount: 999 * float64(quantity),
		ShippingAddress: model.ShippingAddress{
			FullName: "Jane Doe", Phone: "9999999999", Address: "1 MG Road",
			City: "Pune", State: "MH", PostalCode: "411001",
		},
		PaymentMethod: "cod",
	}
}

func TestOrderRepository_PlaceDecrementsStock(t *testing.T) {
	f := setupOrderTest(t)
	ctx := context.Background()

	order := newOrder("user-1", f.product.ID, 2)
	require.NoError(t, f.orders.Place(ctx, order))
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, model.OrderStatusPending, order.Status)

	product, err := f.products.FindByID(ctx, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, product.Stock)

	found, err := f.orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 2, found.Items[0].Quantity)
	assert.Equal(t, "Pune", found.ShippingAddress.City)
}

func TestOrderRepository_PlaceInsufficientStock(t *testing.T) {
	f := setupOrderTest(t)
	ctx := context.Background()

	err := f.orders.Place(ctx, newOrder("user-1", f.product.ID, 4))
	assert.ErrorIs(t, err, ErrInsufficientStock)

	product, err := f.products.FindByID(ctx, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, product.Stock)

	orders, err := f.orders.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderRepository_PlaceRollsBackEarlierLines(t *testing.T) {
	f := setupOrderTest(t)
	ctx := context.Background()

	order := newOrder("user-1", f.product.ID, 1)
	order.Items = append(order.Items, model.OrderItem{ProductID: "missing", Title: "Ghost", UnitPrice: 1, Quantity: 1})

	assert.ErrorIs(t, f.orders.Place(ctx, order), ErrNotFound)

	product, err := f.products.FindByID(ctx, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, product.Stock)
}

func TestOrderRepository_ListAndUpdateStatus(t *testing.T) {
	f := setupOrderTest(t)
	ctx := context.Background()

	first := newOrder("user-1", f.product.ID, 1)
	require.NoError(t, f.orders.Place(ctx, first))
	require.NoError(t, f.orders.Place(ctx, newOrder("user-2", f.product.ID, 1)))

	mine, err := f.orders.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := f.orders.FindAll(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, f.orders.UpdateStatus(ctx, first.ID, model.OrderStatusShipped))
	found, err := f.orders.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, found.Status)

	assert.ErrorIs(t, f.orders.UpdateStatus(ctx, "missing", model.OrderStatusShipped), ErrNotFound)
}
