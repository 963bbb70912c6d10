package service

import (
	"context"
	"testing"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderServiceFixture struct {
	orders   OrderService
	products repository.ProductRepository
	shirt    *model.Product
	saree    *model.Product
}

func setupOrderServiceTest(t *testing.T) orderServiceFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	products := repository.NewProductRepository(testDB)
	ctx := context.Background()

	shirt := &model.Product{Title: "Linen Shirt", Price: 1299, DiscountedPrice: floatPtr(999), Category: "men", Stock: 5}
	saree := &model.Product{Title: "Silk Saree", Price: 4999.5, Category: "women", Stock: 1}
	require.NoError(t, products.Create(ctx, shirt))
	require.NoError(t, products.Create(ctx, saree))

	return orderServiceFixture{
		orders:   NewOrderService(repository.NewOrderRepository(testDB), products),
		products: products,
		shirt:    shirt,
		saree:    saree,
	}
}

func testAddress() model.ShippingAddress {
	return model.ShippingAddress{
		FullName: "Jane Doe", Phone: "9999999999", Address: "1 MG Road",
		City: "Pune", State: "MH", PostalCode: "411001",
	}
}

func TestOrderService_PlaceOrder(t *testing.T) {
	f := setupOrderServiceTest(t)
	ctx := context.Background()

	order, err := f.orders.PlaceOrder(ctx, "user-1", PlaceOrderInput{
		Items: []OrderLine{
			{ProductID: f.shirt.ID, Quantity: 1, Size: "M"},
			{ProductID: f.saree.ID, Quantity: 1, Size: "Free Size"},
			{ProductID: f.shirt.ID, Quantity: 1, Size: "M"},
		},
		ShippingAddress: testAddress(),
	})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, "cod", order.PaymentMethod)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 999.0, order.Items[0].UnitPrice)
	assert.InDelta(t, 999*2+4999.5, order.TotalAmount, 0.001)

	shirt, err := f.products.FindByID(ctx, f.shirt.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, shirt.Stock)

	mine, err := f.orders.GetUserOrders(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestOrderService_PlaceOrderRejections(t *testing.T) {
	f := setupOrderServiceTest(t)
	ctx := context.Background()

	incomplete := testAddress()
	incomplete.PostalCode = ""

	tests := []struct {
		name    string
		input   PlaceOrderInput
		wantErr error
	}{
		{"No items", PlaceOrderInput{ShippingAddress: testAddress()}, ErrEmptyOrder},
		{"Missing address field", PlaceOrderInput{Items: []OrderLine{{ProductID: f.shirt.ID, Quantity: 1}}, ShippingAddress: incomplete}, ErrInvalidAddress},
		{"Zero quantity", PlaceOrderInput{Items: []OrderLine{{ProductID: f.shirt.ID, Quantity: 0}}, ShippingAddress: testAddress()}, ErrInvalidQuantity},
		{"Unknown product", PlaceOrderInput{Items: []OrderLine{{ProductID: "missing", Quantity: 1}}, ShippingAddress: testAddress()}, ErrProductNotFound},
		{"Insufficient stock", PlaceOrderInput{Items: []OrderLine{{ProductID: f.saree.ID, Quantity: 2}}, ShippingAddress: testAddress()}, ErrInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := f.orders.PlaceOrder(ctx, "user-1", tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, order)
		})
	}

	saree, err := f.products.FindByID(ctx, f.saree.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, saree.Stock)
}

func TestOrderService_GetOrderAccess(t *testing.T) {
	f := setupOrderServiceTest(t)
	ctx := context.Background()

	order, err := f.orders.PlaceOrder(ctx, "user-1", PlaceOrderInput{
		Items:           []OrderLine{{ProductID: f.shirt.ID, Quantity: 1}},
		ShippingAddress: testAddress(),
	})
	require.NoError(t, err)

	_, err = f.orders.GetOrder(ctx, "user-1", false, order.ID)
	assert.NoError(t, err)

	_, err = f.orders.GetOrder(ctx, "user-2", false, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = f.orders.GetOrder(ctx, "admin-1", true, order.ID)
	assert.NoError(t, err)

	_, err = f.orders.GetOrder(ctx, "user-1", false, "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	f := setupOrderServiceTest(t)
	ctx := context.Background()

	order, err := f.orders.PlaceOrder(ctx, "user-1", PlaceOrderInput{
		Items:           []OrderLine{{ProductID: f.shirt.ID, Quantity: 1}},
		ShippingAddress: testAddress(),
		PaymentMethod:   "card",
	})
	require.NoError(t, err)

	updated, err := f.orders.UpdateOrderStatus(ctx, order.ID, model.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, updated.Status)
	assert.Equal(t, "card", updated.PaymentMethod)

	_, err = f.orders.UpdateOrderStatus(ctx, order.ID, "lost")
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)

	_, err = f.orders.UpdateOrderStatus(ctx, "missing", model.OrderStatusDelivered)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	all, err := f.orders.ListOrders(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
