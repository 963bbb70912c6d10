package main

import (
	"testing"

	"github.com/ikkim/storefront/internal/client/api"
	"github.com/ikkim/storefront/internal/client/cart"
	"github.com/stretchr/testify/assert"
)

func TestCartItemFrom(t *testing.T) {
	discount := 450.0
	p := &api.Product{ID: "p1", Title: "Tee", Price: 500, DiscountedPrice: &discount, Sizes: " S, M", Images: []string{"a.jpg", "b.jpg"}}

	item := cartItemFrom(p, "", "")
	assert.Equal(t, "p1", item.ID)
	assert.Equal(t, "S", item.Size)
	assert.Equal(t, cart.DefaultColor, item.Color)
	assert.Equal(t, "a.jpg", item.Image)
	assert.Equal(t, 450.0, item.EffectivePrice())

	item = cartItemFrom(&api.Product{ID: "p2"}, "", "Red")
	assert.Equal(t, cart.DefaultSize, item.Size)
	assert.Equal(t, "Red", item.Color)
}

func TestPriceLabel(t *testing.T) {
	discount := 9.5
	assert.Equal(t, "9.50 (was 12.00)", priceLabel(12, &discount))
	assert.Equal(t, "12.00", priceLabel(12, nil))
}

func TestRootCommandTree(t *testing.T) {
	root, cleanup := newRootCmd()
	defer cleanup()

	for _, name := range []string{"signup", "login", "logout", "cart", "wishlist", "checkout", "orders", "visit", "admin"} {
		cmd, _, err := root.Find([]string{name})
		assert.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}
