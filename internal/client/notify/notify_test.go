package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/ikkim/storefront/internal/client/cart"
	"github.com/ikkim/storefront/internal/client/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collectSink struct {
	toasts []Toast
}

func (c *collectSink) Show(t Toast) { c.toasts = append(c.toasts, t) }

func TestToastFor(t *testing.T) {
	tests := []struct {
		kind  cart.EventKind
		title string
		desc  string
	}{
		{cart.EventCartAdd, "Added to Cart", "Tee has been added to your cart."},
		{cart.EventWishlistAdd, "Added to Wishlist", "Tee has been added to your wishlist."},
		{cart.EventWishlistExists, "Already in Wishlist", "Tee is already in your wishlist."},
		{cart.EventWishlistRemove, "Removed from Wishlist", "Item has been removed from your wishlist."},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			toast, ok := ToastFor(cart.Event{Kind: tt.kind, ItemName: "Tee"})
			require.True(t, ok)
			assert.Equal(t, tt.title, toast.Title)
			assert.Equal(t, tt.desc, toast.Description)
		})
	}

	_, ok := ToastFor(cart.Event{Kind: "unknown"})
	assert.False(t, ok)
}

func TestEmitter_AttachedToManager(t *testing.T) {
	ctx := context.Background()
	m := cart.NewManager(kvstore.NewMemoryStore())
	sink := &collectSink{}
	emitter := NewEmitter(sink)
	detach := emitter.Attach(m)

	require.NoError(t, m.AddToCart(ctx, cart.CartItem{ID: "p1", Name: "Tee", Price: 10}, 1))
	require.NoError(t, m.AddToWishlist(ctx, cart.WishlistItem{ID: "w1", Name: "Ring"}))
	require.NoError(t, m.AddToWishlist(ctx, cart.WishlistItem{ID: "w1", Name: "Ring"}))

	require.Len(t, sink.toasts, 3)
	assert.Equal(t, "/cart", sink.toasts[0].ActionPath)
	assert.Equal(t, "Already in Wishlist", sink.toasts[2].Title)

	detach()
	require.NoError(t, m.RemoveFromWishlist(ctx, "w1"))
	assert.Len(t, sink.toasts, 3)
}

func TestEmitter_DropsWhenUnmounted(t *testing.T) {
	sink := &collectSink{}
	emitter := NewEmitter(nil)

	emitter.Handle(cart.Event{Kind: cart.EventCartAdd, ItemName: "Tee"})
	emitter.Mount(sink)
	emitter.Handle(cart.Event{Kind: cart.EventCartAdd, ItemName: "Cap"})
	emitter.Unmount()
	emitter.Handle(cart.Event{Kind: cart.EventCartAdd, ItemName: "Sock"})

	require.Len(t, sink.toasts, 1)
	assert.Contains(t, sink.toasts[0].Description, "Cap")
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(&buf)

	sink.Show(Toast{Title: "Added to Cart", Description: "Tee has been added to your cart.", ActionLabel: "Go to Cart", ActionPath: "/cart"})
	sink.Show(Toast{Title: "Removed from Wishlist", Description: "Item has been removed from your wishlist."})

	assert.Equal(t,
		"* Added to Cart: Tee has been added to your cart. [Go to Cart: /cart]\n"+
			"* Removed from Wishlist: Item has been removed from your wishlist.\n",
		buf.String())
}
