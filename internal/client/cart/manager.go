// Package cart keeps the shopper's cart and wishlist, persisted under the
// "cart" and "wishlist" keys.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ikkim/storefront/internal/client/kvstore"
	"github.com/ikkim/storefront/pkg/logger"
)

type Manager struct {
	kv kvstore.Store

	mu        sync.Mutex
	cart      []CartItem
	wishlist  []WishlistItem
	listeners map[int]Listener
	nextID    int
}

func NewManager(kv kvstore.Store) *Manager {
	return &Manager{
		kv:        kv,
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers fn and returns a function that removes it.
func (m *Manager) Subscribe(fn Listener) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// Load reads both collections. A record that does not decode is purged and
// its collection starts empty.
func (m *Manager) Load(ctx context.Context) error {
	cartItems, err := loadRecord[CartItem](ctx, m.kv, kvstore.KeyCart)
	if err != nil {
		return err
	}
	wishlistItems, err := loadRecord[WishlistItem](ctx, m.kv, kvstore.KeyWishlist)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.cart = sanitizeCart(cartItems)
	m.wishlist = wishlistItems
	m.mu.Unlock()
	return nil
}

func loadRecord[T any](ctx context.Context, kv kvstore.Store, key string) ([]T, error) {
	data, err := kv.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn("Discarding unreadable record", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		if err := kv.Delete(ctx, key); err != nil {
			return nil, fmt.Errorf("purge %s: %w", key, err)
		}
		return nil, nil
	}
	return items, nil
}

// sanitizeCart drops entries a hand-edited record could carry that the
// cart never produces itself.
func sanitizeCart(items []CartItem) []CartItem {
	out := make([]CartItem, 0, len(items))
	seen := make(map[string]int, len(items))
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		if i, ok := seen[item.ID]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		seen[item.ID] = len(out)
		out = append(out, item)
	}
	return out
}

// AddToCart adds quantity of item, merging with an existing line of the same
// id. A quantity below 1 counts as 1.
func (m *Manager) AddToCart(ctx context.Context, item CartItem, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	m.mu.Lock()
	next := cloneCart(m.cart)
	if i := indexCart(next, item.ID); i >= 0 {
		next[i].Quantity += quantity
	} else {
		item.Quantity = quantity
		next = append(next, item)
	}
	if err := m.commitCart(ctx, next); err != nil {
		m.mu.Unlock()
		return err
	}
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	emit(listeners, Event{Kind: EventCartAdd, ItemID: item.ID, ItemName: item.Name})
	return nil
}

// RemoveFromCart deletes the line for id if there is one.
func (m *Manager) RemoveFromCart(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := indexCart(m.cart, id)
	if i < 0 {
		return nil
	}
	next := cloneCart(m.cart)
	next = append(next[:i], next[i+1:]...)
	return m.commitCart(ctx, next)
}

// UpdateQuantity sets the quantity of id. Quantities below 1 are ignored.
func (m *Manager) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if quantity < 1 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := indexCart(m.cart, id)
	if i < 0 || m.cart[i].Quantity == quantity {
		return nil
	}
	next := cloneCart(m.cart)
	next[i].Quantity = quantity
	return m.commitCart(ctx, next)
}

func (m *Manager) ClearCart(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commitCart(ctx, []CartItem{})
}

// RemoveOrdered takes the quantities in ordered out of the cart. Lines added
// or topped up after ordered was taken keep whatever was not ordered.
func (m *Manager) RemoveOrdered(ctx context.Context, ordered []CartItem) error {
	if len(ordered) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	taken := make(map[string]int, len(ordered))
	for _, item := range ordered {
		taken[item.ID] += item.Quantity
	}

	next := make([]CartItem, 0, len(m.cart))
	for _, item := range m.cart {
		item.Quantity -= taken[item.ID]
		if item.Quantity > 0 {
			next = append(next, item)
		}
	}
	return m.commitCart(ctx, next)
}

// AddToWishlist appends item unless its id is already present.
func (m *Manager) AddToWishlist(ctx context.Context, item WishlistItem) error {
	m.mu.Lock()
	if indexWishlist(m.wishlist, item.ID) >= 0 {
		listeners := m.snapshotListeners()
		m.mu.Unlock()
		emit(listeners, Event{Kind: EventWishlistExists, ItemID: item.ID, ItemName: item.Name})
		return nil
	}

	next := append(cloneWishlist(m.wishlist), item)
	if err := m.commitWishlist(ctx, next); err != nil {
		m.mu.Unlock()
		return err
	}
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	emit(listeners, Event{Kind: EventWishlistAdd, ItemID: item.ID, ItemName: item.Name})
	return nil
}

// RemoveFromWishlist deletes id if present and always reports the removal.
func (m *Manager) RemoveFromWishlist(ctx context.Context, id string) error {
	m.mu.Lock()
	var name string
	if i := indexWishlist(m.wishlist, id); i >= 0 {
		name = m.wishlist[i].Name
		next := cloneWishlist(m.wishlist)
		next = append(next[:i], next[i+1:]...)
		if err := m.commitWishlist(ctx, next); err != nil {
			m.mu.Unlock()
			return err
		}
	}
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	emit(listeners, Event{Kind: EventWishlistRemove, ItemID: id, ItemName: name})
	return nil
}

func (m *Manager) IsInWishlist(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return indexWishlist(m.wishlist, id) >= 0
}

// AddToCartFromWishlist adds one of the wishlist item id to the cart. The
// item's own size and color win over the requested ones, which win over the
// defaults. Unknown ids are ignored.
func (m *Manager) AddToCartFromWishlist(ctx context.Context, id, size, color string) error {
	m.mu.Lock()
	i := indexWishlist(m.wishlist, id)
	if i < 0 {
		m.mu.Unlock()
		return nil
	}
	w := m.wishlist[i]
	m.mu.Unlock()

	return m.AddToCart(ctx, CartItem{
		ID:              w.ID,
		Name:            w.Name,
		Price:           w.Price,
		DiscountedPrice: w.DiscountedPrice,
		Image:           w.Image,
		Size:            ResolveVariant(w.Size, size, DefaultSize),
		Color:           ResolveVariant(w.Color, color, DefaultColor),
	}, 1)
}

func (m *Manager) CartItems() []CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneCart(m.cart)
}

func (m *Manager) WishlistItems() []WishlistItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneWishlist(m.wishlist)
}

// ItemCount is the total quantity across cart lines.
func (m *Manager) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, item := range m.cart {
		n += item.Quantity
	}
	return n
}

func (m *Manager) WishlistCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.wishlist)
}

// Subtotal is the sum of effective price times quantity, rounded to cents.
func (m *Manager) Subtotal() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, item := range m.cart {
		total += item.EffectivePrice() * float64(item.Quantity)
	}
	return roundCents(total)
}

// commitCart persists next and then installs it. Caller holds mu.
func (m *Manager) commitCart(ctx context.Context, next []CartItem) error {
	if err := m.persist(ctx, kvstore.KeyCart, next); err != nil {
		return err
	}
	m.cart = next
	return nil
}

func (m *Manager) commitWishlist(ctx context.Context, next []WishlistItem) error {
	if err := m.persist(ctx, kvstore.KeyWishlist, next); err != nil {
		return err
	}
	m.wishlist = next
	return nil
}

func (m *Manager) persist(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := m.kv.Set(ctx, key, data); err != nil {
		logger.Error("Failed to persist record", err, map[string]interface{}{
			"key": key,
		})
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (m *Manager) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(m.listeners))
	for _, fn := range m.listeners {
		out = append(out, fn)
	}
	return out
}

func emit(listeners []Listener, ev Event) {
	for _, fn := range listeners {
		fn(ev)
	}
}

func indexCart(items []CartItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func indexWishlist(items []WishlistItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func cloneCart(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	copy(out, items)
	return out
}

func cloneWishlist(items []WishlistItem) []WishlistItem {
	out := make([]WishlistItem, len(items))
	copy(out, items)
	return out
}
