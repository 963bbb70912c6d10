package cart

type EventKind string

const (
	EventCartAdd        EventKind = "cart-add"
	EventWishlistAdd    EventKind = "wishlist-add"
	EventWishlistExists EventKind = "wishlist-exists"
	EventWishlistRemove EventKind = "wishlist-remove"
)

// Event is delivered to listeners after the change it reports is persisted.
type Event struct {
	Kind     EventKind
	ItemID   string
	ItemName string
}

type Listener func(Event)
