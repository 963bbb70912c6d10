// Package notify turns cart and wishlist events into transient toasts.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/ikkim/storefront/internal/client/cart"
	"github.com/ikkim/storefront/pkg/logger"
)

type Toast struct {
	Title       string
	Description string
	// ActionLabel and ActionPath describe an optional follow-up link.
	ActionLabel string
	ActionPath  string
}

// Sink displays toasts.
type Sink interface {
	Show(Toast)
}

// Emitter renders each event at most once to the mounted sink. Events that
// arrive with no sink mounted are dropped.
type Emitter struct {
	mu   sync.RWMutex
	sink Sink
}

func NewEmitter(sink Sink) *Emitter {
	return &Emitter{sink: sink}
}

func (e *Emitter) Mount(sink Sink) {
	e.mu.Lock()
	e.sink = sink
	e.mu.Unlock()
}

func (e *Emitter) Unmount() {
	e.Mount(nil)
}

// Attach subscribes the emitter to m and returns the unsubscribe function.
func (e *Emitter) Attach(m *cart.Manager) func() {
	return m.Subscribe(e.Handle)
}

// Handle is a cart.Listener.
func (e *Emitter) Handle(ev cart.Event) {
	toast, ok := ToastFor(ev)
	if !ok {
		return
	}

	e.mu.RLock()
	sink := e.sink
	e.mu.RUnlock()

	logger.Debug("Toast", map[string]interface{}{
		"kind":    string(ev.Kind),
		"title":   toast.Title,
		"mounted": sink != nil,
	})
	if sink == nil {
		return
	}
	sink.Show(toast)
}

// ToastFor maps an event to its toast.
func ToastFor(ev cart.Event) (Toast, bool) {
	switch ev.Kind {
	case cart.EventCartAdd:
		return Toast{
			Title:       "Added to Cart",
			Description: fmt.Sprintf("%s has been added to your cart.", ev.ItemName),
			ActionLabel: "Go to Cart",
			ActionPath:  "/cart",
		}, true
	case cart.EventWishlistAdd:
		return Toast{
			Title:       "Added to Wishlist",
			Description: fmt.Sprintf("%s has been added to your wishlist.", ev.ItemName),
		}, true
	case cart.EventWishlistExists:
		return Toast{
			Title:       "Already in Wishlist",
			Description: fmt.Sprintf("%s is already in your wishlist.", ev.ItemName),
		}, true
	case cart.EventWishlistRemove:
		return Toast{
			Title:       "Removed from Wishlist",
			Description: "Item has been removed from your wishlist.",
		}, true
	default:
		return Toast{}, false
	}
}

// WriterSink prints toasts as plain text lines.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Show(t Toast) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "* %s: %s", t.Title, t.Description)
	if t.ActionLabel != "" {
		fmt.Fprintf(s.w, " [%s: %s]", t.ActionLabel, t.ActionPath)
	}
	fmt.Fprintln(s.w)
}
