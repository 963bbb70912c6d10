package cart

import "math"

const (
	DefaultSize  = "Free Size"
	DefaultColor = "Default"
)

type CartItem struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Price           float64  `json:"price"`
	DiscountedPrice *float64 `json:"discountedPrice,omitempty"`
	Quantity        int      `json:"quantity"`
	Image           string   `json:"image"`
	Size            string   `json:"size"`
	Color           string   `json:"color"`
}

// EffectivePrice is the discounted price when it is set and not above Price.
func (i CartItem) EffectivePrice() float64 {
	return effectivePrice(i.Price, i.DiscountedPrice)
}

type WishlistItem struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Price           float64  `json:"price"`
	DiscountedPrice *float64 `json:"discountedPrice,omitempty"`
	Image           string   `json:"image"`
	Category        string   `json:"category"`
	Size            string   `json:"size,omitempty"`
	Color           string   `json:"color,omitempty"`
}

func (i WishlistItem) EffectivePrice() float64 {
	return effectivePrice(i.Price, i.DiscountedPrice)
}

func effectivePrice(price float64, discounted *float64) float64 {
	if discounted != nil && *discounted <= price {
		return *discounted
	}
	return price
}

// ResolveVariant picks the item's own value, then the requested one, then fallback.
func ResolveVariant(own, requested, fallback string) string {
	if own != "" {
		return own
	}
	if requested != "" {
		return requested
	}
	return fallback
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
