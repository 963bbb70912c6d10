package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ikkim/storefront/internal/client/api"
	"github.com/ikkim/storefront/internal/client/cart"
)

func newProductsCmd(get func() *app) *cobra.Command {
	var q api.ProductQuery
	cmd := &cobra.Command{
		Use:   "products [id]",
		Short: "List products or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				p, err := get().api.GetProduct(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\n  %s\n  price: %s  category: %s  sizes: %s  stock: %d\n",
					p.Title, p.Description, priceLabel(p.Price, p.DiscountedPrice), p.Category, p.Sizes, p.Stock)
				return nil
			}

			products, err := get().api.ListProducts(cmd.Context(), q)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tPRICE\tCATEGORY\tSTOCK")
			for _, p := range products {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Title, priceLabel(p.Price, p.DiscountedPrice), p.Category, p.Stock)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&q.Category, "category", "", "filter by category")
	cmd.Flags().StringVar(&q.Search, "search", "", "search titles")
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "page size")
	cmd.Flags().IntVar(&q.Offset, "offset", 0, "items to skip")
	return cmd
}

func priceLabel(price float64, discounted *float64) string {
	if discounted != nil && *discounted < price {
		return fmt.Sprintf("%.2f (was %.2f)", *discounted, price)
	}
	return fmt.Sprintf("%.2f", price)
}

// cartItemFrom builds a cart line from a catalog product.
func cartItemFrom(p *api.Product, size, color string) cart.CartItem {
	item := cart.CartItem{
		ID:              p.ID,
		Name:            p.Title,
		Price:           p.Price,
		DiscountedPrice: p.DiscountedPrice,
		Size:            cart.ResolveVariant(size, firstSize(p.Sizes), cart.DefaultSize),
		Color:           cart.ResolveVariant(color, "", cart.DefaultColor),
	}
	if len(p.Images) > 0 {
		item.Image = p.Images[0]
	}
	return item
}

func wishlistItemFrom(p *api.Product) cart.WishlistItem {
	item := cart.WishlistItem{
		ID:              p.ID,
		Name:            p.Title,
		Price:           p.Price,
		DiscountedPrice: p.DiscountedPrice,
		Category:        p.Category,
	}
	if len(p.Images) > 0 {
		item.Image = p.Images[0]
	}
	return item
}

func firstSize(sizes string) string {
	for _, s := range strings.Split(sizes, ",") {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
