package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCartCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change the cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			items := a.cart.CartItems()
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "Your cart is empty")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSIZE\tCOLOR\tQTY\tPRICE")
			for _, item := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.2f\n", item.ID, item.Name, item.Size, item.Color, item.Quantity, item.EffectivePrice())
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d item(s), subtotal %.2f\n", a.cart.ItemCount(), a.cart.Subtotal())
			return nil
		},
	}

	var size, color string
	var quantity int
	add := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			p, err := a.api.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.cart.AddToCart(cmd.Context(), cartItemFrom(p, size, color), quantity)
		},
	}
	add.Flags().StringVar(&size, "size", "", "size")
	add.Flags().StringVar(&color, "color", "", "color")
	add.Flags().IntVarP(&quantity, "quantity", "q", 1, "quantity")

	remove := &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return get().cart.RemoveFromCart(cmd.Context(), args[0])
		},
	}

	update := &cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Set the quantity of a line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity must be a number: %w", err)
			}
			return get().cart.UpdateQuantity(cmd.Context(), args[0], q)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return get().cart.ClearCart(cmd.Context())
		},
	}

	cmd.AddCommand(add, remove, update, clearCmd)
	return cmd
}

func newWishlistCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Show and change the wishlist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			items := a.cart.WishlistItems()
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "Your wishlist is empty")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE")
			for _, item := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\n", item.ID, item.Name, item.Category, item.EffectivePrice())
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d saved item(s)\n", a.cart.WishlistCount())
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Save a product to the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			p, err := a.api.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.cart.AddToWishlist(cmd.Context(), wishlistItemFrom(p))
		},
	}

	remove := &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return get().cart.RemoveFromWishlist(cmd.Context(), args[0])
		},
	}

	var size, color string
	move := &cobra.Command{
		Use:   "move <product-id>",
		Short: "Add a wishlist item to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if !a.cart.IsInWishlist(args[0]) {
				return fmt.Errorf("%s is not in your wishlist", args[0])
			}
			return a.cart.AddToCartFromWishlist(cmd.Context(), args[0], size, color)
		},
	}
	move.Flags().StringVar(&size, "size", "", "size when the item has none")
	move.Flags().StringVar(&color, "color", "", "color when the item has none")

	cmd.AddCommand(add, remove, move)
	return cmd
}
