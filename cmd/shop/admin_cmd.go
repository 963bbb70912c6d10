package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ikkim/storefront/internal/client/api"
)

func newAdminCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Store administration",
	}
	cmd.AddCommand(newAdminProductsCmd(get))
	return cmd
}

// adminToken returns the session token once the guard allows the admin pages.
func adminToken(cmd *cobra.Command, a *app) (string, error) {
	if err := requirePage(cmd, a, "/admin/products"); err != nil {
		return "", err
	}
	sess, _ := a.sessions.Current()
	return sess.Token, nil
}

// adminFailed signs out on a rejected token. A 403 means the account lost its
// role, which is not a reason to drop the session.
func adminFailed(cmd *cobra.Command, a *app, err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return a.auth.Expire(cmd.Context(), err)
	}
	return err
}

type productFlags struct {
	title, description, sizes, category string
	price, discountedPrice              float64
	images                              []string
	stock                               int
	clearDiscount                       bool
}

func (f *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "product title")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().Float64Var(&f.price, "price", 0, "list price")
	cmd.Flags().Float64Var(&f.discountedPrice, "discounted-price", 0, "sale price, not above the list price")
	cmd.Flags().StringVar(&f.sizes, "sizes", "", "comma separated sizes")
	cmd.Flags().StringVar(&f.category, "category", "", "category")
	cmd.Flags().StringSliceVar(&f.images, "image", nil, "image URL (repeatable)")
	cmd.Flags().IntVar(&f.stock, "stock", 0, "units in stock")
}

func (f *productFlags) input(cmd *cobra.Command) api.ProductInput {
	in := api.ProductInput{
		Title:       strings.TrimSpace(f.title),
		Description: f.description,
		Price:       f.price,
		Sizes:       f.sizes,
		Category:    strings.TrimSpace(f.category),
		Images:      f.images,
		Stock:       f.stock,
	}
	if cmd.Flags().Changed("discounted-price") {
		v := f.discountedPrice
		in.DiscountedPrice = &v
	}
	return in
}

// patch carries only the flags that were set on the command line.
func (f *productFlags) patch(cmd *cobra.Command) api.ProductPatch {
	changed := cmd.Flags().Changed
	var p api.ProductPatch
	if changed("title") {
		p.Title = &f.title
	}
	if changed("description") {
		p.Description = &f.description
	}
	if changed("price") {
		p.Price = &f.price
	}
	if changed("discounted-price") {
		p.DiscountedPrice = &f.discountedPrice
	}
	p.ClearDiscountedPrice = f.clearDiscount
	if changed("sizes") {
		p.Sizes = &f.sizes
	}
	if changed("category") {
		p.Category = &f.category
	}
	if changed("image") {
		p.Images = f.images
	}
	if changed("stock") {
		p.Stock = &f.stock
	}
	return p
}

func newAdminProductsCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Create, change and remove catalog products",
	}

	var createFlags productFlags
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a product",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			token, err := adminToken(cmd, a)
			if err != nil {
				return err
			}
			p, err := a.api.CreateProduct(cmd.Context(), token, createFlags.input(cmd))
			if err != nil {
				return adminFailed(cmd, a, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", p.Title, p.ID)
			return nil
		},
	}
	createFlags.register(create)
	for _, f := range []string{"title", "price", "category"} {
		_ = create.MarkFlagRequired(f)
	}

	var updateFlags productFlags
	update := &cobra.Command{
		Use:   "update <product-id>",
		Short: "Change some fields of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			token, err := adminToken(cmd, a)
			if err != nil {
				return err
			}
			p, err := a.api.UpdateProduct(cmd.Context(), token, args[0], updateFlags.patch(cmd))
			if err != nil {
				return adminFailed(cmd, a, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s, stock %d\n", p.Title, priceLabel(p.Price, p.DiscountedPrice), p.Stock)
			return nil
		},
	}
	updateFlags.register(update)
	update.Flags().BoolVar(&updateFlags.clearDiscount, "clear-discount", false, "remove the sale price")

	remove := &cobra.Command{
		Use:   "delete <product-id>",
		Short: "Remove a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			token, err := adminToken(cmd, a)
			if err != nil {
				return err
			}
			if err := a.api.DeleteProduct(cmd.Context(), token, args[0]); err != nil {
				return adminFailed(cmd, a, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(create, update, remove)
	return cmd
}
