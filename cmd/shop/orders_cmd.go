package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ikkim/storefront/internal/client/api"
)

func newCheckoutCmd(get func() *app) *cobra.Command {
	var (
		address api.ShippingAddress
		payment string
	)
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			if err := requirePage(cmd, a, "/checkout"); err != nil {
				return err
			}
			order, err := a.checkout.Checkout(cmd.Context(), address, payment)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s placed: %.2f (%s)\n", order.ID, order.TotalAmount, order.Status)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&address.FullName, "name", "", "recipient name")
	f.StringVar(&address.Phone, "phone", "", "phone number")
	f.StringVar(&address.Address, "address", "", "street address")
	f.StringVar(&address.City, "city", "", "city")
	f.StringVar(&address.State, "state", "", "state")
	f.StringVar(&address.PostalCode, "postal-code", "", "postal code")
	f.StringVar(&payment, "payment", "", "payment method (default cod)")
	return cmd
}

func newOrdersCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List your orders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			if err := requirePage(cmd, a, "/orders"); err != nil {
				return err
			}
			sess, _ := a.sessions.Current()
			orders, err := a.api.ListOrders(cmd.Context(), sess.Token)
			if err != nil {
				return a.auth.Expire(cmd.Context(), err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tITEMS\tTOTAL\tSTATUS")
			for _, o := range orders {
				fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%s\n", o.ID, o.CreatedAt.Format("2006-01-02"), len(o.Items), o.TotalAmount, o.Status)
			}
			return w.Flush()
		},
	}
}
