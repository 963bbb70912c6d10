package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ikkim/storefront/internal/client/guard"
)

var errRedirected = errors.New("page not available")

func newVisitCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "visit <path>",
		Short: "Check whether a page may be opened",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return visit(cmd, get(), args[0])
		},
	}
}

func visit(cmd *cobra.Command, a *app, path string) error {
	d := a.guard.Check(path)
	out := cmd.OutOrStdout()
	switch d.State {
	case guard.Authorized:
		fmt.Fprintf(out, "-> %s\n", path)
	case guard.Redirecting:
		target := d.Redirect
		if target == guard.AuthPath {
			target = guard.LoginURL(d.From)
		}
		fmt.Fprintf(out, "-> %s (redirected from %s)\n", target, path)
	default:
		fmt.Fprintln(out, "loading...")
	}
	return nil
}

// requirePage fails the command when the guard would not open path.
func requirePage(cmd *cobra.Command, a *app, path string) error {
	d := a.guard.Check(path)
	if d.State == guard.Authorized {
		return nil
	}
	if d.Redirect == guard.AuthPath {
		return fmt.Errorf("%w: sign in first (shop login --from %s)", errRedirected, d.From)
	}
	return fmt.Errorf("%w: %s requires an admin account", errRedirected, path)
}
