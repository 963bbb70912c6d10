package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ikkim/storefront/internal/client/api"
	"github.com/ikkim/storefront/internal/client/auth"
	"github.com/ikkim/storefront/internal/client/guard"
)

func newSignupCmd(get func() *app) *cobra.Command {
	var input auth.SignupInput
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := get().auth.Signup(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s!\n", sess.User.FullName)
			return nil
		},
	}
	cmd.Flags().StringVar(&input.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&input.Email, "email", "", "email address")
	cmd.Flags().StringVar(&input.Password, "password", "", "password")
	cmd.Flags().StringVar(&input.ConfirmPassword, "confirm-password", "", "password again")
	for _, f := range []string{"name", "email", "password", "confirm-password"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newLoginCmd(get func() *app) *cobra.Command {
	var email, password, from string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := get().auth.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Signed in as %s (%s)\n", sess.User.Email, sess.User.Role)
			return visit(cmd, get(), guard.AfterLogin(from))
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&from, "from", "", "page to return to after signing in")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := get().auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := get().auth.Refresh(cmd.Context())
			if errors.Is(err, api.ErrAuth) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> role=%s\n", sess.User.FullName, sess.User.Email, sess.User.Role)
			return nil
		},
	}
}

func newProfileCmd(get func() *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Change the display name",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requirePage(cmd, get(), "/profile"); err != nil {
				return err
			}
			sess, err := get().auth.UpdateProfile(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Name updated to %s\n", sess.User.FullName)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new full name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
