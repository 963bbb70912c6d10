package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ikkim/storefront/config"
	"github.com/ikkim/storefront/internal/client/api"
	"github.com/ikkim/storefront/internal/client/auth"
	"github.com/ikkim/storefront/internal/client/cart"
	"github.com/ikkim/storefront/internal/client/checkout"
	"github.com/ikkim/storefront/internal/client/guard"
	"github.com/ikkim/storefront/internal/client/kvstore"
	"github.com/ikkim/storefront/internal/client/notify"
	"github.com/ikkim/storefront/internal/client/session"
	"github.com/ikkim/storefront/pkg/logger"
)

// app is the wired shopper client shared by every command.
type app struct {
	api      *api.Client
	sessions *session.Store
	auth     *auth.Service
	cart     *cart.Manager
	guard    *guard.Guard
	checkout *checkout.Service
	toasts   *notify.Emitter

	closeStore func() error
	detach     func()
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	kv, closeStore, err := kvstore.Open(ctx, &cfg.Client, &cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}

	client := api.NewClient(cfg.Client.APIBaseURL, cfg.Client.Timeout)
	sessions := session.NewStore(kv)
	if _, err := sessions.Load(ctx); err != nil {
		closeStore()
		return nil, err
	}

	manager := cart.NewManager(kv)
	if err := manager.Load(ctx); err != nil {
		closeStore()
		return nil, err
	}

	emitter := notify.NewEmitter(notify.NewWriterSink(os.Stdout))
	authService := auth.NewService(client, sessions)

	return &app{
		api:        client,
		sessions:   sessions,
		auth:       authService,
		cart:       manager,
		guard:      guard.New(sessions, nil),
		checkout:   checkout.NewService(client, manager, sessions, authService),
		toasts:     emitter,
		closeStore: closeStore,
		detach:     emitter.Attach(manager),
	}, nil
}

func (a *app) Close() {
	a.toasts.Unmount()
	a.detach()
	if err := a.closeStore(); err != nil {
		logger.Error("Failed to close state store", err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, cleanup := newRootCmd()
	err := root.ExecuteContext(ctx)
	cleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. cleanup releases the app if a command
// got far enough to open it.
func newRootCmd() (root *cobra.Command, cleanup func()) {
	var (
		verbose bool
		a       *app
	)

	root = &cobra.Command{
		Use:           "shop",
		Short:         "Storefront shopper client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := "warn"
			if verbose {
				level = "debug"
			}
			logger.Initialize(logger.Config{Level: level, Format: "console", Output: os.Stderr, EnableColor: true})

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a, err = newApp(cmd.Context(), cfg)
			return err
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")

	get := func() *app { return a }
	root.AddCommand(
		newSignupCmd(get),
		newLoginCmd(get),
		newLogoutCmd(get),
		newWhoamiCmd(get),
		newProfileCmd(get),
		newProductsCmd(get),
		newCartCmd(get),
		newWishlistCmd(get),
		newCheckoutCmd(get),
		newOrdersCmd(get),
		newVisitCmd(get),
		newAdminCmd(get),
	)

	cleanup = func() {
		if a != nil {
			a.Close()
		}
	}
	return root, cleanup
}
