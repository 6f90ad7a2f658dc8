package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/onecart/storefront-api/internal/app/bootstrap"
	platformobservability "github.com/onecart/storefront-api/internal/platform/observability"
)

// Env carries what every storectl command needs; tests swap the loaders.
type Env struct {
	LoadConfig func() (bootstrap.Config, error)
	OpenStores func(ctx context.Context, cfg bootstrap.Config, logger *slog.Logger) (*bootstrap.Stores, error)
	Out        io.Writer
	Logger     *slog.Logger
}

// DefaultEnv reads configuration from the environment and logs warnings to stderr.
func DefaultEnv() *Env {
	return &Env{
		LoadConfig: bootstrap.LoadConfig,
		OpenStores: bootstrap.OpenStores,
		Out:        os.Stdout,
		Logger:     slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}
}

// NewRootCommand assembles storectl.
func NewRootCommand(env *Env) *cobra.Command {
	root := &cobra.Command{
		Use:           "storectl",
		Short:         "Operate the storefront API stores",
		Long:          "storectl applies migrations, purges sessions and inspects orders using the same configuration as the API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(env))
	root.AddCommand(newSessionsCmd(env))
	root.AddCommand(newOrdersCmd(env))
	root.AddCommand(newConfigCmd(env))
	return root
}

// Execute runs storectl with the process arguments.
func Execute(ctx context.Context, version string) error {
	root := NewRootCommand(DefaultEnv())
	root.Version = version
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// withStores loads configuration, opens the stores and hands them to fn.
func (e *Env) withStores(ctx context.Context, fn func(cfg bootstrap.Config, stores *bootstrap.Stores) error) error {
	cfg, err := e.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	stores, err := e.OpenStores(ctx, cfg, e.Logger)
	if err != nil {
		return err
	}
	defer stores.Close()
	return fn(cfg, stores)
}

func (e *Env) services(cfg bootstrap.Config, stores *bootstrap.Stores) (*bootstrap.Services, error) {
	return bootstrap.BuildServices(cfg, stores, &platformobservability.Instruments{Logger: e.Logger})
}
