package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/onecart/storefront-api/internal/app/bootstrap"
	"github.com/onecart/storefront-api/internal/platform/migrations"
)

func newMigrateCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and indexes for the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Opening the stores applies migrations and ensures indexes.
			return env.withStores(cmd.Context(), func(_ bootstrap.Config, stores *bootstrap.Stores) error {
				switch stores.Backend {
				case bootstrap.BackendPostgres:
					fmt.Fprintf(env.Out, "postgres schema up to date: %s\n", strings.Join(migrations.Tables(), ", "))
				case bootstrap.BackendMongo:
					fmt.Fprintln(env.Out, "mongo indexes ensured")
				default:
					return fmt.Errorf("migrate needs a postgres or mongo backend, got %s", stores.Backend)
				}
				return nil
			})
		},
	}
}
