package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onecart/storefront-api/internal/app/bootstrap"
)

func newSessionsCmd(env *Env) *cobra.Command {
	sessions := &cobra.Command{
		Use:   "sessions",
		Short: "Manage sign-in sessions",
	}
	sessions.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete expired sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return env.withStores(cmd.Context(), func(_ bootstrap.Config, stores *bootstrap.Stores) error {
				purged, err := stores.Sessions.PurgeExpired(cmd.Context())
				if err != nil {
					return fmt.Errorf("purge sessions: %w", err)
				}
				fmt.Fprintf(env.Out, "purged %d expired sessions\n", purged)
				return nil
			})
		},
	})
	return sessions
}
