package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/onecart/storefront-api/internal/app/bootstrap"
	"github.com/onecart/storefront-api/internal/domains/orders/application/types"
)

func newOrdersCmd(env *Env) *cobra.Command {
	orders := &cobra.Command{
		Use:   "orders",
		Short: "Inspect and correct orders",
	}
	orders.AddCommand(newUnpaidCmd(env), newSetStatusCmd(env))
	return orders
}

func newUnpaidCmd(env *Env) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "unpaid",
		Short: "List gateway orders that were never paid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return env.withStores(cmd.Context(), func(cfg bootstrap.Config, stores *bootstrap.Stores) error {
				services, err := env.services(cfg, stores)
				if err != nil {
					return err
				}
				orders, err := services.Orders.ListUnpaidGatewayOrders(cmd.Context(), types.UnpaidOrdersQuery{OlderThan: olderThan})
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tOWNER\tAMOUNT\tSTATUS\tPLACED")
				for _, order := range orders {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", order.ID, order.OwnerID, order.Amount.StringFixed(2), order.Status, order.CreatedAt.UTC().Format(time.RFC3339))
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 24*time.Hour, "only report orders placed at least this long ago")
	return cmd
}

func newSetStatusCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <order-id> <status>",
		Short: "Override an order status",
		Long:  `Sets any lifecycle status, for example "Shipped" or "Out for Delivery", without adjacency checks.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withStores(cmd.Context(), func(cfg bootstrap.Config, stores *bootstrap.Stores) error {
				services, err := env.services(cfg, stores)
				if err != nil {
					return err
				}
				order, err := services.Orders.UpdateStatus(cmd.Context(), types.UpdateStatusInput{OrderID: args[0], Status: args[1]})
				if err != nil {
					return err
				}
				fmt.Fprintf(env.Out, "order %s is now %s (version %d)\n", order.ID, order.Status, order.Version)
				return nil
			})
		},
	}
}
