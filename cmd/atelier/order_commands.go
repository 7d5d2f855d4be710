package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"atelier/internal/ipc"
)

func newOrderCommand(ctx *commandContext) *cobra.Command {
	orderCmd := &cobra.Command{
		Use:   "order",
		Short: "Manage customer orders",
	}

	orderCmd.AddCommand(newOrderCreateCommand(ctx))
	orderCmd.AddCommand(newOrderListCommand(ctx))

	return orderCmd
}

func newOrderCreateCommand(ctx *commandContext) *cobra.Command {
	var priority string

	cmd := &cobra.Command{
		Use:   "create <description>",
		Short: "Register a new draft order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.Join(args, " ")
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.OrderCreate(description, priority)
				if err != nil {
					return err
				}
				if err := failureErr(resp.Error); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created order %s (%s priority)\n", resp.Order.OrderID, resp.Order.Priority)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&priority, "priority", "p", "normal", "Order priority (normal, high, urgent)")
	return cmd
}

func newOrderListCommand(ctx *commandContext) *cobra.Command {
	var statuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.OrderList(statuses)
				if err != nil {
					return err
				}
				if err := failureErr(resp.Error); err != nil {
					return err
				}
				if len(resp.Orders) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No orders found")
					return nil
				}
				rows := make([][]string, 0, len(resp.Orders))
				for _, order := range resp.Orders {
					rows = append(rows, []string{
						order.OrderID,
						order.Description,
						order.Priority,
						order.Status,
						order.CurrentDepartment,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ORDER", "DESCRIPTION", "PRIORITY", "STATUS", "DEPARTMENT"},
					rows,
					nil,
				))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Filter by status (draft, in_factory, completed)")
	return cmd
}
