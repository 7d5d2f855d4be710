package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"atelier/internal/ipc"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and drain department queues",
	}

	queueCmd.AddCommand(newQueueShowCommand(ctx))
	queueCmd.AddCommand(newQueueDrainCommand(ctx))

	return queueCmd
}

func newQueueShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <department>",
		Short: "Show a department's waiting queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Queue(args[0])
				if err != nil {
					return err
				}
				if err := failureErr(resp.Error); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				queue := resp.Queue
				if queue.QueueLength == 0 {
					fmt.Fprintf(out, "Queue for %s is empty\n", queue.DepartmentName)
					return nil
				}
				rows := make([][]string, 0, len(queue.Queue))
				for _, entry := range queue.Queue {
					rows = append(rows, []string{
						strconv.Itoa(entry.QueuePosition),
						entry.OrderID,
						entry.Priority,
						entry.QueuedAt,
					})
				}
				fmt.Fprintf(out, "%s (%d waiting)\n", queue.DepartmentName, queue.QueueLength)
				fmt.Fprintln(out, renderTable(
					[]string{"POS", "ORDER", "PRIORITY", "QUEUED AT"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newQueueDrainCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "drain <department>",
		Short: "Retry assignment for the front of a department queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Drain(args[0])
				if err != nil {
					return err
				}
				if err := failureErr(resp.Error); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !resp.Drained || resp.Result == nil {
					fmt.Fprintln(out, "Nothing to drain")
					return nil
				}
				fmt.Fprintf(out, "%s %s\n", resp.Result.OrderID, describeAssignment(resp.Result.Assignment))
				return nil
			})
		},
	}
}
