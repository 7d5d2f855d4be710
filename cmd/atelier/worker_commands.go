package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"atelier/internal/ipc"
)

func newWorkerCommand(ctx *commandContext) *cobra.Command {
	workerCmd := &cobra.Command{
		Use:   "worker",
		Short: "Manage the worker roster",
	}

	workerCmd.AddCommand(newWorkerAddCommand(ctx))
	workerCmd.AddCommand(newWorkerListCommand(ctx))
	workerCmd.AddCommand(newWorkerActivateCommand(ctx))
	workerCmd.AddCommand(newWorkerDeactivateCommand(ctx))

	return workerCmd
}

func newWorkerAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <department>",
		Short: "Register a worker in a department",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.WorkerAdd(args[0], args[1])
				if err != nil {
					return err
				}
				if err := failureErr(resp.Error); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added worker %s (%s) to %s\n", resp.Worker.Name, resp.Worker.WorkerID, resp.Worker.DepartmentID)
				return nil
			})
		},
	}
}

func newWorkerListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workers with their current workloads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.WorkerList()
				if err != nil {
					return err
				}
				if err := failureErr(resp.Error); err != nil {
					return err
				}
				if len(resp.Workers) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No workers registered")
					return nil
				}
				rows := make([][]string, 0, len(resp.Workers))
				for _, worker := range resp.Workers {
					rows = append(rows, []string{
						worker.WorkerID,
						worker.Name,
						worker.DepartmentID,
						yesNo(worker.Active),
						strconv.Itoa(worker.Workload),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"WORKER", "NAME", "DEPARTMENT", "ACTIVE", "WORKLOAD"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}

func newWorkerActivateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <worker-id>",
		Short: "Mark a worker as available for assignment",
		Args:  cobra.ExactArgs(1),
		RunE:  setWorkerActiveRunE(ctx, true, "activated"),
	}
}

func newWorkerDeactivateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <worker-id>",
		Short: "Exclude a worker from new assignments",
		Args:  cobra.ExactArgs(1),
		RunE:  setWorkerActiveRunE(ctx, false, "deactivated"),
	}
}

func setWorkerActiveRunE(ctx *commandContext, active bool, verb string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return ctx.withClient(func(client *ipc.Client) error {
			resp, err := client.WorkerSetActive(args[0], active)
			if err != nil {
				return err
			}
			if err := failureErr(resp.Error); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Worker %s %s\n", args[0], verb)
			return nil
		})
	}
}
