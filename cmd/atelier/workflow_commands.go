package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"atelier/internal/api"
	"atelier/internal/ipc"
)

// describeAssignment renders a resolution outcome for terminal output.
func describeAssignment(a api.Assignment) string {
	switch {
	case a.Assigned && a.WorkerName != "":
		return fmt.Sprintf("assigned to %s (%s)", a.WorkerName, a.WorkerID)
	case a.Assigned:
		return "assigned"
	case a.Queued:
		return fmt.Sprintf("queued at position %d", a.QueuePosition)
	default:
		return "unresolved"
	}
}

func newSendCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "send <order-id> [order-id ...]",
		Short: "Send draft orders into the factory pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Send(args)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				failed := 0
				for _, result := range resp.Results {
					if result.Error != nil {
						failed++
						fmt.Fprintf(out, "%s: %s\n", result.OrderID, result.Error.Message)
						continue
					}
					detail := "dispatched"
					if result.Assignment != nil {
						detail = describeAssignment(*result.Assignment)
					}
					fmt.Fprintf(out, "%s: entered %s, %s\n", result.OrderID, result.Department, detail)
				}
				if failed == len(resp.Results) && failed > 0 {
					return fmt.Errorf("no orders were dispatched")
				}
				return nil
			})
		},
	}
}

func newMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move <order-id> <department>",
		Short: "Move an order to a specific department",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Move(args[0], args[1])
				if err != nil {
					return err
				}
				if err := failureErr(resp.Error); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !resp.Result.Moved {
					fmt.Fprintf(out, "%s is already in %s\n", resp.Result.OrderID, resp.Result.NewDepartment)
					return nil
				}
				fmt.Fprintf(out, "%s moved to %s, %s\n", resp.Result.OrderID, resp.Result.NewDepartment, describeAssignment(resp.Result.Assignment))
				return nil
			})
		},
	}
}

func newCompleteCommand(ctx *commandContext) *cobra.Command {
	var percentFlag string

	cmd := &cobra.Command{
		Use:   "complete <order-id> <department>",
		Short: "Complete an order's work in a department",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var percent *float64
			if percentFlag != "" {
				value, err := strconv.ParseFloat(percentFlag, 64)
				if err != nil {
					return fmt.Errorf("invalid completion percent %q", percentFlag)
				}
				percent = &value
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Complete(args[0], args[1], percent)
				if err != nil {
					return err
				}
				if err := failureErr(resp.Error); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				result := resp.Result
				fmt.Fprintf(out, "%s completed %s\n", result.OrderID, result.Department)
				if result.OrderCompleted {
					fmt.Fprintf(out, "%s finished the pipeline\n", result.OrderID)
				} else if result.NextDepartment != "" {
					detail := "dispatched"
					if result.NextAssignment != nil {
						detail = describeAssignment(*result.NextAssignment)
					}
					fmt.Fprintf(out, "%s entered %s, %s\n", result.OrderID, result.NextDepartment, detail)
				}
				if result.QueueDrain != nil {
					fmt.Fprintf(out, "Queue drain: %s %s in %s\n",
						result.QueueDrain.OrderID,
						describeAssignment(result.QueueDrain.Assignment),
						result.Department)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&percentFlag, "percent", "", "Optional completion percent to record (0-100)")
	return cmd
}

func newReassignCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reassign <order-id> <department> <worker-id>",
		Short: "Reassign an in-progress order to another worker",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Reassign(args[0], args[1], args[2])
				if err != nil {
					return err
				}
				if err := failureErr(resp.Error); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if resp.Result.Message != "" {
					fmt.Fprintln(out, resp.Result.Message)
					return nil
				}
				fmt.Fprintf(out, "%s reassigned to %s (%s)\n", args[0], resp.Result.WorkerName, resp.Result.WorkerID)
				return nil
			})
		},
	}
}

func newUnassignCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <order-id> <department>",
		Short: "Remove the assigned worker from an in-progress order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Unassign(args[0], args[1])
				if err != nil {
					return err
				}
				if err := failureErr(resp.Error); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s unassigned, %s\n", args[0], describeAssignment(resp.Result.Resolution))
				return nil
			})
		},
	}
}

func newClaimCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "claim <order-id> <department> <worker-id>",
		Short: "Claim a pending order for a worker",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SelfAssign(args[0], args[1], args[2])
				if err != nil {
					return err
				}
				if err := failureErr(resp.Error); err != nil {
					return err
				}
				if resp.Result.Assigned {
					fmt.Fprintf(cmd.OutOrStdout(), "%s claimed %s in %s\n", args[2], args[0], args[1])
				}
				return nil
			})
		},
	}
}
