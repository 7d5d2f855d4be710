package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"atelier/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status and store health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Status()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Running:      %s (pid %d)\n", yesNo(resp.Running), resp.PID)
				fmt.Fprintf(out, "Database:     %s\n", resp.DatabasePath)
				fmt.Fprintf(out, "Lock file:    %s\n", resp.LockPath)
				fmt.Fprintf(out, "Departments:  %d\n", resp.Departments)
				if resp.HealthError != "" {
					fmt.Fprintf(out, "Health:       unavailable (%s)\n", resp.HealthError)
					return nil
				}
				fmt.Fprintf(out, "Orders:       %d total, %d in factory, %d completed\n",
					resp.Health.Orders, resp.Health.InFactory, resp.Health.Completed)
				fmt.Fprintf(out, "Tracking:     %d open entries, %d queued\n",
					resp.Health.OpenEntries, resp.Health.QueuedEntries)
				return nil
			})
		},
	}
}

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Ask the daemon to shut down",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Stop()
				if err != nil {
					return err
				}
				if !resp.Stopped {
					return errors.New("daemon did not acknowledge stop")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Daemon stopping")
				return nil
			})
		},
	}
}

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TestNotification()
				if err != nil {
					return err
				}
				switch {
				case resp.Message != "":
					fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
				case resp.Sent:
					fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
				default:
					fmt.Fprintln(cmd.OutOrStdout(), "Notification not sent")
				}
				return nil
			})
		},
	}
}
