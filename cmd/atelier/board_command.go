package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"atelier/internal/ipc"
)

func newBoardCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Show the factory kanban board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Board()
				if err != nil {
					return err
				}
				if err := failureErr(resp.Error); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, column := range resp.Board.Columns {
					title := fmt.Sprintf("%s  (active %d, waiting %d", column.DepartmentName, len(column.Cards), column.QueueLength)
					if column.UrgentCount > 0 {
						title += fmt.Sprintf(", urgent %d", column.UrgentCount)
					}
					title += ")"
					for _, line := range renderSectionHeader(title, colorize) {
						fmt.Fprintln(out, line)
					}
					if len(column.Cards) == 0 {
						fmt.Fprintln(out, "(empty)")
						fmt.Fprintln(out)
						continue
					}
					rows := make([][]string, 0, len(column.Cards))
					for _, card := range column.Cards {
						position := ""
						if card.QueuePosition != nil {
							position = strconv.Itoa(*card.QueuePosition)
						}
						rows = append(rows, []string{
							card.OrderID,
							card.Description,
							card.Priority,
							card.Status,
							card.WorkerName,
							position,
						})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"ORDER", "DESCRIPTION", "PRIORITY", "STATUS", "WORKER", "QUEUE POS"},
						rows,
						[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
					))
					fmt.Fprintln(out)
				}
				return nil
			})
		},
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func newTimelineCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline <order-id>",
		Short: "Show an order's department history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Timeline(args[0])
				if err != nil {
					return err
				}
				if err := failureErr(resp.Error); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				timeline := resp.Timeline
				fmt.Fprintf(out, "%s  %s  [%s]\n", timeline.OrderID, timeline.Description, timeline.Status)
				if len(timeline.Steps) == 0 {
					fmt.Fprintln(out, "No department history yet")
					return nil
				}
				rows := make([][]string, 0, len(timeline.Steps))
				for _, step := range timeline.Steps {
					rows = append(rows, []string{
						step.DepartmentName,
						step.Status,
						step.WorkerName,
						step.EnteredAt,
						step.ExitedAt,
						fmt.Sprintf("%.0f%%", step.CompletionPercent),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"DEPARTMENT", "STATUS", "WORKER", "ENTERED", "EXITED", "DONE"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}

func newDepartmentsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "departments",
		Short: "List the pipeline departments in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.DepartmentList()
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(resp.Departments))
				for _, dept := range resp.Departments {
					rows = append(rows, []string{
						strconv.Itoa(dept.Position),
						dept.DepartmentID,
						dept.Name,
						yesNo(dept.Terminal),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"POS", "ID", "NAME", "TERMINAL"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}
