package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gepes/criagil/internal/mcp"
)

func (c *cli) boardCmd() *cobra.Command {
	board := &cobra.Command{Use: "board", Short: "Show the board"}
	board.AddCommand(c.boardShowCmd(), c.boardMetricsCmd())
	return board
}

func (c *cli) boardShowCmd() *cobra.Command {
	var q mcp.BoardViewParams
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the six columns, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBoard(cmd.Context(), func(ctx context.Context, h *mcp.Handler) error {
				view, err := call[mcp.BoardViewResponse](ctx, h, "board_view", q)
				if err != nil {
					return err
				}
				if c.jsonOutput() {
					return c.printJSON(view)
				}
				c.renderBoard(view)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&q.SearchTerm, "search", "s", "", "text matched against title, description and stakeholder")
	cmd.Flags().StringVar(&q.ProjectID, "project", "all", "project id")
	cmd.Flags().StringVar(&q.AssigneeID, "assignee", "all", "assignee user id")
	cmd.Flags().StringVar(&q.Type, "type", "all", "demand type")
	cmd.Flags().StringVar(&q.Priority, "priority", "all", "priority")
	return cmd
}

func (c *cli) renderBoard(view mcp.BoardViewResponse) {
	for _, col := range view.Columns {
		tw := table.NewWriter()
		tw.SetOutputMirror(c.out)
		tw.SetStyle(table.StyleLight)
		tw.SetTitle(fmt.Sprintf("%s (%d)", col.Title, col.Count))
		tw.AppendHeader(table.Row{"ID", "Title", "Type", "Priority", "Project", "Assignees"})
		for _, d := range col.Demands {
			names := make([]string, 0, len(d.Assignees))
			for _, u := range d.Assignees {
				names = append(names, u.Name)
			}
			tw.AppendRow(table.Row{d.ID, d.Title, d.Type, d.Priority, d.Project.Name, strings.Join(names, ", ")})
		}
		tw.Render()
	}
	fmt.Fprintf(c.out, "%d demands\n", view.TotalResults)
}

func (c *cli) boardMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Per-column counts and completion rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBoard(cmd.Context(), func(ctx context.Context, h *mcp.Handler) error {
				m, err := call[mcp.BoardMetricsResponse](ctx, h, "board_metrics", nil)
				if err != nil {
					return err
				}
				if c.jsonOutput() {
					return c.printJSON(m)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(c.out)
				tw.SetStyle(table.StyleLight)
				tw.AppendHeader(table.Row{"Column", "Count", "WIP limit", ""})
				for _, col := range m.Columns {
					flag := ""
					if col.OverLimit {
						flag = "over limit"
					}
					tw.AppendRow(table.Row{col.Title, col.Count, col.WIPLimit, flag})
				}
				tw.AppendFooter(table.Row{"Total", m.Total, "", fmt.Sprintf("%d%% done", m.CompletionRate)})
				tw.Render()
				return nil
			})
		},
	}
}
