package main

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gepes/criagil/internal/domain/activity"
	"github.com/gepes/criagil/internal/mcp"
)

func (c *cli) projectCmd() *cobra.Command {
	prj := &cobra.Command{Use: "project", Short: "Manage projects"}
	prj.AddCommand(c.projectListCmd(), c.projectCreateCmd(), c.projectUpdateCmd(), c.projectDeleteCmd())
	return prj
}

func (c *cli) projectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBoard(cmd.Context(), func(ctx context.Context, h *mcp.Handler) error {
				res, err := call[mcp.ListProjectsResponse](ctx, h, "list_projects", nil)
				if err != nil {
					return err
				}
				if c.jsonOutput() {
					return c.printJSON(res)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(c.out)
				tw.SetStyle(table.StyleLight)
				tw.AppendHeader(table.Row{"ID", "Name", "Color", "Active"})
				for _, p := range res.Projects {
					tw.AppendRow(table.Row{p.ID, p.Name, p.Color, p.IsActive})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func (c *cli) projectCreateCmd() *cobra.Command {
	var p mcp.CreateProjectParams
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBoard(cmd.Context(), func(ctx context.Context, h *mcp.Handler) error {
				res, err := call[mcp.ProjectResponse](ctx, h, "create_project", p)
				if err != nil {
					return err
				}
				if c.jsonOutput() {
					return c.printJSON(res)
				}
				fmt.Fprintf(c.out, "created project %s (%s)\n", res.Project.Name, res.Project.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&p.Name, "name", "", "project name")
	cmd.Flags().StringVar(&p.Description, "description", "", "project description")
	cmd.Flags().StringVar(&p.Color, "color", "", "hex color")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (c *cli) projectUpdateCmd() *cobra.Command {
	var name, description, color string
	var active bool
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a project; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := mcp.UpdateProjectParams{ID: args[0]}
			if cmd.Flags().Changed("name") {
				p.Name = &name
			}
			if cmd.Flags().Changed("description") {
				p.Description = &description
			}
			if cmd.Flags().Changed("color") {
				p.Color = &color
			}
			if cmd.Flags().Changed("active") {
				p.IsActive = &active
			}
			return c.withBoard(cmd.Context(), func(ctx context.Context, h *mcp.Handler) error {
				res, err := call[mcp.ProjectResponse](ctx, h, "update_project", p)
				if err != nil {
					return err
				}
				if c.jsonOutput() {
					return c.printJSON(res)
				}
				fmt.Fprintf(c.out, "updated project %s\n", res.Project.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name")
	cmd.Flags().StringVar(&description, "description", "", "project description")
	cmd.Flags().StringVar(&color, "color", "", "hex color")
	cmd.Flags().BoolVar(&active, "active", true, "whether the project is active")
	return cmd
}

func (c *cli) projectDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project; its demands stay on the board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBoard(cmd.Context(), func(ctx context.Context, h *mcp.Handler) error {
				res, err := call[mcp.DeleteProjectResponse](ctx, h, "delete_project", mcp.DeleteProjectParams{ID: args[0]})
				if err != nil {
					return err
				}
				if c.jsonOutput() {
					return c.printJSON(res)
				}
				fmt.Fprintf(c.out, "deleted project %s\n", res.ID)
				return nil
			})
		},
	}
}

func (c *cli) userCmd() *cobra.Command {
	usr := &cobra.Command{Use: "user", Short: "Browse users"}
	usr.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List users demands can be assigned to",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBoard(cmd.Context(), func(ctx context.Context, h *mcp.Handler) error {
				res, err := call[mcp.ListUsersResponse](ctx, h, "list_users", nil)
				if err != nil {
					return err
				}
				if c.jsonOutput() {
					return c.printJSON(res)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(c.out)
				tw.SetStyle(table.StyleLight)
				tw.AppendHeader(table.Row{"ID", "Name", "Email"})
				for _, u := range res.Users {
					tw.AppendRow(table.Row{u.ID, u.Name, u.Email})
				}
				tw.Render()
				return nil
			})
		},
	})
	return usr
}

func (c *cli) activityCmd() *cobra.Command {
	act := &cobra.Command{Use: "activity", Short: "Browse the activity log"}
	var p mcp.GetRecentActivityParams
	var demandID string
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Show recent activity, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if demandID != "" {
				p.DemandID = &demandID
			}
			return c.withBoard(cmd.Context(), func(ctx context.Context, h *mcp.Handler) error {
				res, err := call[mcp.GetRecentActivityResponse](ctx, h, "get_recent_activity", p)
				if err != nil {
					return err
				}
				if c.jsonOutput() {
					return c.printJSON(res)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(c.out)
				tw.SetStyle(table.StyleLight)
				tw.AppendHeader(table.Row{"When", "Type", "Summary"})
				for _, e := range res.Entries {
					tw.AppendRow(table.Row{e.Timestamp.Format("2006-01-02 15:04:05"), e.Type, e.Summary})
				}
				tw.Render()
				return nil
			})
		},
	}
	tail.Flags().IntVarP(&p.Limit, "limit", "n", activity.DefaultLimit, "maximum entries")
	tail.Flags().StringVar(&p.ProjectID, "project", "", "project id")
	tail.Flags().StringVar(&demandID, "demand", "", "demand id")
	act.AddCommand(tail)
	return act
}
