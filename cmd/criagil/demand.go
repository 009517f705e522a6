package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gepes/criagil/internal/domain/demand"
	"github.com/gepes/criagil/internal/mcp"
)

func (c *cli) demandCmd() *cobra.Command {
	dem := &cobra.Command{Use: "demand", Short: "Manage demands"}
	dem.AddCommand(c.demandCreateCmd(), c.demandEditCmd(), c.demandMoveCmd(), c.demandGetCmd())
	return dem
}

func (c *cli) demandCreateCmd() *cobra.Command {
	var p mcp.CreateDemandParams
	var hours int
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Submit a demand to the backlog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("hours") {
				p.EstimatedHours = &hours
			}
			return c.withBoard(cmd.Context(), func(ctx context.Context, h *mcp.Handler) error {
				d, err := call[mcp.DemandResponse](ctx, h, "create_demand", p)
				if err != nil {
					return err
				}
				return c.printDemand(d)
			})
		},
	}
	cmd.Flags().StringVar(&p.Title, "title", "", "title")
	cmd.Flags().StringVar(&p.Description, "description", "", "description")
	cmd.Flags().StringVar(&p.Type, "type", "feature", "feature, bug, support or improvement")
	cmd.Flags().StringVar(&p.Priority, "priority", "média", "baixa, média, alta or crítica")
	cmd.Flags().StringVar(&p.Stakeholder, "stakeholder", "", "requesting person or area")
	cmd.Flags().StringVar(&p.ProjectID, "project", "", "project id")
	cmd.Flags().StringVar(&p.Status, "status", "", "initial column (default backlog)")
	cmd.Flags().StringArrayVar(&p.AssigneeIDs, "assignee", nil, "assignee user id (repeatable)")
	cmd.Flags().StringSliceVar(&p.Tags, "tags", nil, "comma-separated tags")
	cmd.Flags().StringVar(&p.DueDate, "due", "", "due date YYYY-MM-DD")
	cmd.Flags().IntVar(&hours, "hours", 0, "estimated hours")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func (c *cli) demandEditCmd() *cobra.Command {
	var title, description, typ, priority, stakeholder, project, status, due, tags string
	var assignees []string
	var hours int
	var unassign bool
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a demand; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := mcp.UpdateDemandParams{ID: args[0]}
			flags := cmd.Flags()
			set := func(name string, dst **string, val *string) {
				if flags.Changed(name) {
					*dst = val
				}
			}
			set("title", &p.Title, &title)
			set("description", &p.Description, &description)
			set("type", &p.Type, &typ)
			set("priority", &p.Priority, &priority)
			set("stakeholder", &p.Stakeholder, &stakeholder)
			set("project", &p.ProjectID, &project)
			set("status", &p.Status, &status)
			set("due", &p.DueDate, &due)
			if flags.Changed("hours") {
				p.EstimatedHours = &hours
			}
			if flags.Changed("assignee") || unassign {
				p.AssigneeIDs = append([]string{}, assignees...)
			}
			if flags.Changed("tags") {
				p.Tags = append([]string{}, demand.SplitTags(tags)...)
			}
			return c.withBoard(cmd.Context(), func(ctx context.Context, h *mcp.Handler) error {
				d, err := call[mcp.DemandResponse](ctx, h, "update_demand", p)
				if err != nil {
					return err
				}
				return c.printDemand(d)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&typ, "type", "", "feature, bug, support or improvement")
	cmd.Flags().StringVar(&priority, "priority", "", "baixa, média, alta or crítica")
	cmd.Flags().StringVar(&stakeholder, "stakeholder", "", "requesting person or area")
	cmd.Flags().StringVar(&project, "project", "", "project id")
	cmd.Flags().StringVar(&status, "status", "", "column; a change moves the card to the end of it")
	cmd.Flags().StringArrayVar(&assignees, "assignee", nil, "assignee user id (repeatable, replaces the list)")
	cmd.Flags().BoolVar(&unassign, "unassign", false, "remove every assignee")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags, replacing the list; empty clears it")
	cmd.Flags().StringVar(&due, "due", "", "due date YYYY-MM-DD; empty clears it")
	cmd.Flags().IntVar(&hours, "hours", 0, "estimated hours; 0 clears it")
	return cmd
}

func (c *cli) demandMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <status>",
		Short: "Move a demand to the end of another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBoard(cmd.Context(), func(ctx context.Context, h *mcp.Handler) error {
				res, err := call[mcp.MoveDemandResponse](ctx, h, "move_demand", mcp.MoveDemandParams{ID: args[0], Status: args[1]})
				if err != nil {
					return err
				}
				if c.jsonOutput() {
					return c.printJSON(res)
				}
				if !res.Moved {
					fmt.Fprintf(c.out, "%s already in %s\n", res.Demand.ID, res.To)
					return nil
				}
				fmt.Fprintf(c.out, "%s moved %s -> %s\n", res.Demand.ID, res.From, res.To)
				return nil
			})
		},
	}
}

func (c *cli) demandGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one demand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBoard(cmd.Context(), func(ctx context.Context, h *mcp.Handler) error {
				d, err := call[mcp.DemandResponse](ctx, h, "get_demand", mcp.GetDemandParams{ID: args[0]})
				if err != nil {
					return err
				}
				return c.printDemand(d)
			})
		},
	}
}

func (c *cli) printDemand(d mcp.DemandResponse) error {
	if c.jsonOutput() {
		return c.printJSON(d)
	}
	names := make([]string, 0, len(d.Assignees))
	for _, u := range d.Assignees {
		names = append(names, u.Name)
	}
	due := ""
	if d.DueDate != nil {
		due = d.DueDate.Format("2006-01-02")
	}
	hours := ""
	if d.EstimatedHours != nil {
		hours = fmt.Sprint(*d.EstimatedHours)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(c.out)
	tw.SetStyle(table.StyleLight)
	tw.AppendRows([]table.Row{
		{"ID", d.ID},
		{"Title", d.Title},
		{"Description", d.Description},
		{"Status", d.Status.Title()},
		{"Type", d.Type},
		{"Priority", d.Priority},
		{"Stakeholder", d.Stakeholder},
		{"Project", d.Project.Name},
		{"Assignees", strings.Join(names, ", ")},
		{"Due", due},
		{"Hours", hours},
		{"Tags", strings.Join(d.Tags, ", ")},
	})
	tw.Render()
	return nil
}
