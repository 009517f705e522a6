package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gepes/criagil/internal/domain/activity"
	"github.com/gepes/criagil/internal/domain/demand"
	"github.com/gepes/criagil/internal/domain/filter"
	"github.com/gepes/criagil/internal/domain/metrics"
	"github.com/gepes/criagil/internal/domain/project"
	"github.com/gepes/criagil/internal/domain/user"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (project.Project, error)
	Update(ctx context.Context, req project.UpdateRequest) (project.Project, error)
	Delete(ctx context.Context, id string) error
	Find(ctx context.Context, id string) project.Project
	List(ctx context.Context) ([]project.Project, error)
}

// UserService defines user operations needed by MCP.
type UserService interface {
	List(ctx context.Context) ([]user.User, error)
}

// DemandService defines board operations needed by MCP.
type DemandService interface {
	Create(ctx context.Context, req demand.CreateRequest) (demand.Demand, error)
	Update(ctx context.Context, req demand.UpdateRequest) (demand.Demand, error)
	Move(ctx context.Context, id string, to demand.Status) (demand.MoveResult, error)
	Get(ctx context.Context, id string) (demand.Demand, error)
	List(ctx context.Context) ([]demand.Demand, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Handler dispatches MCP commands. The SDK server and the JSON-RPC transport share it.
type Handler struct {
	projects ProjectService
	users    UserService
	demands  DemandService
	activity ActivityService
}

// NewHandler creates a new MCP handler.
func NewHandler(projects ProjectService, users UserService, demands DemandService, activitySvc ActivityService) *Handler {
	return &Handler{
		projects: projects,
		users:    users,
		demands:  demands,
		activity: activitySvc,
	}
}

// Handle dispatches MCP requests to domain services.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	result, err := h.dispatch(ctx, method, params)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func (h *Handler) dispatch(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "tools/list":
		return ListToolsResult{Tools: buildToolCatalog()}, nil
	case "list_projects":
		projects, err := h.projects.List(ctx)
		if err != nil {
			return nil, err
		}
		return ListProjectsResponse{Projects: projects}, nil
	case "create_project":
		var req CreateProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		proj, err := h.projects.Create(ctx, project.CreateRequest{
			Name:        req.Name,
			Description: req.Description,
			Color:       req.Color,
			IsActive:    req.IsActive,
		})
		if err != nil {
			return nil, err
		}
		return ProjectResponse{Project: proj}, nil
	case "update_project":
		var req UpdateProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		proj, err := h.projects.Update(ctx, project.UpdateRequest{
			ID:          req.ID,
			Name:        req.Name,
			Description: req.Description,
			Color:       req.Color,
			IsActive:    req.IsActive,
		})
		if err != nil {
			return nil, err
		}
		return ProjectResponse{Project: proj}, nil
	case "delete_project":
		var req DeleteProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.projects.Delete(ctx, req.ID); err != nil {
			return nil, err
		}
		return DeleteProjectResponse{ID: req.ID, Deleted: true}, nil
	case "list_users":
		users, err := h.users.List(ctx)
		if err != nil {
			return nil, err
		}
		return ListUsersResponse{Users: users}, nil
	case "create_demand":
		var req CreateDemandParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		due, err := parseDate(req.DueDate)
		if err != nil {
			return nil, err
		}
		dem, err := h.demands.Create(ctx, demand.CreateRequest{
			Title:          req.Title,
			Description:    req.Description,
			Type:           demand.Type(req.Type),
			Priority:       demand.Priority(req.Priority),
			Stakeholder:    req.Stakeholder,
			AssigneeIDs:    req.AssigneeIDs,
			ProjectID:      req.ProjectID,
			Status:         demand.Status(req.Status),
			DueDate:        due,
			EstimatedHours: req.EstimatedHours,
			Tags:           req.Tags,
		})
		if err != nil {
			return nil, err
		}
		return h.demandResponse(ctx, dem), nil
	case "update_demand":
		var req UpdateDemandParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		update, err := toUpdateRequest(req)
		if err != nil {
			return nil, err
		}
		dem, err := h.demands.Update(ctx, update)
		if err != nil {
			return nil, err
		}
		return h.demandResponse(ctx, dem), nil
	case "move_demand":
		var req MoveDemandParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		res, err := h.demands.Move(ctx, req.ID, demand.Status(req.Status))
		if err != nil {
			return nil, err
		}
		return MoveDemandResponse{
			Demand: h.demandResponse(ctx, res.Demand),
			From:   res.From,
			To:     res.To,
			Moved:  res.Moved,
		}, nil
	case "get_demand":
		var req GetDemandParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		dem, err := h.demands.Get(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		return h.demandResponse(ctx, dem), nil
	case "board_view":
		var req BoardViewParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		demands, err := h.demands.List(ctx)
		if err != nil {
			return nil, err
		}
		view := filter.Apply(demands, filter.Query{
			SearchTerm: req.SearchTerm,
			ProjectID:  req.ProjectID,
			AssigneeID: req.AssigneeID,
			Type:       req.Type,
			Priority:   req.Priority,
		})
		resp := BoardViewResponse{
			Columns:      make([]BoardColumnResponse, 0, len(view.Columns)),
			TotalResults: view.TotalResults,
		}
		for _, col := range view.Columns {
			cards := make([]DemandResponse, 0, len(col.Demands))
			for _, d := range col.Demands {
				cards = append(cards, h.demandResponse(ctx, d))
			}
			resp.Columns = append(resp.Columns, BoardColumnResponse{
				Status:  col.Status,
				Title:   col.Title,
				Count:   len(cards),
				Demands: cards,
			})
		}
		return resp, nil
	case "board_metrics":
		demands, err := h.demands.List(ctx)
		if err != nil {
			return nil, err
		}
		return BoardMetricsResponse{Summary: metrics.Compute(demands)}, nil
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := activity.ListActivityOptions{
			ProjectID: req.ProjectID,
			DemandID:  req.DemandID,
			Limit:     req.Limit,
		}
		if req.Type != nil {
			typ := activity.ActivityType(*req.Type)
			opts.ActivityType = &typ
		}
		entries, err := h.activity.GetRecentActivity(ctx, opts)
		if err != nil {
			return nil, err
		}
		resp := GetRecentActivityResponse{Entries: make([]ActivityEntryResponse, 0, len(entries))}
		for _, entry := range entries {
			resp.Entries = append(resp.Entries, ActivityEntryResponse{
				Timestamp: entry.CreatedAt,
				Type:      entry.ActivityType,
				ProjectID: entry.ProjectID,
				DemandID:  entry.DemandID,
				Summary:   entry.Summary,
				Details:   entry.Details,
			})
		}
		return resp, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

func (h *Handler) demandResponse(ctx context.Context, d demand.Demand) DemandResponse {
	proj := h.projects.Find(ctx, d.ProjectID)
	return DemandResponse{
		Demand: d,
		Project: ProjectRef{
			ID:          proj.ID,
			Name:        proj.Name,
			Color:       proj.Color,
			Placeholder: proj.IsPlaceholder(),
		},
	}
}

func toUpdateRequest(req UpdateDemandParams) (demand.UpdateRequest, error) {
	out := demand.UpdateRequest{
		ID:             req.ID,
		Title:          req.Title,
		Description:    req.Description,
		Stakeholder:    req.Stakeholder,
		AssigneeIDs:    req.AssigneeIDs,
		ProjectID:      req.ProjectID,
		EstimatedHours: req.EstimatedHours,
		Tags:           req.Tags,
	}
	if req.Type != nil {
		typ := demand.Type(*req.Type)
		out.Type = &typ
	}
	if req.Priority != nil {
		prio := demand.Priority(*req.Priority)
		out.Priority = &prio
	}
	if req.Status != nil {
		st := demand.Status(*req.Status)
		out.Status = &st
	}
	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			return demand.UpdateRequest{}, err
		}
		out.DueDate = due
		out.ClearDueDate = due == nil
	}
	return out, nil
}

// parseDate accepts a calendar date or an RFC 3339 timestamp. Empty means no date.
func parseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: due_date %q is not YYYY-MM-DD", demand.ErrInvalidInput, value)
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}
