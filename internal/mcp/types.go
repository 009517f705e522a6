package mcp

import (
	"time"

	"github.com/gepes/criagil/internal/domain/activity"
	"github.com/gepes/criagil/internal/domain/demand"
	"github.com/gepes/criagil/internal/domain/metrics"
	"github.com/gepes/criagil/internal/domain/project"
	"github.com/gepes/criagil/internal/domain/user"
)

type CreateProjectParams struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

type UpdateProjectParams struct {
	ID          string  `json:"id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type DeleteProjectParams struct {
	ID string `json:"id"`
}

type CreateDemandParams struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Type           string   `json:"type"`
	Priority       string   `json:"priority"`
	Stakeholder    string   `json:"stakeholder"`
	AssigneeIDs    []string `json:"assignee_ids,omitempty"`
	ProjectID      string   `json:"project_id"`
	Status         string   `json:"status,omitempty"`
	DueDate        string   `json:"due_date,omitempty"`
	EstimatedHours *int     `json:"estimated_hours,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}

// UpdateDemandParams leaves absent fields unchanged. An empty due_date clears
// it, estimated_hours 0 clears it, and an empty assignee_ids list unassigns everyone.
// The list fields encode nil as null (unchanged) and keep [] (clear).
type UpdateDemandParams struct {
	ID             string   `json:"id"`
	Title          *string  `json:"title,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Type           *string  `json:"type,omitempty"`
	Priority       *string  `json:"priority,omitempty"`
	Stakeholder    *string  `json:"stakeholder,omitempty"`
	AssigneeIDs    []string `json:"assignee_ids"`
	ProjectID      *string  `json:"project_id,omitempty"`
	Status         *string  `json:"status,omitempty"`
	DueDate        *string  `json:"due_date,omitempty"`
	EstimatedHours *int     `json:"estimated_hours,omitempty"`
	Tags           []string `json:"tags"`
}

type MoveDemandParams struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type GetDemandParams struct {
	ID string `json:"id"`
}

type BoardViewParams struct {
	SearchTerm string `json:"search_term,omitempty"`
	ProjectID  string `json:"project_id,omitempty"`
	AssigneeID string `json:"assignee_id,omitempty"`
	Type       string `json:"type,omitempty"`
	Priority   string `json:"priority,omitempty"`
}

type GetRecentActivityParams struct {
	ProjectID string  `json:"project_id,omitempty"`
	DemandID  *string `json:"demand_id,omitempty"`
	Type      *string `json:"type,omitempty"`
	Limit     int     `json:"limit,omitempty"`
}

type ListProjectsResponse struct {
	Projects []project.Project `json:"projects"`
}

type ProjectResponse struct {
	Project project.Project `json:"project"`
}

type DeleteProjectResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type ListUsersResponse struct {
	Users []user.User `json:"users"`
}

// ProjectRef is the project a demand renders with. Placeholder is true when
// the referenced project no longer exists.
type ProjectRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

type DemandResponse struct {
	demand.Demand
	Project ProjectRef `json:"project"`
}

type MoveDemandResponse struct {
	Demand DemandResponse `json:"demand"`
	From   demand.Status  `json:"from"`
	To     demand.Status  `json:"to"`
	Moved  bool           `json:"moved"`
}

type BoardColumnResponse struct {
	Status  demand.Status    `json:"status"`
	Title   string           `json:"title"`
	Count   int              `json:"count"`
	Demands []DemandResponse `json:"demands"`
}

type BoardViewResponse struct {
	Columns      []BoardColumnResponse `json:"columns"`
	TotalResults int                   `json:"total_results"`
}

type BoardMetricsResponse struct {
	metrics.Summary
}

type ActivityEntryResponse struct {
	Timestamp time.Time             `json:"timestamp"`
	Type      activity.ActivityType `json:"type"`
	ProjectID string                `json:"project_id,omitempty"`
	DemandID  *string               `json:"demand_id,omitempty"`
	Summary   string                `json:"summary"`
	Details   string                `json:"details,omitempty"`
}

type GetRecentActivityResponse struct {
	Entries []ActivityEntryResponse `json:"entries"`
}
