package mcp

import "github.com/gepes/criagil/internal/domain/demand"

var (
	statusEnum   = enumValues(demand.Statuses)
	typeEnum     = enumValues(demand.Types)
	priorityEnum = enumValues(demand.Priorities)
)

func enumValues[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func enumProp(description string, values []string) map[string]any {
	return map[string]any{"type": "string", "description": description, "enum": values}
}

func stringListProp(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"description": description,
		"items":       map[string]any{"type": "string"},
	}
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Projects
		{
			Name:        "list_projects",
			Description: "List every project in creation order",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
			Annotations: map[string]any{"readOnlyHint": true},
		},
		{
			Name:        "create_project",
			Description: "Create a project to group demands. Color defaults to #3B82F6",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":        stringProp("Project display name"),
					"description": stringProp("Project description"),
					"color":       stringProp("Hex color such as #10B981"),
					"is_active": map[string]any{
						"type":        "boolean",
						"description": "Whether the project is active (default true)",
					},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "update_project",
			Description: "Update project fields. Omitted fields are left unchanged",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":          stringProp("Project ID"),
					"name":        stringProp("New display name"),
					"description": stringProp("New description"),
					"color":       stringProp("New hex color"),
					"is_active": map[string]any{
						"type":        "boolean",
						"description": "Whether the project is active",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "delete_project",
			Description: "Delete a project. Its demands stay on the board and render with the placeholder project",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": stringProp("Project ID"),
				},
				"required": []string{"id"},
			},
			Annotations: map[string]any{"destructiveHint": true},
		},

		// Users
		{
			Name:        "list_users",
			Description: "List the users demands can be assigned to",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
			Annotations: map[string]any{"readOnlyHint": true},
		},

		// Demands
		{
			Name:        "create_demand",
			Description: "Submit a demand. It lands at the end of the backlog unless status is given",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":           stringProp("Short title"),
					"description":     stringProp("What is being requested"),
					"type":            enumProp("Kind of work", typeEnum),
					"priority":        enumProp("Priority from least to most severe", priorityEnum),
					"stakeholder":     stringProp("Person or area requesting the work"),
					"assignee_ids":    stringListProp("User IDs to assign"),
					"project_id":      stringProp("Project ID"),
					"status":          enumProp("Initial column (default backlog)", statusEnum),
					"due_date":        stringProp("Due date as YYYY-MM-DD"),
					"estimated_hours": map[string]any{"type": "integer", "minimum": 1, "description": "Estimated effort in hours"},
					"tags":            stringListProp("Free-form tags"),
				},
				"required": []string{"title", "description", "type", "priority", "stakeholder", "project_id"},
			},
		},
		{
			Name:        "update_demand",
			Description: "Edit a demand. Omitted fields are left unchanged; a changed status moves the card to the end of that column",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":              stringProp("Demand ID"),
					"title":           stringProp("New title"),
					"description":     stringProp("New description"),
					"type":            enumProp("Kind of work", typeEnum),
					"priority":        enumProp("Priority", priorityEnum),
					"stakeholder":     stringProp("Requesting person or area"),
					"assignee_ids":    stringListProp("Replaces the assignee list; an empty list unassigns everyone"),
					"project_id":      stringProp("Project ID"),
					"status":          enumProp("Column", statusEnum),
					"due_date":        stringProp("Due date as YYYY-MM-DD; empty string clears it"),
					"estimated_hours": map[string]any{"type": "integer", "minimum": 0, "description": "Estimated hours; 0 clears it"},
					"tags":            stringListProp("Replaces the tag list"),
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "move_demand",
			Description: "Move a demand to the end of another column. Any column can move to any other",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":     stringProp("Demand ID"),
					"status": enumProp("Target column", statusEnum),
				},
				"required": []string{"id", "status"},
			},
		},
		{
			Name:        "get_demand",
			Description: "Get a demand with its resolved project",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": stringProp("Demand ID"),
				},
				"required": []string{"id"},
			},
			Annotations: map[string]any{"readOnlyHint": true},
		},

		// Board
		{
			Name:        "board_view",
			Description: "Return the six board columns filtered by search term, project, assignee, type and priority. Omitted filters or \"all\" match everything",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"search_term": stringProp("Case-insensitive text matched against title, description and stakeholder"),
					"project_id":  stringProp("Project ID or \"all\""),
					"assignee_id": stringProp("User ID or \"all\""),
					"type":        stringProp("Demand type or \"all\""),
					"priority":    stringProp("Priority or \"all\""),
				},
			},
			Annotations: map[string]any{"readOnlyHint": true},
		},
		{
			Name:        "board_metrics",
			Description: "Totals per column, work in progress, completed count and completion rate",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
			Annotations: map[string]any{"readOnlyHint": true},
		},
		{
			Name:        "get_recent_activity",
			Description: "List recent board activity, newest first",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_id": stringProp("Only activity for this project"),
					"demand_id":  stringProp("Only activity for this demand"),
					"type": enumProp("Activity type", []string{
						"demand_created", "demand_updated", "demand_moved",
						"project_created", "project_updated", "project_deleted", "board_seeded",
					}),
					"limit": map[string]any{"type": "integer", "minimum": 1, "description": "Maximum entries (default 50)"},
				},
			},
			Annotations: map[string]any{"readOnlyHint": true},
		},
	}
}
