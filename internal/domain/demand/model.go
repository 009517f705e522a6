package demand

import (
	"time"

	"github.com/gepes/criagil/internal/domain/user"
)

// Status is the board column a demand occupies.
type Status string

const (
	StatusBacklog  Status = "backlog"
	StatusTodo     Status = "todo"
	StatusProgress Status = "progress"
	StatusFrozen   Status = "frozen"
	StatusValidate Status = "validate"
	StatusDone     Status = "done"
)

// Statuses lists every column in board order.
var Statuses = []Status{
	StatusBacklog,
	StatusTodo,
	StatusProgress,
	StatusFrozen,
	StatusValidate,
	StatusDone,
}

var statusTitles = map[Status]string{
	StatusBacklog:  "Backlog",
	StatusTodo:     "A Fazer",
	StatusProgress: "Em Andamento",
	StatusFrozen:   "Geladeira",
	StatusValidate: "A Validar",
	StatusDone:     "Feito",
}

// Valid reports whether s is one of the six columns.
func (s Status) Valid() bool {
	_, ok := statusTitles[s]
	return ok
}

// Title is the column heading shown on the board.
func (s Status) Title() string {
	return statusTitles[s]
}

// Type classifies the kind of work.
type Type string

const (
	TypeFeature     Type = "feature"
	TypeBug         Type = "bug"
	TypeSupport     Type = "support"
	TypeImprovement Type = "improvement"
)

// Types lists every demand type.
var Types = []Type{TypeFeature, TypeBug, TypeSupport, TypeImprovement}

// Valid reports whether t is a known demand type.
func (t Type) Valid() bool {
	switch t {
	case TypeFeature, TypeBug, TypeSupport, TypeImprovement:
		return true
	}
	return false
}

// Priority is ordered by ascending severity.
type Priority string

const (
	PriorityLow      Priority = "baixa"
	PriorityMedium   Priority = "média"
	PriorityHigh     Priority = "alta"
	PriorityCritical Priority = "crítica"
)

// Priorities lists priorities from least to most severe.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Rank orders priorities by severity, 1 for baixa through 4 for crítica. Unknown values rank 0.
func (p Priority) Rank() int {
	for i, known := range Priorities {
		if p == known {
			return i + 1
		}
	}
	return 0
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Demand is a work item tracked through the board.
type Demand struct {
	ID             string      `json:"id" yaml:"id"`
	Title          string      `json:"title" yaml:"title"`
	Description    string      `json:"description" yaml:"description"`
	Type           Type        `json:"type" yaml:"type"`
	Priority       Priority    `json:"priority" yaml:"priority"`
	Stakeholder    string      `json:"stakeholder" yaml:"stakeholder"`
	Assignees      []user.User `json:"assignees" yaml:"-"`
	ProjectID      string      `json:"project_id" yaml:"project_id"`
	Status         Status      `json:"status" yaml:"status"`
	CreatedAt      time.Time   `json:"created_at" yaml:"created_at"`
	DueDate        *time.Time  `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	EstimatedHours *int        `json:"estimated_hours,omitempty" yaml:"estimated_hours,omitempty"`
	Tags           []string    `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// HasAssignee reports whether the user with the given ID is assigned.
func (d Demand) HasAssignee(userID string) bool {
	for _, u := range d.Assignees {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// AssigneeIDs returns the assignee IDs in order.
func (d Demand) AssigneeIDs() []string {
	ids := make([]string, len(d.Assignees))
	for i, u := range d.Assignees {
		ids[i] = u.ID
	}
	return ids
}

func (d Demand) clone() Demand {
	if d.Assignees != nil {
		d.Assignees = append([]user.User(nil), d.Assignees...)
	}
	if d.Tags != nil {
		d.Tags = append([]string(nil), d.Tags...)
	}
	if d.DueDate != nil {
		due := *d.DueDate
		d.DueDate = &due
	}
	if d.EstimatedHours != nil {
		hours := *d.EstimatedHours
		d.EstimatedHours = &hours
	}
	return d
}

// Draft is a demand before the board assigns its ID and creation time.
// An empty Status means intake into the backlog.
type Draft struct {
	Title          string
	Description    string
	Type           Type
	Priority       Priority
	Stakeholder    string
	Assignees      []user.User
	ProjectID      string
	Status         Status
	DueDate        *time.Time
	EstimatedHours *int
	Tags           []string
}

// Column is one status partition in board order.
type Column struct {
	Status  Status   `json:"status"`
	Title   string   `json:"title"`
	Demands []Demand `json:"demands"`
}

// MoveResult describes the outcome of a move. Moved is false for a self-drop.
type MoveResult struct {
	Demand Demand `json:"demand"`
	From   Status `json:"from"`
	To     Status `json:"to"`
	Moved  bool   `json:"moved"`
}
