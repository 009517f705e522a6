package project

import "time"

// Placeholder values substituted when a demand references a project that no longer exists.
const (
	PlaceholderID    = "unknown"
	PlaceholderName  = "Projeto não encontrado"
	PlaceholderColor = "#6B7280"
)

// DefaultColor is used when a project is created without a color.
const DefaultColor = "#3B82F6"

// Project groups demands on the board.
type Project struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Color       string    `json:"color" yaml:"color"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	IsActive    bool      `json:"is_active" yaml:"is_active"`
}

// Placeholder returns the synthetic project used for dangling references.
func Placeholder() Project {
	return Project{
		ID:    PlaceholderID,
		Name:  PlaceholderName,
		Color: PlaceholderColor,
	}
}

// IsPlaceholder reports whether p is the dangling-reference stand-in.
func (p Project) IsPlaceholder() bool {
	return p.ID == PlaceholderID
}
