package activity

import "time"

// ActivityType represents the type of board event
type ActivityType string

const (
	TypeDemandCreated  ActivityType = "demand_created"
	TypeDemandUpdated  ActivityType = "demand_updated"
	TypeDemandMoved    ActivityType = "demand_moved"
	TypeProjectCreated ActivityType = "project_created"
	TypeProjectUpdated ActivityType = "project_updated"
	TypeProjectDeleted ActivityType = "project_deleted"
	TypeBoardSeeded    ActivityType = "board_seeded"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	ProjectID    string       `json:"project_id,omitempty"`
	DemandID     *string      `json:"demand_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
