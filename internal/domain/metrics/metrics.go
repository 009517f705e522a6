// Package metrics summarizes the board for the dashboard header.
package metrics

import (
	"math"

	"github.com/gepes/criagil/internal/domain/demand"
)

// WIPLimits are the per-column caps shown on the board. They are informational
// and never block a move.
var WIPLimits = map[demand.Status]int{
	demand.StatusBacklog:  5,
	demand.StatusTodo:     5,
	demand.StatusProgress: 3,
	demand.StatusFrozen:   5,
	demand.StatusValidate: 5,
	demand.StatusDone:     5,
}

// ColumnStats describes one board column.
type ColumnStats struct {
	Status    demand.Status `json:"status"`
	Title     string        `json:"title"`
	Count     int           `json:"count"`
	WIPLimit  int           `json:"wip_limit"`
	OverLimit bool          `json:"over_limit"`
}

// Summary is the board-wide metric set.
type Summary struct {
	Total          int           `json:"total"`
	InProgress     int           `json:"in_progress"`
	Completed      int           `json:"completed"`
	CompletionRate int           `json:"completion_rate"`
	Columns        []ColumnStats `json:"columns"`
}

// Compute counts demands per column. CompletionRate is the rounded percentage
// of demands in done, 0 for an empty board.
func Compute(demands []demand.Demand) Summary {
	counts := make(map[demand.Status]int, len(demand.Statuses))
	for _, d := range demands {
		counts[d.Status]++
	}

	sum := Summary{Columns: make([]ColumnStats, 0, len(demand.Statuses))}
	for _, s := range demand.Statuses {
		n := counts[s]
		limit := WIPLimits[s]
		sum.Total += n
		sum.Columns = append(sum.Columns, ColumnStats{
			Status:    s,
			Title:     s.Title(),
			Count:     n,
			WIPLimit:  limit,
			OverLimit: limit > 0 && n > limit,
		})
	}
	sum.InProgress = counts[demand.StatusProgress]
	sum.Completed = counts[demand.StatusDone]
	if sum.Total > 0 {
		sum.CompletionRate = int(math.Round(float64(sum.Completed) / float64(sum.Total) * 100))
	}
	return sum
}
