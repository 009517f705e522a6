package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gepes/criagil/internal/domain/demand"
	"github.com/gepes/criagil/internal/domain/user"
)

// DemandRepository implements demand.Repository for SQLite. Each board column
// is stored as rows sharing a status, ordered by position.
type DemandRepository struct {
	db *DB
}

// NewDemandRepository creates a new DemandRepository
func NewDemandRepository(db *DB) *DemandRepository {
	return &DemandRepository{db: db}
}

// LoadAll returns every demand in board order. Assignees are resolved against
// the users table; IDs with no matching row keep only their ID.
func (r *DemandRepository) LoadAll(ctx context.Context) ([]demand.Demand, error) {
	users, err := r.userIndex(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT
			id, title, description, type, priority, stakeholder, assignees,
			project_id, status, created_at, due_date, estimated_hours, tags
		FROM demands
		ORDER BY CASE status
			WHEN 'backlog' THEN 0
			WHEN 'todo' THEN 1
			WHEN 'progress' THEN 2
			WHEN 'frozen' THEN 3
			WHEN 'validate' THEN 4
			WHEN 'done' THEN 5
		END, position
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load demands: %w", err)
	}
	defer rows.Close()

	var demands []demand.Demand
	for rows.Next() {
		var (
			d         demand.Demand
			assignees string
			tags      string
			dueDate   sql.NullTime
			hours     sql.NullInt64
		)
		if err := rows.Scan(
			&d.ID,
			&d.Title,
			&d.Description,
			&d.Type,
			&d.Priority,
			&d.Stakeholder,
			&assignees,
			&d.ProjectID,
			&d.Status,
			&d.CreatedAt,
			&dueDate,
			&hours,
			&tags,
		); err != nil {
			return nil, fmt.Errorf("failed to scan demand: %w", err)
		}

		ids, err := decodeList(assignees)
		if err != nil {
			return nil, fmt.Errorf("demand %s assignees: %w", d.ID, err)
		}
		d.Assignees = make([]user.User, 0, len(ids))
		for _, id := range ids {
			u, ok := users[id]
			if !ok {
				u = user.User{ID: id}
			}
			d.Assignees = append(d.Assignees, u)
		}
		if d.Tags, err = decodeList(tags); err != nil {
			return nil, fmt.Errorf("demand %s tags: %w", d.ID, err)
		}
		if len(d.Tags) == 0 {
			d.Tags = nil
		}
		if dueDate.Valid {
			due := dueDate.Time
			d.DueDate = &due
		}
		if hours.Valid {
			h := int(hours.Int64)
			d.EstimatedHours = &h
		}
		demands = append(demands, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating demand rows: %w", err)
	}

	return demands, nil
}

// SaveColumns replaces the listed columns in one transaction. Rows of every
// listed status are deleted first, so a demand moving between two listed
// columns never collides with its old row.
func (r *DemandRepository) SaveColumns(ctx context.Context, cols ...demand.Column) error {
	if len(cols) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	statuses := make([]any, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		statuses[i] = string(c.Status)
		marks[i] = "?"
	}
	del := fmt.Sprintf("DELETE FROM demands WHERE status IN (%s)", strings.Join(marks, ", "))
	if _, err := tx.ExecContext(ctx, del, statuses...); err != nil {
		return fmt.Errorf("failed to clear columns: %w", err)
	}

	insert := `
		INSERT INTO demands (
			id, title, description, type, priority, stakeholder, assignees,
			project_id, status, position, created_at, due_date, estimated_hours, tags
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, c := range cols {
		for pos, d := range c.Demands {
			assignees, err := encodeList(d.AssigneeIDs())
			if err != nil {
				return err
			}
			tags, err := encodeList(d.Tags)
			if err != nil {
				return err
			}
			var due any
			if d.DueDate != nil {
				due = *d.DueDate
			}
			var hours any
			if d.EstimatedHours != nil {
				hours = *d.EstimatedHours
			}
			if _, err := tx.ExecContext(ctx, insert,
				d.ID,
				d.Title,
				d.Description,
				d.Type,
				d.Priority,
				d.Stakeholder,
				assignees,
				d.ProjectID,
				c.Status,
				pos,
				d.CreatedAt,
				due,
				hours,
				tags,
			); err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("demand %s stored in another column: %w", d.ID, err)
				}
				return fmt.Errorf("failed to save demand %s: %w", d.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit columns: %w", err)
	}
	return nil
}

func (r *DemandRepository) userIndex(ctx context.Context) (map[string]user.User, error) {
	list, err := NewUserRepository(r.db).List(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]user.User, len(list))
	for _, u := range list {
		idx[u.ID] = u
	}
	return idx, nil
}
