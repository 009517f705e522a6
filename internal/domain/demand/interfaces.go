package demand

import (
	"context"

	"github.com/gepes/criagil/internal/domain/activity"
	"github.com/gepes/criagil/internal/domain/project"
	"github.com/gepes/criagil/internal/domain/user"
)

// Repository persists board partitions.
type Repository interface {
	LoadAll(ctx context.Context) ([]Demand, error)
	SaveColumns(ctx context.Context, cols ...Column) error
}

// ProjectLookup checks project references at intake and edit.
type ProjectLookup interface {
	Get(ctx context.Context, id string) (project.Project, error)
}

// UserResolver turns assignee IDs into users.
type UserResolver interface {
	Resolve(ctx context.Context, ids []string) ([]user.User, error)
}

// ActivityRepository logs demand activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
