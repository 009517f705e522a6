package project

import (
	"context"

	"github.com/gepes/criagil/internal/domain/activity"
)

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Update(ctx context.Context, proj *Project) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Project, error)
}

// ActivityRepository logs project activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
