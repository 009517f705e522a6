package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/gepes/criagil/internal/domain/activity"
	"github.com/gepes/criagil/internal/repository"
)

// Service handles project operations.
type Service struct {
	mu         sync.Mutex
	registry   *Registry
	repo       Repository
	activities ActivityRepository
	logger     *slog.Logger
}

// NewService creates a new project service. repo and activities may be nil.
func NewService(registry *Registry, repo Repository, activities ActivityRepository, logger *slog.Logger) *Service {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{registry: registry, repo: repo, activities: activities, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name        string
	Description string
	Color       string
	IsActive    *bool
}

// UpdateRequest defines a partial project update. Nil fields are left unchanged.
type UpdateRequest struct {
	ID          string
	Name        *string
	Description *string
	Color       *string
	IsActive    *bool
}

// Load replaces the registry with persisted projects.
func (s *Service) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	projects, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading projects: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Load(projects)
}

// Seed installs fixture projects, keeping their IDs, and persists them.
func (s *Service) Seed(ctx context.Context, projects []Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.registry.Snapshot()
	if err := s.registry.Load(append(s.registry.List(), projects...)); err != nil {
		return err
	}
	if s.repo != nil {
		for i := range projects {
			if err := s.repo.Create(ctx, &projects[i]); err != nil {
				s.registry.Restore(snap)
				return fmt.Errorf("seeding project %s: %w", projects[i].ID, err)
			}
		}
	}
	s.logger.Info("projects seeded", "count", len(projects))
	return nil
}

// Create creates a new project.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Project, error) {
	draft := Draft{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Color:       strings.TrimSpace(req.Color),
		IsActive:    true,
	}
	if req.IsActive != nil {
		draft.IsActive = *req.IsActive
	}
	if draft.Color == "" {
		draft.Color = DefaultColor
	}
	if err := validate(draft.Name, draft.Color); err != nil {
		return Project{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.registry.Snapshot()
	proj := s.registry.Create(draft)
	if s.repo != nil {
		if err := s.repo.Create(ctx, &proj); err != nil {
			s.registry.Restore(snap)
			return Project{}, fmt.Errorf("creating project: %w", err)
		}
	}

	s.logger.Info("project created", "id", proj.ID, "name", proj.Name)
	s.logActivity(ctx, proj.ID, activity.TypeProjectCreated, fmt.Sprintf("created project %s", proj.Name), nil)
	return proj, nil
}

// Update applies a partial update to an existing project.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.registry.Get(req.ID)
	if err != nil {
		return Project{}, err
	}

	updated := current
	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Color != nil {
		updated.Color = strings.TrimSpace(*req.Color)
	}
	if req.IsActive != nil {
		updated.IsActive = *req.IsActive
	}
	if err := validate(updated.Name, updated.Color); err != nil {
		return Project{}, err
	}

	snap := s.registry.Snapshot()
	updated, err = s.registry.Update(updated)
	if err != nil {
		return Project{}, err
	}
	if s.repo != nil {
		if err := s.repo.Update(ctx, &updated); err != nil {
			s.registry.Restore(snap)
			if errors.Is(err, repository.ErrNotFound) {
				return Project{}, ErrProjectNotFound
			}
			return Project{}, fmt.Errorf("updating project: %w", err)
		}
	}

	s.logger.Info("project updated", "id", updated.ID)
	s.logActivity(ctx, updated.ID, activity.TypeProjectUpdated, fmt.Sprintf("updated project %s", updated.Name), map[string]any{
		"is_active": updated.IsActive,
	})
	return updated, nil
}

// Delete removes a project. Demands keep their project reference and render with the placeholder.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.registry.Snapshot()
	removed, err := s.registry.Delete(id)
	if err != nil {
		return err
	}
	if s.repo != nil {
		if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.registry.Restore(snap)
			return fmt.Errorf("deleting project: %w", err)
		}
	}

	s.logger.Info("project deleted", "id", id)
	s.logActivity(ctx, id, activity.TypeProjectDeleted, fmt.Sprintf("deleted project %s", removed.Name), nil)
	return nil
}

// Get fetches a project by ID.
func (s *Service) Get(_ context.Context, id string) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Get(id)
}

// Find resolves a project reference, falling back to the placeholder.
func (s *Service) Find(_ context.Context, id string) Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Find(id)
}

// List returns all projects in creation order.
func (s *Service) List(_ context.Context) ([]Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.List(), nil
}

func (s *Service) logActivity(ctx context.Context, projectID string, typ activity.ActivityType, summary string, details map[string]any) {
	if s.activities == nil {
		return
	}
	err := s.activities.Log(ctx, &activity.ActivityEntry{
		ProjectID:    projectID,
		ActivityType: typ,
		Summary:      summary,
		Details:      activity.Details(details),
	})
	if err != nil {
		s.logger.Warn("activity log failed", "type", typ, "error", err)
	}
}
