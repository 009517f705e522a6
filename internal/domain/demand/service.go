package demand

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gepes/criagil/internal/domain/activity"
	"github.com/gepes/criagil/internal/domain/project"
	"github.com/gepes/criagil/internal/domain/user"
)

// Service handles demand business logic on top of a Board.
type Service struct {
	mu         sync.Mutex
	board      *Board
	repo       Repository
	projects   ProjectLookup
	users      UserResolver
	activities ActivityRepository
	logger     *slog.Logger
}

// NewService creates a new demand service. repo, projects, users and
// activities may be nil; the corresponding checks and side effects are skipped.
func NewService(
	board *Board,
	repo Repository,
	projects ProjectLookup,
	users UserResolver,
	activities ActivityRepository,
	logger *slog.Logger,
) *Service {
	if board == nil {
		board = NewBoard()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		board:      board,
		repo:       repo,
		projects:   projects,
		users:      users,
		activities: activities,
		logger:     logger,
	}
}

// CreateRequest describes a demand submitted through intake.
type CreateRequest struct {
	Title          string
	Description    string
	Type           Type
	Priority       Priority
	Stakeholder    string
	AssigneeIDs    []string
	ProjectID      string
	Status         Status
	DueDate        *time.Time
	EstimatedHours *int
	Tags           []string
}

// UpdateRequest describes an edit. Nil fields are left unchanged; a nil
// AssigneeIDs or Tags slice keeps the current value while an empty one clears it.
type UpdateRequest struct {
	ID             string
	Title          *string
	Description    *string
	Type           *Type
	Priority       *Priority
	Stakeholder    *string
	AssigneeIDs    []string
	ProjectID      *string
	Status         *Status
	DueDate        *time.Time
	ClearDueDate   bool
	EstimatedHours *int
	Tags           []string
}

// Load replaces the board contents with the persisted partitions.
func (s *Service) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	demands, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading demands: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Load(demands)
}

// Seed appends fixture demands, keeping their IDs, and persists every partition.
func (s *Service) Seed(ctx context.Context, demands []Demand) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.board.Snapshot()
	if err := s.board.Load(append(s.board.All(), demands...)); err != nil {
		return err
	}
	if err := s.persist(ctx, snap, Statuses...); err != nil {
		return fmt.Errorf("seeding demands: %w", err)
	}

	s.logger.Info("demands seeded", "count", len(demands))
	s.logActivity(ctx, "", nil, activity.TypeBoardSeeded, fmt.Sprintf("seeded %d demands", len(demands)), nil)
	return nil
}

// Create validates and adds a new demand to the board.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Demand, error) {
	if err := ValidateCreateInput(req); err != nil {
		return Demand{}, err
	}
	if err := s.ensureProject(ctx, req.ProjectID); err != nil {
		return Demand{}, err
	}
	assignees, err := s.resolveAssignees(ctx, req.AssigneeIDs)
	if err != nil {
		return Demand{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.board.Snapshot()
	dem, err := s.board.Create(Draft{
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Type:           req.Type,
		Priority:       req.Priority,
		Stakeholder:    strings.TrimSpace(req.Stakeholder),
		Assignees:      assignees,
		ProjectID:      req.ProjectID,
		Status:         req.Status,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		Tags:           NormalizeTags(req.Tags),
	})
	if err != nil {
		return Demand{}, err
	}
	if err := s.persist(ctx, snap, dem.Status); err != nil {
		return Demand{}, fmt.Errorf("creating demand: %w", err)
	}

	s.logger.Info("demand created", "id", dem.ID, "status", dem.Status, "project_id", dem.ProjectID)
	s.logActivity(ctx, dem.ProjectID, &dem.ID, activity.TypeDemandCreated, fmt.Sprintf("created demand %s", dem.Title), map[string]any{
		"status": dem.Status,
	})
	return dem, nil
}

// Update applies an edit to a stored demand. A changed Status doubles as a move.
// Assignees and the target project are resolved first; the patch is then applied
// to the record read under the lock, so concurrent moves are never reverted.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (Demand, error) {
	var assignees []user.User
	if req.AssigneeIDs != nil {
		var err error
		if assignees, err = s.resolveAssignees(ctx, req.AssigneeIDs); err != nil {
			return Demand{}, err
		}
	}
	// Only enforced if the project actually changes: demands whose project was
	// deleted stay editable while the reference is kept.
	var projectErr error
	if req.ProjectID != nil {
		projectErr = s.ensureProject(ctx, *req.ProjectID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before, err := s.board.Get(req.ID)
	if err != nil {
		return Demand{}, err
	}
	updated := req.apply(before, assignees)
	if err := ValidateDemand(updated); err != nil {
		return Demand{}, err
	}
	if updated.ProjectID != before.ProjectID && projectErr != nil {
		return Demand{}, projectErr
	}

	snap := s.board.Snapshot()
	updated, err = s.board.Update(updated)
	if err != nil {
		return Demand{}, err
	}
	if err := s.persist(ctx, snap, before.Status, updated.Status); err != nil {
		return Demand{}, fmt.Errorf("updating demand: %w", err)
	}

	s.logger.Info("demand updated", "id", updated.ID, "from", before.Status, "to", updated.Status)
	s.logActivity(ctx, updated.ProjectID, &updated.ID, activity.TypeDemandUpdated, fmt.Sprintf("updated demand %s", updated.Title), map[string]any{
		"from_status": before.Status,
		"to_status":   updated.Status,
	})
	return updated, nil
}

// apply returns d with the request's fields patched in. assignees replaces the
// list when AssigneeIDs is non-nil.
func (req UpdateRequest) apply(d Demand, assignees []user.User) Demand {
	if req.Title != nil {
		d.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.Type != nil {
		d.Type = *req.Type
	}
	if req.Priority != nil {
		d.Priority = *req.Priority
	}
	if req.Stakeholder != nil {
		d.Stakeholder = strings.TrimSpace(*req.Stakeholder)
	}
	if req.ProjectID != nil {
		d.ProjectID = *req.ProjectID
	}
	if req.Status != nil {
		d.Status = *req.Status
	}
	if req.ClearDueDate {
		d.DueDate = nil
	} else if req.DueDate != nil {
		d.DueDate = req.DueDate
	}
	if req.EstimatedHours != nil {
		if *req.EstimatedHours == 0 {
			d.EstimatedHours = nil
		} else {
			d.EstimatedHours = req.EstimatedHours
		}
	}
	if req.Tags != nil {
		d.Tags = NormalizeTags(req.Tags)
	}
	if req.AssigneeIDs != nil {
		d.Assignees = assignees
	}
	return d
}

// Move transitions a demand to another column. Any column may move to any other.
func (s *Service) Move(ctx context.Context, id string, to Status) (MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.board.Snapshot()
	res, err := s.board.MoveTo(id, to)
	if err != nil {
		return MoveResult{}, err
	}
	if !res.Moved {
		s.logger.Debug("demand dropped on its own column", "id", id, "status", to)
		return res, nil
	}
	if err := s.persist(ctx, snap, res.From, res.To); err != nil {
		return MoveResult{}, fmt.Errorf("moving demand: %w", err)
	}

	s.logger.Info("demand moved", "id", id, "from", res.From, "to", res.To)
	s.logActivity(ctx, res.Demand.ProjectID, &res.Demand.ID, activity.TypeDemandMoved, fmt.Sprintf("moved demand %s to %s", res.Demand.Title, res.To.Title()), map[string]any{
		"from_status": res.From,
		"to_status":   res.To,
	})
	return res, nil
}

// Get returns a demand by ID.
func (s *Service) Get(_ context.Context, id string) (Demand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Get(id)
}

// List returns every demand in board order.
func (s *Service) List(_ context.Context) ([]Demand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.All(), nil
}

// Columns returns the board partitions in order.
func (s *Service) Columns(_ context.Context) ([]Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Columns(), nil
}

// persist writes the named partitions, restoring snap if the write fails.
// Callers must hold s.mu.
func (s *Service) persist(ctx context.Context, snap Snapshot, statuses ...Status) error {
	if s.repo == nil {
		return nil
	}
	var cols []Column
	seen := make(map[Status]struct{}, len(statuses))
	for _, st := range statuses {
		if _, dup := seen[st]; dup {
			continue
		}
		seen[st] = struct{}{}
		cols = append(cols, Column{Status: st, Title: st.Title(), Demands: s.board.Column(st)})
	}
	if err := s.repo.SaveColumns(ctx, cols...); err != nil {
		s.board.Restore(snap)
		return err
	}
	return nil
}

func (s *Service) ensureProject(ctx context.Context, projectID string) error {
	if s.projects == nil {
		return nil
	}
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			return fmt.Errorf("%w: %s", project.ErrProjectNotFound, projectID)
		}
		return fmt.Errorf("checking project: %w", err)
	}
	return nil
}

func (s *Service) resolveAssignees(ctx context.Context, ids []string) ([]user.User, error) {
	if len(ids) == 0 {
		return []user.User{}, nil
	}
	if s.users == nil {
		out := make([]user.User, 0, len(ids))
		for _, id := range ids {
			out = append(out, user.User{ID: id})
		}
		return out, nil
	}
	users, err := s.users.Resolve(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolving assignees: %w", err)
	}
	return users, nil
}

func (s *Service) logActivity(ctx context.Context, projectID string, demandID *string, typ activity.ActivityType, summary string, details map[string]any) {
	if s.activities == nil {
		return
	}
	err := s.activities.Log(ctx, &activity.ActivityEntry{
		ProjectID:    projectID,
		DemandID:     demandID,
		ActivityType: typ,
		Summary:      summary,
		Details:      activity.Details(details),
	})
	if err != nil {
		s.logger.Warn("activity log failed", "type", typ, "error", err)
	}
}
