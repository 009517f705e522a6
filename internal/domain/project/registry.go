package project

import (
	"time"

	"github.com/google/uuid"
)

// Registry holds projects in creation order. It is not safe for concurrent use.
type Registry struct {
	projects []Project
	newID    func() string
	now      func() time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// WithIDGenerator overrides project ID generation.
func WithIDGenerator(gen func() string) RegistryOption {
	return func(r *Registry) { r.newID = gen }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{newID: uuid.NewString, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Draft is the caller-supplied part of a new project.
type Draft struct {
	Name        string
	Description string
	Color       string
	IsActive    bool
}

// Create assigns an ID and creation time and appends the project.
func (r *Registry) Create(d Draft) Project {
	p := Project{
		ID:          r.newID(),
		Name:        d.Name,
		Description: d.Description,
		Color:       d.Color,
		CreatedAt:   r.now(),
		IsActive:    d.IsActive,
	}
	r.projects = append(r.projects, p)
	return p
}

// Update replaces the project with p.ID. ID and CreatedAt are kept from the stored record.
func (r *Registry) Update(p Project) (Project, error) {
	i := r.indexOf(p.ID)
	if i < 0 {
		return Project{}, ErrProjectNotFound
	}
	p.CreatedAt = r.projects[i].CreatedAt
	r.projects[i] = p
	return p, nil
}

// Delete removes a project. Demands referencing it are left untouched.
func (r *Registry) Delete(id string) (Project, error) {
	i := r.indexOf(id)
	if i < 0 {
		return Project{}, ErrProjectNotFound
	}
	removed := r.projects[i]
	r.projects = append(r.projects[:i], r.projects[i+1:]...)
	return removed, nil
}

// Get is a strict lookup.
func (r *Registry) Get(id string) (Project, error) {
	i := r.indexOf(id)
	if i < 0 {
		return Project{}, ErrProjectNotFound
	}
	return r.projects[i], nil
}

// Find never fails: unknown IDs resolve to the placeholder project.
func (r *Registry) Find(id string) Project {
	if p, err := r.Get(id); err == nil {
		return p
	}
	return Placeholder()
}

// List returns projects in creation order.
func (r *Registry) List() []Project {
	out := make([]Project, len(r.projects))
	copy(out, r.projects)
	return out
}

// Load replaces the registry contents with already-identified projects.
func (r *Registry) Load(projects []Project) error {
	seen := make(map[string]struct{}, len(projects))
	for _, p := range projects {
		if _, ok := seen[p.ID]; ok {
			return ErrDuplicateID
		}
		seen[p.ID] = struct{}{}
	}
	r.projects = make([]Project, len(projects))
	copy(r.projects, projects)
	return nil
}

// Snapshot captures the current contents for Restore.
func (r *Registry) Snapshot() []Project {
	return r.List()
}

// Restore resets the registry to a snapshot.
func (r *Registry) Restore(snap []Project) {
	r.projects = snap
}

func (r *Registry) indexOf(id string) int {
	for i := range r.projects {
		if r.projects[i].ID == id {
			return i
		}
	}
	return -1
}
