package demand_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gepes/criagil/internal/domain/activity"
	"github.com/gepes/criagil/internal/domain/demand"
	"github.com/gepes/criagil/internal/domain/project"
	"github.com/gepes/criagil/internal/domain/user"
	"github.com/gepes/criagil/internal/repository/mocks"
)

type fixture struct {
	svc      *demand.Service
	repo     *mocks.DemandRepository
	acts     *mocks.ActivityRepository
	projects *project.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	projects := project.NewService(nil, nil, nil, nil)
	require.NoError(t, projects.Seed(ctx, []project.Project{
		{ID: "1", Name: "Sistema de Vendas", Color: "#3B82F6", IsActive: true},
		{ID: "2", Name: "Portal do Cliente", Color: "#10B981", IsActive: true},
	}))
	users := user.NewService(nil, nil)
	require.NoError(t, users.Seed(ctx, []user.User{
		{ID: "1", Name: "João Silva", Email: "joao@empresa.com"},
		{ID: "2", Name: "Maria Santos", Email: "maria@empresa.com"},
	}))

	repo := &mocks.DemandRepository{}
	acts := &mocks.ActivityRepository{}
	acts.On("Log", mock.Anything, mock.Anything).Return(nil).Maybe()

	return fixture{
		svc:      demand.NewService(newTestBoard(), repo, projects, users, acts, nil),
		repo:     repo,
		acts:     acts,
		projects: projects,
	}
}

func createReq(title string) demand.CreateRequest {
	return demand.CreateRequest{
		Title:       title,
		Description: "Corrigir " + title,
		Type:        demand.TypeBug,
		Priority:    demand.PriorityHigh,
		Stakeholder: "Ana Costa",
		AssigneeIDs: []string{"1", "2", "1"},
		ProjectID:   "1",
		Tags:        []string{"api", " api ", ""},
	}
}

func TestDemandService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.repo.On("SaveColumns", ctx, mock.MatchedBy(func(cols []demand.Column) bool {
		return len(cols) == 1 && cols[0].Status == demand.StatusBacklog && len(cols[0].Demands) == 1
	})).Return(nil).Once()

	dem, err := f.svc.Create(ctx, createReq("login"))
	require.NoError(t, err)
	assert.Equal(t, demand.StatusBacklog, dem.Status)
	assert.Equal(t, []string{"1", "2"}, dem.AssigneeIDs())
	assert.Equal(t, "João Silva", dem.Assignees[0].Name)
	assert.Equal(t, []string{"api"}, dem.Tags)

	f.repo.AssertExpectations(t)
	f.acts.AssertCalled(t, "Log", ctx, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeDemandCreated && e.DemandID != nil && *e.DemandID == dem.ID
	}))
}

func TestDemandService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(*demand.CreateRequest)
		want   error
	}{
		{"missing title", func(r *demand.CreateRequest) { r.Title = " " }, demand.ErrInvalidInput},
		{"missing stakeholder", func(r *demand.CreateRequest) { r.Stakeholder = "" }, demand.ErrInvalidInput},
		{"unknown type", func(r *demand.CreateRequest) { r.Type = "epic" }, demand.ErrInvalidInput},
		{"unknown priority", func(r *demand.CreateRequest) { r.Priority = "urgent" }, demand.ErrInvalidInput},
		{"bad hours", func(r *demand.CreateRequest) { h := 0; r.EstimatedHours = &h }, demand.ErrInvalidInput},
		{"bad status", func(r *demand.CreateRequest) { r.Status = "archived" }, demand.ErrInvalidStatus},
		{"unknown project", func(r *demand.CreateRequest) { r.ProjectID = "99" }, project.ErrProjectNotFound},
		{"unknown assignee", func(r *demand.CreateRequest) { r.AssigneeIDs = []string{"42"} }, user.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := createReq("x")
			tt.mutate(&req)
			_, err := f.svc.Create(ctx, req)
			require.ErrorIs(t, err, tt.want)
		})
	}

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDemandService_CreateRollsBackOnPersistError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.repo.On("SaveColumns", ctx, mock.Anything).Return(errors.New("disk full"))

	_, err := f.svc.Create(ctx, createReq("login"))
	require.Error(t, err)

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDemandService_MovePersistsBothColumns(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.repo.On("SaveColumns", ctx, mock.Anything).Return(nil).Once()

	dem, err := f.svc.Create(ctx, createReq("login"))
	require.NoError(t, err)
	f.repo.On("SaveColumns", ctx, mock.MatchedBy(func(cols []demand.Column) bool {
		return len(cols) == 2 && cols[0].Status == demand.StatusBacklog && cols[1].Status == demand.StatusProgress
	})).Return(nil).Once()

	res, err := f.svc.Move(ctx, dem.ID, demand.StatusProgress)
	require.NoError(t, err)
	assert.True(t, res.Moved)

	got, err := f.svc.Get(ctx, dem.ID)
	require.NoError(t, err)
	assert.Equal(t, demand.StatusProgress, got.Status)
	f.repo.AssertExpectations(t)
}

func TestDemandService_SelfMoveSkipsPersistence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.repo.On("SaveColumns", ctx, mock.Anything).Return(nil).Once()

	dem, err := f.svc.Create(ctx, createReq("login"))
	require.NoError(t, err)

	res, err := f.svc.Move(ctx, dem.ID, demand.StatusBacklog)
	require.NoError(t, err)
	assert.False(t, res.Moved)
	f.repo.AssertNumberOfCalls(t, "SaveColumns", 1)
}

func TestDemandService_MoveRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.repo.On("SaveColumns", ctx, mock.Anything).Return(nil).Once()
	dem, err := f.svc.Create(ctx, createReq("login"))
	require.NoError(t, err)

	f.repo.On("SaveColumns", ctx, mock.Anything).Return(errors.New("locked")).Once()
	_, err = f.svc.Move(ctx, dem.ID, demand.StatusDone)
	require.Error(t, err)

	got, err := f.svc.Get(ctx, dem.ID)
	require.NoError(t, err)
	assert.Equal(t, demand.StatusBacklog, got.Status)
}

func TestDemandService_MoveUnknown(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Move(context.Background(), "missing", demand.StatusDone)
	require.ErrorIs(t, err, demand.ErrDemandNotFound)
}

func TestDemandService_UpdatePartial(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.repo.On("SaveColumns", ctx, mock.Anything).Return(nil)

	dem, err := f.svc.Create(ctx, createReq("login"))
	require.NoError(t, err)

	title := "login SSO"
	hours := 8
	updated, err := f.svc.Update(ctx, demand.UpdateRequest{
		ID:             dem.ID,
		Title:          &title,
		EstimatedHours: &hours,
		AssigneeIDs:    []string{},
	})
	require.NoError(t, err)
	assert.Equal(t, "login SSO", updated.Title)
	assert.Equal(t, dem.Description, updated.Description)
	assert.Equal(t, 8, *updated.EstimatedHours)
	assert.Empty(t, updated.Assignees)
	assert.Equal(t, dem.CreatedAt, updated.CreatedAt)
	assert.Equal(t, dem.Tags, updated.Tags)

	_, err = f.svc.Update(ctx, demand.UpdateRequest{ID: "missing", Title: &title})
	require.ErrorIs(t, err, demand.ErrDemandNotFound)
}

func TestDemandService_UpdateStatusDoublesAsMove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.repo.On("SaveColumns", ctx, mock.Anything).Return(nil)

	dem, err := f.svc.Create(ctx, createReq("login"))
	require.NoError(t, err)

	status := demand.StatusValidate
	_, err = f.svc.Update(ctx, demand.UpdateRequest{ID: dem.ID, Status: &status})
	require.NoError(t, err)

	cols, err := f.svc.Columns(ctx)
	require.NoError(t, err)
	assert.Empty(t, cols[0].Demands)
	assert.Equal(t, []string{dem.ID}, ids(cols[4].Demands))
}

func TestDemandService_DanglingProjectStaysEditable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.repo.On("SaveColumns", ctx, mock.Anything).Return(nil)

	dem, err := f.svc.Create(ctx, createReq("login"))
	require.NoError(t, err)
	require.NoError(t, f.projects.Delete(ctx, "1"))

	got, err := f.svc.Get(ctx, dem.ID)
	require.NoError(t, err)
	assert.Equal(t, "1", got.ProjectID)
	assert.True(t, f.projects.Find(ctx, got.ProjectID).IsPlaceholder())

	title := "still editable"
	_, err = f.svc.Update(ctx, demand.UpdateRequest{ID: dem.ID, Title: &title})
	require.NoError(t, err)

	same := "1"
	other := "99"
	_, err = f.svc.Update(ctx, demand.UpdateRequest{ID: dem.ID, ProjectID: &other})
	require.ErrorIs(t, err, project.ErrProjectNotFound)
	_, err = f.svc.Update(ctx, demand.UpdateRequest{ID: dem.ID, ProjectID: &same})
	require.NoError(t, err)
}

func TestDemandService_LoadAndSeed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.repo.On("LoadAll", ctx).Return([]demand.Demand{
		{ID: "1", Title: "stored", Status: demand.StatusTodo},
	}, nil)
	f.repo.On("SaveColumns", ctx, mock.MatchedBy(func(cols []demand.Column) bool {
		return len(cols) == len(demand.Statuses)
	})).Return(nil).Once()

	require.NoError(t, f.svc.Load(ctx))
	require.NoError(t, f.svc.Seed(ctx, []demand.Demand{
		{ID: "2", Title: "seeded", Status: demand.StatusDone},
	}))

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(all))
	f.repo.AssertExpectations(t)
}

// movingResolver moves the demand being edited while its assignees resolve.
type movingResolver struct {
	demand.UserResolver
	svc    *demand.Service
	id     string
	to     demand.Status
}

func (r *movingResolver) Resolve(ctx context.Context, ids []string) ([]user.User, error) {
	if r.svc != nil {
		if _, err := r.svc.Move(ctx, r.id, r.to); err != nil {
			return nil, err
		}
		r.svc = nil
	}
	return r.UserResolver.Resolve(ctx, ids)
}

func TestDemandService_UpdateKeepsConcurrentMove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.repo.On("SaveColumns", ctx, mock.Anything).Return(nil)

	users := user.NewService(nil, nil)
	require.NoError(t, users.Seed(ctx, []user.User{{ID: "1", Name: "João Silva"}}))
	resolver := &movingResolver{UserResolver: users}
	svc := demand.NewService(newTestBoard(), f.repo, f.projects, resolver, nil, nil)

	req := createReq("login")
	req.AssigneeIDs = nil
	dem, err := svc.Create(ctx, req)
	require.NoError(t, err)

	resolver.svc, resolver.id, resolver.to = svc, dem.ID, demand.StatusDone
	title := "login SSO"
	updated, err := svc.Update(ctx, demand.UpdateRequest{ID: dem.ID, Title: &title, AssigneeIDs: []string{"1"}})
	require.NoError(t, err)

	assert.Equal(t, demand.StatusDone, updated.Status)
	assert.Equal(t, "login SSO", updated.Title)
	assert.Equal(t, []string{"1"}, updated.AssigneeIDs())

	cols, err := svc.Columns(ctx)
	require.NoError(t, err)
	assert.Empty(t, cols[0].Demands)
	assert.Equal(t, []string{dem.ID}, ids(cols[5].Demands))

	last := f.repo.Calls[len(f.repo.Calls)-1].Arguments.Get(1).([]demand.Column)
	require.Len(t, last, 1)
	assert.Equal(t, demand.StatusDone, last[0].Status)
	assert.Equal(t, "login SSO", last[0].Demands[0].Title)
}

func TestDemandService_ConcurrentCreateAndMoveKeepsCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.repo.On("SaveColumns", ctx, mock.Anything).Return(nil)

	const workers = 8
	const perWorker = 10

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				dem, err := f.svc.Create(ctx, createReq(fmt.Sprintf("w%d-%d", w, i)))
				if !assert.NoError(t, err) {
					return
				}
				for _, to := range []demand.Status{demand.StatusProgress, demand.Statuses[(w+i)%len(demand.Statuses)]} {
					_, err := f.svc.Move(ctx, dem.ID, to)
					assert.NoError(t, err)
				}
				title := dem.Title + " (edit)"
				_, err = f.svc.Update(ctx, demand.UpdateRequest{ID: dem.ID, Title: &title})
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	cols, err := f.svc.Columns(ctx)
	require.NoError(t, err)
	seen := map[string]int{}
	total := 0
	for _, c := range cols {
		total += len(c.Demands)
		for _, d := range c.Demands {
			seen[d.ID]++
			assert.Equal(t, c.Status, d.Status)
		}
	}
	assert.Equal(t, workers*perWorker, total)
	assert.Len(t, seen, workers*perWorker)
	for id, n := range seen {
		assert.Equal(t, 1, n, "demand %s in %d partitions", id, n)
	}
}
