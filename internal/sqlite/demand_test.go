package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/gepes/criagil/internal/domain/demand"
	"github.com/gepes/criagil/internal/domain/user"
)

func testDemand(id string, status demand.Status) demand.Demand {
	return demand.Demand{
		ID:          id,
		Title:       "Demand " + id,
		Description: "Description " + id,
		Type:        demand.TypeFeature,
		Priority:    demand.PriorityMedium,
		Stakeholder: "Equipe Gepes",
		ProjectID:   "1",
		Status:      status,
		CreatedAt:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func demandIDs(ds []demand.Demand) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.ID
	}
	return out
}

func TestDemandRepository_SaveAndLoad(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	require.NoError(t, NewUserRepository(db).Upsert(ctx, &user.User{ID: "1", Name: "Maria Santos", Email: "maria.santos@gepes.com"}))

	repo := NewDemandRepository(db)

	due := time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)
	hours := 8
	d1 := testDemand("1", demand.StatusBacklog)
	d1.Assignees = []user.User{{ID: "1"}, {ID: "ghost"}}
	d1.Tags = []string{"dashboard", "métricas"}
	d1.DueDate = &due
	d1.EstimatedHours = &hours
	d2 := testDemand("2", demand.StatusBacklog)
	d3 := testDemand("3", demand.StatusDone)

	require.NoError(t, repo.SaveColumns(ctx,
		demand.Column{Status: demand.StatusDone, Demands: []demand.Demand{d3}},
		demand.Column{Status: demand.StatusBacklog, Demands: []demand.Demand{d2, d1}},
	))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"2", "1", "3"}, demandIDs(loaded))

	got := loaded[1]
	require.Equal(t, "Maria Santos", got.Assignees[0].Name)
	require.Equal(t, "ghost", got.Assignees[1].ID)
	require.Equal(t, []string{"dashboard", "métricas"}, got.Tags)
	require.NotNil(t, got.DueDate)
	require.True(t, due.Equal(*got.DueDate))
	require.Equal(t, 8, *got.EstimatedHours)
	require.True(t, d1.CreatedAt.Equal(got.CreatedAt))

	require.Nil(t, loaded[0].DueDate)
	require.Nil(t, loaded[0].EstimatedHours)
	require.Nil(t, loaded[0].Tags)
	require.Empty(t, loaded[0].Assignees)
}

func TestDemandRepository_SaveColumnsMovesBetweenColumns(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewDemandRepository(db)

	d1 := testDemand("1", demand.StatusBacklog)
	d2 := testDemand("2", demand.StatusTodo)
	require.NoError(t, repo.SaveColumns(ctx,
		demand.Column{Status: demand.StatusBacklog, Demands: []demand.Demand{d1}},
		demand.Column{Status: demand.StatusTodo, Demands: []demand.Demand{d2}},
	))

	d1.Status = demand.StatusTodo
	require.NoError(t, repo.SaveColumns(ctx,
		demand.Column{Status: demand.StatusBacklog},
		demand.Column{Status: demand.StatusTodo, Demands: []demand.Demand{d2, d1}},
	))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"2", "1"}, demandIDs(loaded))
	require.Equal(t, demand.StatusTodo, loaded[1].Status)
}

func TestDemandRepository_SaveColumnsLeavesOtherColumns(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewDemandRepository(db)

	require.NoError(t, repo.SaveColumns(ctx,
		demand.Column{Status: demand.StatusFrozen, Demands: []demand.Demand{testDemand("1", demand.StatusFrozen)}},
	))
	require.NoError(t, repo.SaveColumns(ctx,
		demand.Column{Status: demand.StatusDone, Demands: []demand.Demand{testDemand("2", demand.StatusDone)}},
	))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2"}, demandIDs(loaded))
}

func TestDemandRepository_DuplicateAcrossColumnsRollsBack(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewDemandRepository(db)

	require.NoError(t, repo.SaveColumns(ctx,
		demand.Column{Status: demand.StatusBacklog, Demands: []demand.Demand{testDemand("1", demand.StatusBacklog)}},
	))

	err := repo.SaveColumns(ctx,
		demand.Column{Status: demand.StatusTodo, Demands: []demand.Demand{testDemand("1", demand.StatusTodo)}},
	)
	require.Error(t, err)

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, demand.StatusBacklog, loaded[0].Status)
}

func TestDemandRepository_SaveColumnsRollbackOnDeleteError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM demands").
		WithArgs("backlog").
		WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	repo := NewDemandRepository(&DB{DB: conn})
	err = repo.SaveColumns(context.Background(), demand.Column{Status: demand.StatusBacklog})
	require.ErrorContains(t, err, "failed to clear columns")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDemandRepository_SaveColumnsRollbackOnInsertError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM demands").
		WithArgs("todo").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO demands").
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	repo := NewDemandRepository(&DB{DB: conn})
	err = repo.SaveColumns(context.Background(), demand.Column{
		Status:  demand.StatusTodo,
		Demands: []demand.Demand{testDemand("1", demand.StatusTodo)},
	})
	require.ErrorContains(t, err, "failed to save demand 1")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDemandRepository_SaveNothing(t *testing.T) {
	require.NoError(t, NewDemandRepository(NewTestDB(t)).SaveColumns(context.Background()))
}

func demandColumn(ds ...demand.Demand) demand.Column {
	return demand.Column{Status: ds[0].Status, Demands: ds}
}
