package activity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gepes/criagil/internal/domain/activity"
	"github.com/gepes/criagil/internal/repository/mocks"
)

func TestActivityService_LogAndList(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	entry := &activity.ActivityEntry{
		ProjectID:    "proj1",
		ActivityType: activity.TypeDemandCreated,
		Summary:      "created",
	}

	repo.On("Log", ctx, entry).Return(nil)
	repo.On("List", ctx, activity.ListActivityOptions{ProjectID: "proj1", Limit: activity.DefaultLimit}).
		Return([]activity.ActivityEntry{*entry}, nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.Log(ctx, entry))
	require.False(t, entry.CreatedAt.IsZero())

	entries, err := svc.GetRecentActivity(ctx, activity.ListActivityOptions{ProjectID: "proj1"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	repo.AssertExpectations(t)
}

func TestActivityService_LogKeepsTimestamp(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, mock.Anything).Return(nil)

	entry := &activity.ActivityEntry{ActivityType: activity.TypeBoardSeeded, CreatedAt: at}
	require.NoError(t, activity.NewService(repo, nil).Log(ctx, entry))
	require.Equal(t, at, entry.CreatedAt)
}

func TestActivityService_LogValidation(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	require.ErrorIs(t, svc.Log(context.Background(), nil), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.Log(context.Background(), &activity.ActivityEntry{}), activity.ErrInvalidInput)
}

func TestActivityService_ListError(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("List", ctx, mock.Anything).Return(nil, errors.New("boom"))

	_, err := activity.NewService(repo, nil).GetRecentActivity(ctx, activity.ListActivityOptions{Limit: 5})
	require.Error(t, err)
}

func TestDetails(t *testing.T) {
	require.Empty(t, activity.Details(nil))
	require.JSONEq(t, `{"to_status":"done"}`, activity.Details(map[string]any{"to_status": "done"}))
}
