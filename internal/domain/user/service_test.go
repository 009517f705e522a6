package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gepes/criagil/internal/domain/user"
	"github.com/gepes/criagil/internal/repository/mocks"
)

func TestDirectory_Resolve(t *testing.T) {
	dir := user.NewDirectory([]user.User{
		{ID: "1", Name: "João Silva"},
		{ID: "2", Name: "Maria Santos"},
	})

	got, err := dir.Resolve([]string{"2", "1", "2"})
	require.NoError(t, err)
	require.Equal(t, []string{"2", "1"}, []string{got[0].ID, got[1].ID})

	_, err = dir.Resolve([]string{"9"})
	require.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestDirectory_LaterEntriesReplace(t *testing.T) {
	dir := user.NewDirectory([]user.User{{ID: "1", Name: "old"}, {ID: "1", Name: "new"}})
	require.Equal(t, 1, dir.Len())
	u, ok := dir.Find("1")
	require.True(t, ok)
	require.Equal(t, "new", u.Name)
}

func TestUserService_SeedAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.UserRepository{}
	repo.On("Upsert", ctx, mock.Anything).Return(nil)
	repo.On("List", ctx).Return([]user.User{{ID: "1", Name: "João Silva"}}, nil)

	svc := user.NewService(repo, nil)
	require.NoError(t, svc.Seed(ctx, []user.User{{ID: "1", Name: "João Silva"}, {ID: "2", Name: "Maria Santos"}}))
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, svc.Load(ctx))
	_, err = svc.Get(ctx, "2")
	require.ErrorIs(t, err, user.ErrUserNotFound)
	repo.AssertNumberOfCalls(t, "Upsert", 2)
}

func TestUserService_SeedValidation(t *testing.T) {
	svc := user.NewService(nil, nil)
	require.ErrorIs(t, svc.Seed(context.Background(), []user.User{{ID: "", Name: "x"}}), user.ErrInvalidInput)
}

func TestUserService_LoadError(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.UserRepository{}
	repo.On("List", ctx).Return(nil, errors.New("boom"))
	require.Error(t, user.NewService(repo, nil).Load(ctx))
}
