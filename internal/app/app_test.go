package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gepes/criagil/internal/domain/activity"
	"github.com/gepes/criagil/internal/domain/demand"
	"github.com/gepes/criagil/internal/fixture"
	"github.com/gepes/criagil/internal/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SeedsEmptyMemoryBoard(t *testing.T) {
	ctx := context.Background()
	a, err := Open(ctx, Options{DBPath: sqlite.MemoryDSN, Seed: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	fx, err := fixture.Default()
	require.NoError(t, err)

	demands, err := a.Demands.List(ctx)
	require.NoError(t, err)
	assert.Len(t, demands, len(fx.Demands))

	projects, err := a.Projects.List(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, len(fx.Projects))

	seeded := activity.TypeBoardSeeded
	entries, err := a.Activity.GetRecentActivity(ctx, activity.ListActivityOptions{ActivityType: &seeded})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestOpen_WithoutSeed(t *testing.T) {
	ctx := context.Background()
	a, err := Open(ctx, Options{DBPath: sqlite.MemoryDSN})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	demands, err := a.Demands.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, demands)
}

func TestOpen_ReloadsPersistedBoardWithoutReseeding(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "board.db")

	first, err := Open(ctx, Options{DBPath: path, Seed: true})
	require.NoError(t, err)
	all, err := first.Demands.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, all)
	target := all[0]
	_, err = first.Demands.Move(ctx, target.ID, demand.StatusFrozen)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(ctx, Options{DBPath: path, Seed: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	reloaded, err := second.Demands.List(ctx)
	require.NoError(t, err)
	assert.Len(t, reloaded, len(all))

	got, err := second.Demands.Get(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, demand.StatusFrozen, got.Status)
	assert.Equal(t, target.AssigneeIDs(), got.AssigneeIDs())
}

func TestOpen_BadSeedPath(t *testing.T) {
	_, err := Open(context.Background(), Options{DBPath: sqlite.MemoryDSN, Seed: true, SeedPath: "/nonexistent/seed.yaml"})
	require.ErrorContains(t, err, "load seed fixture")
}
