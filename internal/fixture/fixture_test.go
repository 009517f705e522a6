package fixture_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gepes/criagil/internal/domain/demand"
	"github.com/gepes/criagil/internal/domain/metrics"
	"github.com/gepes/criagil/internal/fixture"
)

func TestDefault(t *testing.T) {
	fx, err := fixture.Default()
	require.NoError(t, err)

	assert.Len(t, fx.Users, 5)
	assert.Len(t, fx.Projects, 4)
	require.Len(t, fx.Demands, 6)

	first := fx.Demands[0]
	assert.Equal(t, demand.StatusBacklog, first.Status)
	assert.Equal(t, demand.PriorityHigh, first.Priority)
	assert.Equal(t, "Maria Santos", first.Assignees[0].Name)
	require.NotNil(t, first.EstimatedHours)
	assert.Equal(t, 40, *first.EstimatedHours)
	assert.Equal(t, []string{"dashboard", "métricas", "criágil"}, first.Tags)

	assert.NotNil(t, fx.Demands[2].DueDate)
	assert.Equal(t, []string{"1", "2", "3"}, fx.Demands[5].AssigneeIDs())
	assert.Equal(t, 2024, fx.Projects[1].CreatedAt.Year())

	sum := metrics.Compute(fx.Demands)
	assert.Equal(t, 1, sum.InProgress)
	assert.Equal(t, 17, sum.CompletionRate)
	assert.Zero(t, sum.Columns[3].Count)
}

func TestParse_UnknownAssignee(t *testing.T) {
	_, err := fixture.Parse([]byte(`
users: []
demands:
  - id: "1"
    status: todo
    assignees: ["9"]
`))
	require.ErrorIs(t, err, fixture.ErrInvalidFixture)
}

func TestParse_UnknownStatus(t *testing.T) {
	_, err := fixture.Parse([]byte(`
demands:
  - id: "1"
    status: archived
`))
	require.ErrorIs(t, err, fixture.ErrInvalidFixture)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
users:
  - id: u1
    name: Solo
projects:
  - id: p1
    name: Only
    color: "#000000"
demands:
  - id: d1
    title: Single
    status: frozen
    assignees: [u1]
`), 0o644))

	fx, err := fixture.Load(path)
	require.NoError(t, err)
	require.Len(t, fx.Demands, 1)
	assert.Equal(t, demand.StatusFrozen, fx.Demands[0].Status)
	assert.Equal(t, "Solo", fx.Demands[0].Assignees[0].Name)

	_, err = fixture.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
