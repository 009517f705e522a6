// Package fixture loads the demo board installed on first start.
package fixture

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gepes/criagil/internal/domain/demand"
	"github.com/gepes/criagil/internal/domain/project"
	"github.com/gepes/criagil/internal/domain/user"
)

//go:embed seed.yaml
var defaultSeed []byte

// ErrInvalidFixture indicates a fixture that references unknown users or statuses.
var ErrInvalidFixture = errors.New("invalid fixture")

// Fixture is a complete board: users, projects and demands in board order.
type Fixture struct {
	Users    []user.User
	Projects []project.Project
	Demands  []demand.Demand
}

type document struct {
	Users    []user.User       `yaml:"users"`
	Projects []project.Project `yaml:"projects"`
	Demands  []seedDemand      `yaml:"demands"`
}

// Assignees are listed by user ID in the file.
type seedDemand struct {
	demand.Demand `yaml:",inline"`
	AssigneeIDs   []string `yaml:"assignees"`
}

// Default returns the embedded demo board.
func Default() (*Fixture, error) {
	return Parse(defaultSeed)
}

// Load reads a fixture file. An empty path selects the embedded one.
func Load(path string) (*Fixture, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data)
}

// Parse decodes a fixture and resolves demand assignees against its users.
func Parse(data []byte) (*Fixture, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	dir := user.NewDirectory(doc.Users)
	fx := &Fixture{
		Users:    doc.Users,
		Projects: doc.Projects,
		Demands:  make([]demand.Demand, 0, len(doc.Demands)),
	}
	for _, sd := range doc.Demands {
		d := sd.Demand
		if !d.Status.Valid() {
			return nil, fmt.Errorf("%w: demand %s has status %q", ErrInvalidFixture, d.ID, d.Status)
		}
		assignees, err := dir.Resolve(sd.AssigneeIDs)
		if err != nil {
			return nil, fmt.Errorf("%w: demand %s: %v", ErrInvalidFixture, d.ID, err)
		}
		d.Assignees = assignees
		d.Tags = demand.NormalizeTags(d.Tags)
		fx.Demands = append(fx.Demands, d)
	}
	return fx, nil
}
