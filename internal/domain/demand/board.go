package demand

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gepes/criagil/internal/domain/user"
)

// Board stores demands partitioned by status, keeping insertion order inside
// each partition. It is not safe for concurrent use; Service serializes access.
type Board struct {
	columns map[Status][]Demand
	newID   func() string
	now     func() time.Time
}

// BoardOption configures a Board.
type BoardOption func(*Board)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) BoardOption {
	return func(b *Board) { b.now = now }
}

// WithIDGenerator overrides demand ID generation.
func WithIDGenerator(gen func() string) BoardOption {
	return func(b *Board) { b.newID = gen }
}

// NewBoard creates an empty board with all six partitions.
func NewBoard(opts ...BoardOption) *Board {
	b := &Board{
		columns: emptyColumns(),
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func emptyColumns() map[Status][]Demand {
	cols := make(map[Status][]Demand, len(Statuses))
	for _, s := range Statuses {
		cols[s] = nil
	}
	return cols
}

// Create assigns a fresh ID and creation time and appends the demand to the
// backlog, or to d.Status when the caller chose a column at intake.
func (b *Board) Create(d Draft) (Demand, error) {
	status := d.Status
	if status == "" {
		status = StatusBacklog
	}
	if !status.Valid() {
		return Demand{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	id := b.newID()
	for b.contains(id) {
		id = b.newID()
	}

	dem := Demand{
		ID:             id,
		Title:          d.Title,
		Description:    d.Description,
		Type:           d.Type,
		Priority:       d.Priority,
		Stakeholder:    d.Stakeholder,
		Assignees:      uniqueAssignees(d.Assignees),
		ProjectID:      d.ProjectID,
		Status:         status,
		CreatedAt:      b.now(),
		DueDate:        d.DueDate,
		EstimatedHours: d.EstimatedHours,
		Tags:           d.Tags,
	}.clone()

	b.columns[status] = append(b.columns[status], dem)
	return dem.clone(), nil
}

// Update replaces the stored demand with the same ID. When the status is
// unchanged the record keeps its index; otherwise it moves to the tail of the
// new partition. ID and CreatedAt always come from the stored record.
func (b *Board) Update(d Demand) (Demand, error) {
	if !d.Status.Valid() {
		return Demand{}, fmt.Errorf("%w: %q", ErrInvalidStatus, d.Status)
	}
	from, idx, ok := b.locate(d.ID)
	if !ok {
		return Demand{}, ErrDemandNotFound
	}

	stored := b.columns[from][idx]
	d.CreatedAt = stored.CreatedAt
	d.Assignees = uniqueAssignees(d.Assignees)
	d = d.clone()

	if d.Status == from {
		b.columns[from][idx] = d
		return d.clone(), nil
	}
	b.removeAt(from, idx)
	b.columns[d.Status] = append(b.columns[d.Status], d)
	return d.clone(), nil
}

// MoveTo moves a demand to the tail of the target partition. Moving a demand
// onto its own column is a no-op reported with Moved == false.
func (b *Board) MoveTo(id string, to Status) (MoveResult, error) {
	if !to.Valid() {
		return MoveResult{}, fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	from, idx, ok := b.locate(id)
	if !ok {
		return MoveResult{}, ErrDemandNotFound
	}

	dem := b.columns[from][idx]
	if from == to {
		return MoveResult{Demand: dem.clone(), From: from, To: to}, nil
	}

	b.removeAt(from, idx)
	dem.Status = to
	b.columns[to] = append(b.columns[to], dem)
	return MoveResult{Demand: dem.clone(), From: from, To: to, Moved: true}, nil
}

// Get returns a demand by ID.
func (b *Board) Get(id string) (Demand, error) {
	s, idx, ok := b.locate(id)
	if !ok {
		return Demand{}, ErrDemandNotFound
	}
	return b.columns[s][idx].clone(), nil
}

// All flattens the partitions in board order.
func (b *Board) All() []Demand {
	out := make([]Demand, 0, b.Len())
	for _, s := range Statuses {
		for _, d := range b.columns[s] {
			out = append(out, d.clone())
		}
	}
	return out
}

// Column returns a copy of one partition.
func (b *Board) Column(s Status) []Demand {
	src := b.columns[s]
	out := make([]Demand, len(src))
	for i, d := range src {
		out[i] = d.clone()
	}
	return out
}

// Columns returns every partition in board order.
func (b *Board) Columns() []Column {
	cols := make([]Column, len(Statuses))
	for i, s := range Statuses {
		cols[i] = Column{Status: s, Title: s.Title(), Demands: b.Column(s)}
	}
	return cols
}

// Len is the total number of demands across partitions.
func (b *Board) Len() int {
	n := 0
	for _, s := range Statuses {
		n += len(b.columns[s])
	}
	return n
}

// Load rebuilds the partitions from already-identified demands, appending
// each to the partition named by its status in the given order.
func (b *Board) Load(demands []Demand) error {
	cols := emptyColumns()
	seen := make(map[string]struct{}, len(demands))
	for _, d := range demands {
		if !d.Status.Valid() {
			return fmt.Errorf("%w: %q for demand %s", ErrInvalidStatus, d.Status, d.ID)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, d.ID)
		}
		seen[d.ID] = struct{}{}
		d.Assignees = uniqueAssignees(d.Assignees)
		cols[d.Status] = append(cols[d.Status], d.clone())
	}
	b.columns = cols
	return nil
}

// Snapshot is an opaque copy of the board contents.
type Snapshot struct {
	columns map[Status][]Demand
}

// Snapshot captures the current partitions for Restore.
func (b *Board) Snapshot() Snapshot {
	cols := make(map[Status][]Demand, len(b.columns))
	for s, ds := range b.columns {
		cols[s] = append([]Demand(nil), ds...)
	}
	return Snapshot{columns: cols}
}

// Restore resets the partitions to a snapshot.
func (b *Board) Restore(snap Snapshot) {
	if snap.columns == nil {
		b.columns = emptyColumns()
		return
	}
	b.columns = snap.columns
}

func (b *Board) locate(id string) (Status, int, bool) {
	for _, s := range Statuses {
		for i, d := range b.columns[s] {
			if d.ID == id {
				return s, i, true
			}
		}
	}
	return "", -1, false
}

func (b *Board) contains(id string) bool {
	_, _, ok := b.locate(id)
	return ok
}

func (b *Board) removeAt(s Status, idx int) {
	col := b.columns[s]
	out := make([]Demand, 0, len(col)-1)
	out = append(out, col[:idx]...)
	b.columns[s] = append(out, col[idx+1:]...)
}

func uniqueAssignees(in []user.User) []user.User {
	if in == nil {
		return nil
	}
	out := make([]user.User, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, u := range in {
		if _, dup := seen[u.ID]; dup {
			continue
		}
		seen[u.ID] = struct{}{}
		out = append(out, u)
	}
	return out
}
