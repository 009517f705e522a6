// Package filter derives status-partitioned views of the board from a query.
// Views are recomputed on every call; nothing is cached.
package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/gepes/criagil/internal/domain/demand"
)

// All is the wildcard value for categorical query fields.
const All = "all"

// Query selects demands. Every field is ANDed; "all" and "" match everything.
type Query struct {
	SearchTerm string `json:"search_term,omitempty"`
	ProjectID  string `json:"project_id,omitempty"`
	AssigneeID string `json:"assignee_id,omitempty"`
	Type       string `json:"type,omitempty"`
	Priority   string `json:"priority,omitempty"`
}

// View is the filtered board.
type View struct {
	Columns      []demand.Column `json:"columns"`
	TotalResults int             `json:"total_results"`
}

// IsWildcard reports whether the query selects every demand.
func (q Query) IsWildcard() bool {
	return q.SearchTerm == "" &&
		wildcard(q.ProjectID) &&
		wildcard(q.AssigneeID) &&
		wildcard(q.Type) &&
		wildcard(q.Priority)
}

func wildcard(v string) bool {
	return v == "" || v == All
}

// matcher holds the folded search term. cases.Caser is stateful, so each
// matcher owns its own.
type matcher struct {
	q      Query
	fold   cases.Caser
	needle string
}

func newMatcher(q Query) *matcher {
	m := &matcher{q: q, fold: cases.Fold()}
	if q.SearchTerm != "" {
		m.needle = m.fold.String(q.SearchTerm)
	}
	return m
}

func (m *matcher) match(d demand.Demand) bool {
	if m.needle != "" &&
		!m.contains(d.Title) &&
		!m.contains(d.Description) &&
		!m.contains(d.Stakeholder) {
		return false
	}
	if !wildcard(m.q.ProjectID) && d.ProjectID != m.q.ProjectID {
		return false
	}
	if !wildcard(m.q.AssigneeID) && !d.HasAssignee(m.q.AssigneeID) {
		return false
	}
	if !wildcard(m.q.Type) && string(d.Type) != m.q.Type {
		return false
	}
	if !wildcard(m.q.Priority) && string(d.Priority) != m.q.Priority {
		return false
	}
	return true
}

func (m *matcher) contains(field string) bool {
	return strings.Contains(m.fold.String(field), m.needle)
}

// Matches reports whether a single demand satisfies q.
func Matches(d demand.Demand, q Query) bool {
	return newMatcher(q).match(d)
}

// Apply filters demands and regroups the matches into the six board columns,
// preserving their relative order. Demands with an unknown status are dropped.
func Apply(demands []demand.Demand, q Query) View {
	m := newMatcher(q)
	byStatus := make(map[demand.Status][]demand.Demand, len(demand.Statuses))
	total := 0
	for _, d := range demands {
		if !d.Status.Valid() || !m.match(d) {
			continue
		}
		byStatus[d.Status] = append(byStatus[d.Status], d)
		total++
	}

	cols := make([]demand.Column, len(demand.Statuses))
	for i, s := range demand.Statuses {
		ds := byStatus[s]
		if ds == nil {
			ds = []demand.Demand{}
		}
		cols[i] = demand.Column{Status: s, Title: s.Title(), Demands: ds}
	}
	return View{Columns: cols, TotalResults: total}
}

// Column returns the named column of the view.
func (v View) Column(s demand.Status) []demand.Demand {
	for _, c := range v.Columns {
		if c.Status == s {
			return c.Demands
		}
	}
	return nil
}
