package views

import (
	"context"
	"fmt"
	"slices"

	"github.com/user/aisec-dash/pkg/engine"
)

// Session is the caller-held state of an interactive dashboard: the current
// view, its filters and its sort. It is not safe for concurrent use.
type Session struct {
	registry *Registry
	view     View
	filters  map[string]string
	sort     engine.SortState
}

// NewSession opens a session on the named view with its default sort
func NewSession(r *Registry, view string) (*Session, error) {
	s := &Session{registry: r}
	if err := s.Switch(view); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) View() View { return s.view }

// Switch moves to another view and resets filters and sort
func (s *Session) Switch(name string) error {
	v, err := s.registry.Get(name)
	if err != nil {
		return err
	}
	s.view = v
	s.filters = make(map[string]string)
	s.sort = v.DefaultSort()
	return nil
}

// Apply loads a stored query into the session. An empty sort key keeps the
// view default.
func (s *Session) Apply(q engine.Query) error {
	for field, value := range q.Filters {
		if err := s.SetFilter(field, value); err != nil {
			return err
		}
	}
	if q.SortKey != "" {
		if !slices.Contains(s.view.SortKeys(), q.SortKey) {
			return fmt.Errorf("%w: %s", engine.ErrUnknownSortKey, q.SortKey)
		}
		s.sort = engine.SortState{Key: q.SortKey, Ascending: q.Ascending}
	}
	return nil
}

// SetFilter sets one filter field. The value All clears it.
func (s *Session) SetFilter(field, value string) error {
	if !slices.Contains(s.view.FilterFields(), field) {
		return fmt.Errorf("%w: %s", engine.ErrUnknownField, field)
	}
	if value == "" || value == engine.All {
		delete(s.filters, field)
		return nil
	}
	s.filters[field] = value
	return nil
}

func (s *Session) ClearFilters() {
	s.filters = make(map[string]string)
}

// SortBy selects a column the way a table header click does: the active
// column flips direction, a new column starts descending
func (s *Session) SortBy(key string) error {
	if !slices.Contains(s.view.SortKeys(), key) {
		return fmt.Errorf("%w: %s", engine.ErrUnknownSortKey, key)
	}
	s.sort = s.sort.Toggle(key)
	return nil
}

func (s *Session) Sort() engine.SortState { return s.sort }

// Snapshot is a saved copy of the session state
type Snapshot struct {
	view    View
	filters map[string]string
	sort    engine.SortState
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{view: s.view, filters: s.Query().Filters, sort: s.sort}
}

// Restore puts back a state taken with Snapshot
func (s *Session) Restore(snap Snapshot) {
	s.view = snap.view
	s.filters = make(map[string]string, len(snap.filters))
	for k, v := range snap.filters {
		s.filters[k] = v
	}
	s.sort = snap.sort
}

// Query snapshots the session state. The filters map is a copy.
func (s *Session) Query() engine.Query {
	filters := make(map[string]string, len(s.filters))
	for k, v := range s.filters {
		filters[k] = v
	}
	return engine.Query{Filters: filters, SortKey: s.sort.Key, Ascending: s.sort.Ascending}
}

// Run executes the current view through the registry
func (s *Session) Run(ctx context.Context, ds *engine.Dataset) (*Report, error) {
	return s.registry.Execute(ctx, s.view.Name(), ds, s.Query())
}
