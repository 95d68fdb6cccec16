package engine

import "errors"

// All is the filter value that matches every record
const All = "all"

var (
	ErrUnknownSortKey = errors.New("unknown sort key")
	ErrUnknownField   = errors.New("unknown filter field")
)

// Query is the caller-held configuration passed by value into every call.
// The engine keeps no state between calls.
type Query struct {
	Filters   map[string]string `json:"filters,omitempty" yaml:"filters,omitempty"`
	SortKey   string            `json:"sortKey" yaml:"sortKey"`
	Ascending bool              `json:"ascending" yaml:"ascending"`
}

// Filter returns the value of a filter field, All when unset
func (q Query) Filter(field string) string {
	if v, ok := q.Filters[field]; ok && v != "" {
		return v
	}
	return All
}

// WithFilter returns a copy of q with field set to value
func (q Query) WithFilter(field, value string) Query {
	filters := make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		filters[k] = v
	}
	filters[field] = value
	q.Filters = filters
	return q
}

// SortState is the (key, direction) pair a table header keeps
type SortState struct {
	Key       string `json:"key" yaml:"key"`
	Ascending bool   `json:"ascending" yaml:"ascending"`
}

// Toggle selects key. Re-selecting the active key flips the direction,
// a new key starts descending.
func (s SortState) Toggle(key string) SortState {
	if s.Key == key {
		return SortState{Key: key, Ascending: !s.Ascending}
	}
	return SortState{Key: key}
}

// Result is what a query hands back to a view
type Result[T any] struct {
	Rows    []T                `json:"rows" yaml:"rows"`
	Counts  map[string]int     `json:"counts" yaml:"counts"`
	Summary map[string]float64 `json:"summary" yaml:"summary"`
}
