package views

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/user/aisec-dash/pkg/engine"
)

var (
	ErrUnknownView      = errors.New("unknown view")
	ErrUnknownFramework = errors.New("unknown compliance framework")
)

// View is one dashboard page. Execute is a pure function of the dataset and
// the query: views hold no state between calls.
type View interface {
	Name() string
	Description() string
	FilterFields() []string
	SortKeys() []string
	DefaultSort() engine.SortState
	Execute(ctx context.Context, ds *engine.Dataset, q engine.Query) (*Report, error)
}

// Table is a titled grid of pre-formatted cells for the table printer
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func newTable(title string, headers ...string) *Table {
	return &Table{Title: title, Headers: headers}
}

func (t *Table) add(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Report is the result of executing a view. Rows and Details are for the
// structured encoders; Tables carries the same data laid out for humans,
// the row table first.
type Report struct {
	View    string             `json:"view" yaml:"view"`
	Query   engine.Query       `json:"query" yaml:"query"`
	Shown   int                `json:"shown" yaml:"shown"`
	Rows    any                `json:"rows" yaml:"rows"`
	Counts  map[string]int     `json:"counts,omitempty" yaml:"counts,omitempty"`
	Summary map[string]float64 `json:"summary" yaml:"summary"`
	Details map[string]any     `json:"details,omitempty" yaml:"details,omitempty"`
	Tables  []*Table           `json:"-" yaml:"-"`
}

// resolve fills in the default sort when the query has none
func resolve(q engine.Query, def engine.SortState) engine.Query {
	if q.SortKey == "" {
		q.SortKey = def.Key
		q.Ascending = def.Ascending
	}
	return q
}

// query filters then sorts one collection. Filters not listed in fields
// are rejected.
func query[T any](ctx context.Context, records []T, fields engine.Fields[T], cmps engine.Comparators[T], q engine.Query) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	preds, err := engine.Where(fields, q.Filters)
	if err != nil {
		return nil, err
	}
	rows, err := engine.SortBy(engine.Filter(records, preds...), cmps, q.SortKey, q.Ascending)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func fieldNames[T any](fields engine.Fields[T], extra ...string) []string {
	names := append([]string(nil), extra...)
	for k := range fields {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// withAll adds the All bucket holding total to a set of counts
func withAll(counts map[string]int, total int) map[string]int {
	counts[engine.All] = total
	return counts
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func pct(n int) string {
	return fmt.Sprintf("%d%%", n)
}

func bucketTable(title, keyHeader string, buckets []engine.Bucket) *Table {
	t := newTable(title, keyHeader, "COUNT", "SHARE")
	for _, b := range buckets {
		t.add(b.Key, fmt.Sprint(b.Count), pct(b.Percent))
	}
	return t
}
