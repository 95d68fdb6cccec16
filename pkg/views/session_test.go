package views

import (
	"context"
	"errors"
	"testing"

	"github.com/user/aisec-dash/pkg/engine"
)

func TestSessionSortToggle(t *testing.T) {
	s, err := NewSession(Default(nil), "scans")
	if err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		key  string
		want engine.SortState
	}{
		{"cvss", engine.SortState{Key: "cvss", Ascending: true}},
		{"cvss", engine.SortState{Key: "cvss", Ascending: false}},
		{"severity", engine.SortState{Key: "severity", Ascending: false}},
		{"severity", engine.SortState{Key: "severity", Ascending: true}},
		{"date", engine.SortState{Key: "date", Ascending: false}},
	}
	for _, step := range steps {
		if err := s.SortBy(step.key); err != nil {
			t.Fatalf("SortBy(%s): %v", step.key, err)
		}
		if got := s.Sort(); got != step.want {
			t.Errorf("after SortBy(%s): want %+v, got %+v", step.key, step.want, got)
		}
	}

	if err := s.SortBy("healthScore"); !errors.Is(err, engine.ErrUnknownSortKey) {
		t.Errorf("expected ErrUnknownSortKey, got %v", err)
	}
}

func TestSessionFiltersAndSwitch(t *testing.T) {
	ds := demo(t)
	s, err := NewSession(Default(nil), "systems")
	if err != nil {
		t.Fatal(err)
	}

	if err := s.SetFilter("status", "healthy"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetFilter("severity", "high"); !errors.Is(err, engine.ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}

	q := s.Query()
	q.Filters["status"] = "mutated"
	if s.Query().Filters["status"] != "healthy" {
		t.Error("Query must return a copy of the filters")
	}

	report, err := s.Run(context.Background(), ds)
	if err != nil {
		t.Fatal(err)
	}
	if report.Shown != 4 {
		t.Errorf("expected 4 healthy systems, got %d", report.Shown)
	}

	if err := s.SetFilter("status", engine.All); err != nil {
		t.Fatal(err)
	}
	if len(s.Query().Filters) != 0 {
		t.Errorf("All should clear the filter, got %v", s.Query().Filters)
	}

	if err := s.Switch("overview"); err != nil {
		t.Fatal(err)
	}
	if got := s.Sort(); got != (engine.SortState{Key: engine.SortHealthScore, Ascending: true}) {
		t.Errorf("switch should load the view default sort, got %+v", got)
	}
	if err := s.Switch("missing"); !errors.Is(err, ErrUnknownView) {
		t.Errorf("expected ErrUnknownView, got %v", err)
	}
	if s.View().Name() != "overview" {
		t.Error("failed switch must keep the current view")
	}
}

func TestSessionApply(t *testing.T) {
	s, err := NewSession(Default(nil), "alerts")
	if err != nil {
		t.Fatal(err)
	}
	err = s.Apply(engine.Query{Filters: map[string]string{"severity": "high"}, SortKey: "timestamp", Ascending: true})
	if err != nil {
		t.Fatal(err)
	}
	q := s.Query()
	if q.Filter("severity") != "high" || q.SortKey != "timestamp" || !q.Ascending {
		t.Errorf("unexpected query after Apply: %+v", q)
	}

	if err := s.Apply(engine.Query{SortKey: "cvss"}); !errors.Is(err, engine.ErrUnknownSortKey) {
		t.Errorf("expected ErrUnknownSortKey, got %v", err)
	}
}

func TestSessionRestore(t *testing.T) {
	s, err := NewSession(Default(nil), "scans")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetFilter("severity", "high"); err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()

	if err := s.SetFilter("severity", "low"); err != nil {
		t.Fatal(err)
	}
	if err := s.Switch("alerts"); err != nil {
		t.Fatal(err)
	}
	s.Restore(snap)

	if s.View().Name() != "scans" {
		t.Errorf("view = %s, want scans", s.View().Name())
	}
	if got := s.Query().Filter("severity"); got != "high" {
		t.Errorf("severity filter = %q, want high", got)
	}
	if s.Sort() != (engine.SortState{Key: "cvss"}) {
		t.Errorf("sort = %+v, want cvss desc", s.Sort())
	}
}
