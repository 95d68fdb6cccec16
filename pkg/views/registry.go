package views

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/user/aisec-dash/pkg/engine"
	"github.com/user/aisec-dash/pkg/logger"
	"github.com/user/aisec-dash/pkg/metrics"
)

// Registry holds the views by name in registration order
type Registry struct {
	views   map[string]View
	order   []string
	metrics *metrics.Metrics
}

// NewRegistry creates an empty registry. m may be nil.
func NewRegistry(m *metrics.Metrics) *Registry {
	return &Registry{
		views:   make(map[string]View),
		metrics: m,
	}
}

// Default returns a registry with every dashboard page
func Default(m *metrics.Metrics) *Registry {
	r := NewRegistry(m)
	r.Register(OverviewView{})
	r.Register(SystemsView{})
	r.Register(ScansView{})
	r.Register(AlertsView{})
	r.Register(ComplianceView{})
	return r
}

// Register adds a view, replacing any view with the same name
func (r *Registry) Register(v View) {
	if _, exists := r.views[v.Name()]; !exists {
		r.order = append(r.order, v.Name())
	}
	r.views[v.Name()] = v
}

func (r *Registry) Get(name string) (View, error) {
	v, ok := r.views[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownView, name)
	}
	return v, nil
}

// List returns the views in registration order
func (r *Registry) List() []View {
	list := make([]View, 0, len(r.order))
	for _, name := range r.order {
		list = append(list, r.views[name])
	}
	return list
}

// Execute runs a view by name and records its outcome
func (r *Registry) Execute(ctx context.Context, name string, ds *engine.Dataset, q engine.Query) (*Report, error) {
	log := logger.Named("views")

	v, err := r.Get(name)
	if err != nil {
		r.observe(name, "unknown", 0, 0)
		return nil, err
	}

	start := time.Now()
	report, err := v.Execute(ctx, ds, q)
	elapsed := time.Since(start)

	if err != nil {
		r.observe(name, "error", elapsed, 0)
		log.Debug("View query failed",
			zap.String("view", name),
			zap.Any("filters", q.Filters),
			zap.String("sort", q.SortKey),
			zap.Error(err),
		)
		return nil, err
	}

	r.observe(name, "ok", elapsed, report.Shown)
	log.Debug("View query executed",
		zap.String("view", name),
		zap.Any("filters", report.Query.Filters),
		zap.String("sort", report.Query.SortKey),
		zap.Bool("ascending", report.Query.Ascending),
		zap.Int("rows", report.Shown),
		zap.Duration("duration", elapsed),
	)
	return report, nil
}

func (r *Registry) observe(view, outcome string, elapsed time.Duration, rows int) {
	if r.metrics == nil {
		return
	}
	r.metrics.QueriesTotal.WithLabelValues(view, outcome).Inc()
	if outcome != "ok" {
		return
	}
	r.metrics.QueryDuration.WithLabelValues(view).Observe(elapsed.Seconds())
	r.metrics.RowsReturned.WithLabelValues(view).Set(float64(rows))
}
