package views

import (
	"context"

	"github.com/user/aisec-dash/pkg/engine"
)

type AlertRow struct {
	engine.Alert  `yaml:",inline"`
	SeverityBadge engine.Badge `json:"severityBadge" yaml:"severityBadge"`
}

type AlertsView struct{}

func (AlertsView) Name() string { return "alerts" }

func (AlertsView) Description() string {
	return "Active alerts across all connected systems"
}

func (AlertsView) FilterFields() []string { return fieldNames(engine.AlertFields) }

func (AlertsView) SortKeys() []string { return engine.AlertComparators.Keys() }

func (AlertsView) DefaultSort() engine.SortState {
	return engine.SortState{Key: engine.SortSeverity}
}

func (v AlertsView) Execute(ctx context.Context, ds *engine.Dataset, q engine.Query) (*Report, error) {
	q = resolve(q, v.DefaultSort())
	alerts, err := query(ctx, ds.Alerts, engine.AlertFields, engine.AlertComparators, q)
	if err != nil {
		return nil, err
	}

	sum := engine.SummarizeAlerts(ds.Alerts)

	rows := make([]AlertRow, 0, len(alerts))
	table := newTable("Alerts", "SEVERITY", "TITLE", "SYSTEM", "TIMESTAMP")
	for _, a := range alerts {
		row := AlertRow{Alert: a, SeverityBadge: engine.SeverityBadge(a.Severity)}
		rows = append(rows, row)
		table.add(row.SeverityBadge.Label, a.Title, a.SystemName, a.Timestamp)
	}

	return &Report{
		View:   v.Name(),
		Query:  q,
		Shown:  len(rows),
		Rows:   rows,
		Counts: withAll(sum.Severity.Map(), sum.Total),
		Summary: map[string]float64{
			"total":    float64(sum.Total),
			"shown":    float64(len(rows)),
			"critical": float64(sum.Severity.Critical),
			"high":     float64(sum.Severity.High),
		},
		Tables: []*Table{table},
	}, nil
}
