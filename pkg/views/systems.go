package views

import (
	"context"
	"fmt"

	"github.com/user/aisec-dash/pkg/engine"
)

// SystemRow is a system annotated with its exposure and display tiers
type SystemRow struct {
	engine.System       `yaml:",inline"`
	HealthTier          engine.Tier  `json:"healthTier" yaml:"healthTier"`
	StatusBadge         engine.Badge `json:"statusBadge" yaml:"statusBadge"`
	Alerts              int          `json:"alerts" yaml:"alerts"`
	OpenVulnerabilities int          `json:"openVulnerabilities" yaml:"openVulnerabilities"`
}

type SystemsView struct{}

func (SystemsView) Name() string { return "systems" }

func (SystemsView) Description() string {
	return "Connected AI systems with health, risk and per-system alert and vulnerability load"
}

func (SystemsView) FilterFields() []string { return fieldNames(engine.SystemFields) }

func (SystemsView) SortKeys() []string { return engine.SystemComparators.Keys() }

func (SystemsView) DefaultSort() engine.SortState {
	return engine.SortState{Key: engine.SortHealthScore}
}

func (v SystemsView) Execute(ctx context.Context, ds *engine.Dataset, q engine.Query) (*Report, error) {
	q = resolve(q, v.DefaultSort())
	systems, err := query(ctx, ds.Systems, engine.SystemFields, engine.SystemComparators, q)
	if err != nil {
		return nil, err
	}

	exposure := engine.CrossReference(ds.Systems, ds.Vulnerabilities, ds.Alerts)
	sum := engine.SummarizeSystems(ds.Systems)
	vulns := engine.SummarizeVulnerabilities(ds.Vulnerabilities)
	alerts := engine.SummarizeAlerts(ds.Alerts)

	rows := make([]SystemRow, 0, len(systems))
	table := newTable("Systems", "NAME", "TYPE", "STATUS", "HEALTH", "RISK", "RISK AREAS", "UPTIME", "ALERTS", "OPEN VULNS", "DEPARTMENT")
	for _, s := range systems {
		e := exposure[engine.SystemKey(s)]
		row := SystemRow{
			System:              s,
			HealthTier:          engine.BucketColor(float64(s.HealthScore)),
			StatusBadge:         engine.StatusBadge(string(s.Status)),
			Alerts:              e.Alerts,
			OpenVulnerabilities: e.OpenVulnerabilities,
		}
		rows = append(rows, row)
		table.add(
			s.Name,
			s.Type,
			row.StatusBadge.Label,
			fmt.Sprintf("%d (%s)", s.HealthScore, row.HealthTier),
			string(s.RiskLevel),
			fmt.Sprint(s.RiskAreas),
			fmt.Sprintf("%.1f%%", s.Uptime),
			fmt.Sprint(e.Alerts),
			fmt.Sprint(e.OpenVulnerabilities),
			s.Department,
		)
	}

	return &Report{
		View:   v.Name(),
		Query:  q,
		Shown:  len(rows),
		Rows:   rows,
		Counts: engine.CountBy(ds.Systems, engine.SystemFields[engine.FieldStatus], string(engine.StatusHealthy), string(engine.StatusWarning), string(engine.StatusCritical)),
		Summary: map[string]float64{
			"total":                   float64(sum.Total),
			"shown":                   float64(len(rows)),
			"healthy":                 float64(sum.Healthy),
			"avgHealth":               float64(sum.AvgHealth),
			"activeAlerts":            float64(alerts.Total),
			"criticalAlerts":          float64(alerts.Severity.Critical),
			"openVulnerabilities":     float64(vulns.Unresolved()),
			"resolvedVulnerabilities": float64(vulns.Resolved),
		},
		Details: map[string]any{
			"byType":       sum.ByType,
			"byDepartment": sum.ByDepartment,
			"byRiskLevel":  sum.ByRiskLevel,
		},
		Tables: []*Table{
			table,
			bucketTable("By type", "TYPE", sum.ByType),
			bucketTable("By department", "DEPARTMENT", sum.ByDepartment),
		},
	}, nil
}
