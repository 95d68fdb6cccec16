package views

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/user/aisec-dash/pkg/engine"
)

// priorityActions caps the remediation list of the active framework
const priorityActions = 4

type RequirementRow struct {
	engine.Requirement `yaml:",inline"`
	ProgressTier       engine.Tier  `json:"progressTier" yaml:"progressTier"`
	StatusBadge        engine.Badge `json:"statusBadge" yaml:"statusBadge"`
}

// ComplianceView lists the requirements of one framework, the first one
// unless the framework filter names another
type ComplianceView struct{}

func (ComplianceView) Name() string { return "compliance" }

func (ComplianceView) Description() string {
	return "Regulatory framework scores and requirement progress"
}

func (ComplianceView) FilterFields() []string {
	return fieldNames(engine.RequirementFields, engine.FieldFramework)
}

func (ComplianceView) SortKeys() []string { return engine.RequirementComparators.Keys() }

func (ComplianceView) DefaultSort() engine.SortState {
	return engine.SortState{Key: engine.SortProgress}
}

func (v ComplianceView) Execute(ctx context.Context, ds *engine.Dataset, q engine.Query) (*Report, error) {
	q = resolve(q, v.DefaultSort())

	fw, err := activeFramework(ds, q.Filter(engine.FieldFramework))
	if err != nil {
		return nil, err
	}

	reqQuery := q
	reqQuery.Filters = make(map[string]string, len(q.Filters))
	for k, val := range q.Filters {
		if k != engine.FieldFramework {
			reqQuery.Filters[k] = val
		}
	}
	reqs, err := query(ctx, fw.Requirements, engine.RequirementFields, engine.RequirementComparators, reqQuery)
	if err != nil {
		return nil, err
	}

	overall := engine.SummarizeCompliance(ds.Frameworks)
	active := engine.SummarizeFramework(fw)
	compliant, inProgress, nonCompliant := active.Shares()

	rows := make([]RequirementRow, 0, len(reqs))
	title := "Requirements"
	if fw.Name != "" {
		title = fw.Name + " requirements"
	}
	table := newTable(title, "ID", "REQUIREMENT", "STATUS", "PROGRESS", "DESCRIPTION")
	for _, r := range reqs {
		row := RequirementRow{
			Requirement:  r,
			ProgressTier: engine.ProgressThresholds.Bucket(float64(r.Progress)),
			StatusBadge:  engine.StatusBadge(string(r.Status)),
		}
		rows = append(rows, row)
		table.add(r.ID, r.Name, row.StatusBadge.Label, fmt.Sprintf("%d%% (%s)", r.Progress, row.ProgressTier), r.Description)
	}

	frameworks := newTable("Frameworks", "ID", "FRAMEWORK", "SCORE", "COMPLIANT", "IN PROGRESS", "NON-COMPLIANT", "NEXT AUDIT", "AUDITOR")
	for _, s := range overall.Frameworks {
		frameworks.add(
			s.ID,
			s.Name,
			fmt.Sprintf("%d%% (%s)", s.Score, s.Tier),
			fmt.Sprintf("%d/%d", s.Compliant, s.Total),
			fmt.Sprint(s.InProgress),
			fmt.Sprint(s.NonCompliant),
			s.NextAudit,
			s.Auditor,
		)
	}

	actions := PriorityActions(fw)
	actionTable := newTable("Priority actions", "#", "REQUIREMENT", "STATUS", "PROGRESS")
	for i, r := range actions {
		actionTable.add(fmt.Sprint(i+1), r.Name, engine.StatusBadge(string(r.Status)).Label, pct(r.Progress))
	}

	if fw.ID != "" {
		q.Filters = q.WithFilter(engine.FieldFramework, fw.ID).Filters
	}

	return &Report{
		View:   v.Name(),
		Query:  q,
		Shown:  len(rows),
		Rows:   rows,
		Counts: withAll(active.Counts(), active.Total),
		Summary: map[string]float64{
			"overallScore":      float64(overall.OverallScore),
			"frameworks":        float64(len(overall.Frameworks)),
			"totalRequirements": float64(overall.TotalRequirements),
			"totalCompliant":    float64(overall.TotalCompliant),
			"score":             float64(active.Score),
			"total":             float64(active.Total),
			"shown":             float64(len(rows)),
			"compliantShare":    float64(compliant),
			"inProgressShare":   float64(inProgress),
			"nonCompliantShare": float64(nonCompliant),
		},
		Details: map[string]any{
			"framework":       active,
			"overallTier":     overall.OverallTier,
			"frameworks":      overall.Frameworks,
			"priorityActions": actions,
		},
		Tables: []*Table{table, frameworks, actionTable},
	}, nil
}

// activeFramework picks the framework named by id, the first one for All.
// A dataset without frameworks yields an empty one for All.
func activeFramework(ds *engine.Dataset, id string) (engine.ComplianceFramework, error) {
	if id == engine.All {
		if len(ds.Frameworks) == 0 {
			return engine.ComplianceFramework{}, nil
		}
		return ds.Frameworks[0], nil
	}
	fw, ok := ds.Framework(id)
	if !ok {
		return engine.ComplianceFramework{}, fmt.Errorf("%w: %s", ErrUnknownFramework, id)
	}
	return fw, nil
}

// PriorityActions returns the least advanced requirements that are not yet
// compliant, at most four
func PriorityActions(fw engine.ComplianceFramework) []engine.Requirement {
	open := engine.Filter(fw.Requirements, func(r engine.Requirement) bool { return r.Status != engine.Compliant })
	slices.SortStableFunc(open, func(a, b engine.Requirement) int { return cmp.Compare(a.Progress, b.Progress) })
	if len(open) > priorityActions {
		open = open[:priorityActions]
	}
	return open
}
