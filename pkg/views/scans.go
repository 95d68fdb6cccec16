package views

import (
	"context"
	"fmt"

	"github.com/user/aisec-dash/pkg/engine"
)

// VulnerabilityRow is a finding with its CVSS colour band and badges
type VulnerabilityRow struct {
	engine.Vulnerability `yaml:",inline"`
	CVSSBand             engine.Severity `json:"cvssBand" yaml:"cvssBand"`
	SeverityBadge        engine.Badge    `json:"severityBadge" yaml:"severityBadge"`
	StatusBadge          engine.Badge    `json:"statusBadge" yaml:"statusBadge"`
}

// ScansView is the vulnerability findings page
type ScansView struct{}

func (ScansView) Name() string { return "scans" }

func (ScansView) Description() string {
	return "Vulnerability findings by severity, CVSS and triage status"
}

func (ScansView) FilterFields() []string { return fieldNames(engine.VulnerabilityFields) }

func (ScansView) SortKeys() []string { return engine.VulnerabilityComparators.Keys() }

func (ScansView) DefaultSort() engine.SortState {
	return engine.SortState{Key: engine.SortCVSS}
}

func (v ScansView) Execute(ctx context.Context, ds *engine.Dataset, q engine.Query) (*Report, error) {
	q = resolve(q, v.DefaultSort())
	vulns, err := query(ctx, ds.Vulnerabilities, engine.VulnerabilityFields, engine.VulnerabilityComparators, q)
	if err != nil {
		return nil, err
	}

	sum := engine.SummarizeVulnerabilities(ds.Vulnerabilities)

	rows := make([]VulnerabilityRow, 0, len(vulns))
	table := newTable("Findings", "ID", "SEVERITY", "CVSS", "FINDING", "SYSTEM", "CATEGORY", "STATUS", "DETECTED")
	for _, vuln := range vulns {
		row := VulnerabilityRow{
			Vulnerability: vuln,
			CVSSBand:      engine.CVSSBand(vuln.CVSS),
			SeverityBadge: engine.SeverityBadge(vuln.Severity),
			StatusBadge:   engine.StatusBadge(string(vuln.Status)),
		}
		rows = append(rows, row)
		table.add(
			vuln.ID,
			row.SeverityBadge.Label,
			fmt.Sprintf("%.1f", vuln.CVSS),
			vuln.Finding,
			vuln.SystemName,
			vuln.Category,
			row.StatusBadge.Label,
			vuln.DetectedAt,
		)
	}

	distribution := severityDistribution(sum.Severity, sum.Total)
	categories := engine.Histogram(ds.Vulnerabilities, func(v engine.Vulnerability) string { return v.Category })

	return &Report{
		View:   v.Name(),
		Query:  q,
		Shown:  len(rows),
		Rows:   rows,
		Counts: withAll(sum.Counts(), sum.Total),
		Summary: map[string]float64{
			"total":          float64(sum.Total),
			"shown":          float64(len(rows)),
			"open":           float64(sum.Open),
			"inReview":       float64(sum.InReview),
			"resolved":       float64(sum.Resolved),
			"unresolved":     float64(sum.Unresolved()),
			"critical":       float64(sum.Severity.Critical),
			"avgCvss":        round1(sum.AvgCVSS),
			"resolutionRate": float64(sum.ResolutionPercent()),
		},
		Details: map[string]any{
			"severityDistribution": distribution,
			"byCategory":           categories,
		},
		Tables: []*Table{
			table,
			bucketTable("Severity distribution", "SEVERITY", distribution),
			bucketTable("By category", "CATEGORY", categories),
		},
	}, nil
}

// severityDistribution lists the known severities from critical to low,
// zero counts included
func severityDistribution(c engine.SeverityCounts, total int) []engine.Bucket {
	counts := c.Map()
	out := make([]engine.Bucket, 0, len(engine.Severities))
	for _, s := range engine.Severities {
		n := counts[string(s)]
		out = append(out, engine.Bucket{Key: string(s), Count: n, Percent: engine.Percent(n, total)})
	}
	return out
}
