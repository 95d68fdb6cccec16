package views

import (
	"context"
	"fmt"

	"github.com/user/aisec-dash/pkg/engine"
)

// FrameworkProgress is the compliant share shown per framework on the
// overview page
type FrameworkProgress struct {
	ID        string      `json:"id" yaml:"id"`
	Name      string      `json:"name" yaml:"name"`
	Compliant int         `json:"compliant" yaml:"compliant"`
	Total     int         `json:"total" yaml:"total"`
	Percent   int         `json:"percent" yaml:"percent"`
	Tier      engine.Tier `json:"tier" yaml:"tier"`
}

// overview feeds show the head of the dataset's own order
const (
	recentAlertLimit = 6
	activityLimit    = 10
)

type ActivityRow struct {
	engine.Activity `yaml:",inline"`
	Label           string `json:"label" yaml:"label"`
}

// OverviewView is the landing page: headline stats, the systems health list
// worst first, scan activity, compliance progress and the activity feed
type OverviewView struct{}

func (OverviewView) Name() string { return "overview" }

func (OverviewView) Description() string {
	return "Risk score, headline stats, systems health, scan activity and recent activity"
}

func (OverviewView) FilterFields() []string { return fieldNames(engine.SystemFields) }

func (OverviewView) SortKeys() []string { return engine.SystemComparators.Keys() }

func (OverviewView) DefaultSort() engine.SortState {
	return engine.SortState{Key: engine.SortHealthScore, Ascending: true}
}

func (v OverviewView) Execute(ctx context.Context, ds *engine.Dataset, q engine.Query) (*Report, error) {
	q = resolve(q, v.DefaultSort())
	systems, err := query(ctx, ds.Systems, engine.SystemFields, engine.SystemComparators, q)
	if err != nil {
		return nil, err
	}

	stats := ds.Overview
	sys := engine.SummarizeSystems(ds.Systems)
	vulns := engine.SummarizeVulnerabilities(ds.Vulnerabilities)
	alerts := engine.SummarizeAlerts(ds.Alerts)
	compliance := engine.SummarizeCompliance(ds.Frameworks)
	scans := engine.ScanActivity(ds.ScanHistory)
	trend := engine.TrendPercent(stats.ScansThisMonth, stats.ScansLastMonth)

	health := newTable("Systems health", "NAME", "STATUS", "HEALTH")
	rows := make([]SystemRow, 0, len(systems))
	for _, s := range systems {
		row := SystemRow{
			System:      s,
			HealthTier:  engine.BucketColor(float64(s.HealthScore)),
			StatusBadge: engine.StatusBadge(string(s.Status)),
		}
		rows = append(rows, row)
		health.add(s.Name, row.StatusBadge.Label, fmt.Sprintf("%d (%s)", s.HealthScore, row.HealthTier))
	}

	progress := make([]FrameworkProgress, 0, len(compliance.Frameworks))
	fwTable := newTable("Compliance", "FRAMEWORK", "COMPLIANT", "PROGRESS")
	for _, fs := range compliance.Frameworks {
		p := FrameworkProgress{
			ID:        fs.ID,
			Name:      fs.Name,
			Compliant: fs.Compliant,
			Total:     fs.Total,
			Percent:   engine.Percent(fs.Compliant, fs.Total),
		}
		p.Tier = engine.BucketColor(float64(p.Percent))
		progress = append(progress, p)
		fwTable.add(p.Name, fmt.Sprintf("%d/%d", p.Compliant, p.Total), pct(p.Percent))
	}

	scanTable := newTable("Scan activity", "DAY", "SCANS", "FINDINGS", "HEIGHT")
	for _, d := range scans.Days {
		scanTable.add(d.Day, fmt.Sprint(d.Scans), fmt.Sprint(d.Findings), pct(d.ScanHeight))
	}

	recent := head(ds.Alerts, recentAlertLimit)
	alertTable := newTable("Recent alerts", "SEVERITY", "TITLE", "SYSTEM", "TIMESTAMP")
	for _, a := range recent {
		alertTable.add(engine.SeverityBadge(a.Severity).Label, a.Title, a.SystemName, a.Timestamp)
	}

	feedItems := head(ds.Activity, activityLimit)
	activity := make([]ActivityRow, 0, len(feedItems))
	feed := newTable("Activity", "TYPE", "MESSAGE", "WHEN")
	for _, a := range feedItems {
		row := ActivityRow{Activity: a, Label: engine.ActivityLabel(a.Type)}
		activity = append(activity, row)
		feed.add(row.Label, a.Message, a.Timestamp)
	}

	return &Report{
		View:   v.Name(),
		Query:  q,
		Shown:  len(rows),
		Rows:   rows,
		Counts: withAll(sys.Counts(), sys.Total),
		Summary: map[string]float64{
			"riskScore":               float64(stats.RiskScore),
			"systemsConnected":        float64(sys.Total),
			"healthy":                 float64(sys.Healthy),
			"warning":                 float64(sys.Warning),
			"critical":                float64(sys.Critical),
			"shown":                   float64(len(rows)),
			"activeAlerts":            float64(alerts.Total),
			"criticalAlerts":          float64(alerts.Severity.Critical),
			"scansThisMonth":          float64(stats.ScansThisMonth),
			"scanTrend":               float64(trend),
			"openVulnerabilities":     float64(vulns.Unresolved()),
			"resolvedVulnerabilities": float64(vulns.Resolved),
			"complianceScore":         float64(compliance.OverallScore),
		},
		Details: map[string]any{
			"riskTier":          engine.BucketColor(float64(stats.RiskScore)),
			"meanTimeToResolve": stats.MeanTimeToResolve,
			"lastScanTime":      stats.LastScanTime,
			"scanActivity":      scans,
			"compliance":        progress,
			"recentAlerts":      recent,
			"activity":          activity,
		},
		Tables: []*Table{health, scanTable, fwTable, alertTable, feed},
	}, nil
}

// head returns a copy of at most n leading records
func head[T any](records []T, n int) []T {
	if len(records) > n {
		records = records[:n]
	}
	out := make([]T, len(records))
	copy(out, records)
	return out
}
