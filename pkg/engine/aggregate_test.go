package engine

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSummarizeVulnerabilitiesExample(t *testing.T) {
	vulns := []Vulnerability{
		{Severity: SeverityCritical, CVSS: 9.8, Status: VulnOpen},
		{Severity: SeverityLow, CVSS: 2.1, Status: VulnResolved},
	}

	s := SummarizeVulnerabilities(vulns)

	want := map[string]int{"critical": 1, "high": 0, "medium": 0, "low": 1}
	if diff := cmp.Diff(want, s.Severity.Map()); diff != "" {
		t.Errorf("severity counts (-want +got):\n%s", diff)
	}
	if s.ResolutionRate != 0.5 {
		t.Errorf("expected resolution rate 0.5, got %v", s.ResolutionRate)
	}
	if math.Abs(s.AvgCVSS-5.95) > 1e-9 {
		t.Errorf("expected avg cvss 5.95, got %v", s.AvgCVSS)
	}
	if s.ResolutionPercent() != 50 {
		t.Errorf("expected 50%%, got %d", s.ResolutionPercent())
	}
	if s.Unresolved() != 1 {
		t.Errorf("expected 1 unresolved, got %d", s.Unresolved())
	}
}

func TestSummarizeVulnerabilitiesInvariants(t *testing.T) {
	vulns := []Vulnerability{
		{Severity: SeverityHigh, CVSS: 7.4, Status: VulnOpen},
		{Severity: SeverityHigh, CVSS: 8.1, Status: VulnInReview},
		{Severity: SeverityMedium, CVSS: 5.0, Status: VulnOpen},
		{Severity: Severity("unknown"), CVSS: 1.0, Status: VulnOpen},
	}

	s := SummarizeVulnerabilities(vulns)

	if s.Severity.Total() != len(vulns) {
		t.Errorf("severity counts sum to %d, want %d", s.Severity.Total(), len(vulns))
	}
	if s.ResolutionRate != 0 {
		t.Errorf("no resolved findings should give rate 0, got %v", s.ResolutionRate)
	}
	if s.ResolutionRate < 0 || s.ResolutionRate > 1 {
		t.Errorf("resolution rate out of range: %v", s.ResolutionRate)
	}
	counts := s.Counts()
	if counts["open"] != 3 || counts["in-review"] != 1 || counts["resolved"] != 0 {
		t.Errorf("status counts wrong: %v", counts)
	}
}

func TestAggregatesOnEmptyInput(t *testing.T) {
	v := SummarizeVulnerabilities(nil)
	if v != (VulnerabilitySummary{}) {
		t.Errorf("expected zero vulnerability summary, got %+v", v)
	}
	if v.ResolutionPercent() != 0 {
		t.Errorf("expected 0%% resolution, got %d", v.ResolutionPercent())
	}

	s := SummarizeSystems(nil)
	if s.Total != 0 || s.AvgHealth != 0 {
		t.Errorf("expected zero system summary, got %+v", s)
	}
	if s.ByType == nil || len(s.ByType) != 0 {
		t.Errorf("expected empty histogram, got %#v", s.ByType)
	}

	a := SummarizeAlerts(nil)
	if a.Total != 0 || a.Severity.Total() != 0 {
		t.Errorf("expected zero alert summary, got %+v", a)
	}

	c := SummarizeCompliance(nil)
	if c.OverallScore != 0 || c.TotalRequirements != 0 {
		t.Errorf("expected zero compliance summary, got %+v", c)
	}

	sa := ScanActivity(nil)
	if sa.TotalScans != 0 || sa.PeakDay != "" || len(sa.Days) != 0 {
		t.Errorf("expected empty scan activity, got %+v", sa)
	}

	if got := CrossReference(nil, nil, nil); len(got) != 0 {
		t.Errorf("expected no exposures, got %v", got)
	}
}

func TestSummarizeSystems(t *testing.T) {
	systems := sampleSystems()
	systems = append(systems, System{ID: "s5", Name: "Legacy", Type: "LLM", Status: SystemStatus("retired"), HealthScore: 50, Department: "Support"})

	s := SummarizeSystems(systems)

	if s.Healthy != 2 || s.Warning != 2 || s.Critical != 0 || s.Other != 1 {
		t.Errorf("status counts wrong: %+v", s)
	}
	// (92+71+88+66+50)/5 = 73.4
	if s.AvgHealth != 73 {
		t.Errorf("expected avg health 73, got %d", s.AvgHealth)
	}

	wantDept := []Bucket{
		{Key: "Support", Count: 2, Percent: 40},
		{Key: "Finance", Count: 2, Percent: 40},
		{Key: "People", Count: 1, Percent: 20},
	}
	if diff := cmp.Diff(wantDept, s.ByDepartment); diff != "" {
		t.Errorf("department histogram (-want +got):\n%s", diff)
	}
}

func TestHistogramTiesKeepInsertionOrder(t *testing.T) {
	types := []string{"LLM", "Chatbot", "LLM", "Vision", "Chatbot", "NLP"}

	got := Histogram(types, func(s string) string { return s })

	want := []Bucket{
		{Key: "LLM", Count: 2, Percent: 33},
		{Key: "Chatbot", Count: 2, Percent: 33},
		{Key: "Vision", Count: 1, Percent: 17},
		{Key: "NLP", Count: 1, Percent: 17},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("histogram (-want +got):\n%s", diff)
	}
}

func TestCrossReference(t *testing.T) {
	systems := []System{{ID: "s1", Name: "Alpha"}, {ID: "s2", Name: "Beta"}, {Name: "Gamma"}}
	vulns := []Vulnerability{
		{SystemName: "Alpha", Status: VulnOpen},
		{SystemName: "Alpha", Status: VulnResolved},
		{SystemName: "Alpha", Status: VulnInReview},
		{SystemID: "s2", SystemName: "Alpha", Status: VulnOpen},
		{SystemName: "Gamma", Status: VulnOpen},
	}
	alerts := []Alert{
		{SystemName: "alpha"},
		{SystemName: "Beta"},
		{SystemName: "Beta"},
	}

	got := CrossReference(systems, vulns, alerts)

	want := map[string]Exposure{
		"s1":    {SystemID: "s1", SystemName: "Alpha", Alerts: 0, OpenVulnerabilities: 2},
		"s2":    {SystemID: "s2", SystemName: "Beta", Alerts: 2, OpenVulnerabilities: 1},
		"Gamma": {SystemName: "Gamma", OpenVulnerabilities: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("exposures (-want +got):\n%s", diff)
	}
}

func TestTrendPercent(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		previous int
		want     int
	}{
		{"growth", 142, 118, 20},
		{"decline", 90, 120, -25},
		{"flat", 50, 50, 0},
		{"no baseline", 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrendPercent(tt.current, tt.previous); got != tt.want {
				t.Errorf("TrendPercent(%d, %d) = %d, want %d", tt.current, tt.previous, got, tt.want)
			}
		})
	}
}

func TestScanActivity(t *testing.T) {
	history := []ScanDay{{Day: "Mon", Scans: 10, Findings: 4}, {Day: "Tue", Scans: 20, Findings: 5}}

	got := ScanActivity(history)

	if got.TotalScans != 30 || got.TotalFindings != 9 {
		t.Errorf("totals wrong: %+v", got)
	}
	if got.PeakDay != "Tue" || got.PeakScans != 20 {
		t.Errorf("peak wrong: %+v", got)
	}
	if got.Days[0].ScanHeight != 50 || got.Days[0].FindingHeight != 20 || got.Days[1].ScanHeight != 100 {
		t.Errorf("heights wrong: %+v", got.Days)
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := map[float64]int{84.5: 85, 84.49: 84, 2.5: 3, -2.5: -2, 0: 0}
	for in, want := range tests {
		if got := RoundHalfUp(in); got != want {
			t.Errorf("RoundHalfUp(%v) = %d, want %d", in, got, want)
		}
	}
}
