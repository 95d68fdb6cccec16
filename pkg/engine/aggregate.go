package engine

import (
	"cmp"
	"math"
	"slices"
)

// RoundHalfUp rounds to the nearest integer, halves towards +Inf
func RoundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Percent is n/total as a rounded percentage, 0 when total is 0
func Percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return RoundHalfUp(float64(n) / float64(total) * 100)
}

// Bucket is one entry of a group-by-count histogram
type Bucket struct {
	Key     string `json:"key" yaml:"key"`
	Count   int    `json:"count" yaml:"count"`
	Percent int    `json:"percent" yaml:"percent"`
}

// Histogram groups records by key, largest group first. Groups with equal
// counts keep the order in which their key was first seen.
func Histogram[T any](records []T, key func(T) string) []Bucket {
	buckets := make([]Bucket, 0)
	index := make(map[string]int)
	for _, r := range records {
		k := key(r)
		if i, ok := index[k]; ok {
			buckets[i].Count++
			continue
		}
		index[k] = len(buckets)
		buckets = append(buckets, Bucket{Key: k, Count: 1})
	}
	slices.SortStableFunc(buckets, func(a, b Bucket) int { return cmp.Compare(b.Count, a.Count) })
	for i := range buckets {
		buckets[i].Percent = Percent(buckets[i].Count, len(records))
	}
	return buckets
}

// SeverityCounts buckets records per severity. Other holds unknown values.
type SeverityCounts struct {
	Critical int `json:"critical" yaml:"critical"`
	High     int `json:"high" yaml:"high"`
	Medium   int `json:"medium" yaml:"medium"`
	Low      int `json:"low" yaml:"low"`
	Other    int `json:"other,omitempty" yaml:"other,omitempty"`
}

func (c *SeverityCounts) add(s Severity) {
	switch s {
	case SeverityCritical:
		c.Critical++
	case SeverityHigh:
		c.High++
	case SeverityMedium:
		c.Medium++
	case SeverityLow:
		c.Low++
	default:
		c.Other++
	}
}

func (c SeverityCounts) Total() int {
	return c.Critical + c.High + c.Medium + c.Low + c.Other
}

// Map keys the counts by severity name
func (c SeverityCounts) Map() map[string]int {
	return map[string]int{
		string(SeverityCritical): c.Critical,
		string(SeverityHigh):     c.High,
		string(SeverityMedium):   c.Medium,
		string(SeverityLow):      c.Low,
	}
}

// VulnerabilitySummary holds the scan page aggregates
type VulnerabilitySummary struct {
	Total          int            `json:"total" yaml:"total"`
	Severity       SeverityCounts `json:"severity" yaml:"severity"`
	Open           int            `json:"open" yaml:"open"`
	InReview       int            `json:"inReview" yaml:"inReview"`
	Resolved       int            `json:"resolved" yaml:"resolved"`
	AvgCVSS        float64        `json:"avgCvss" yaml:"avgCvss"`
	ResolutionRate float64        `json:"resolutionRate" yaml:"resolutionRate"` // resolved / total, in [0,1]
}

func SummarizeVulnerabilities(vulns []Vulnerability) VulnerabilitySummary {
	s := VulnerabilitySummary{Total: len(vulns)}
	var cvss float64
	for _, v := range vulns {
		s.Severity.add(v.Severity)
		switch v.Status {
		case VulnOpen:
			s.Open++
		case VulnInReview:
			s.InReview++
		case VulnResolved:
			s.Resolved++
		}
		cvss += v.CVSS
	}
	if s.Total > 0 {
		s.AvgCVSS = cvss / float64(s.Total)
		s.ResolutionRate = float64(s.Resolved) / float64(s.Total)
	}
	return s
}

// Unresolved counts open and in-review findings
func (s VulnerabilitySummary) Unresolved() int {
	return s.Total - s.Resolved
}

func (s VulnerabilitySummary) ResolutionPercent() int {
	return RoundHalfUp(s.ResolutionRate * 100)
}

// Counts keys the severity and status buckets by their names
func (s VulnerabilitySummary) Counts() map[string]int {
	counts := s.Severity.Map()
	counts[string(VulnOpen)] = s.Open
	counts[string(VulnInReview)] = s.InReview
	counts[string(VulnResolved)] = s.Resolved
	return counts
}

// SystemSummary holds the systems page aggregates
type SystemSummary struct {
	Total        int      `json:"total" yaml:"total"`
	Healthy      int      `json:"healthy" yaml:"healthy"`
	Warning      int      `json:"warning" yaml:"warning"`
	Critical     int      `json:"critical" yaml:"critical"`
	Other        int      `json:"other,omitempty" yaml:"other,omitempty"`
	AvgHealth    int      `json:"avgHealth" yaml:"avgHealth"`
	ByType       []Bucket `json:"byType" yaml:"byType"`
	ByDepartment []Bucket `json:"byDepartment" yaml:"byDepartment"`
	ByRiskLevel  []Bucket `json:"byRiskLevel" yaml:"byRiskLevel"`
}

func SummarizeSystems(systems []System) SystemSummary {
	s := SystemSummary{Total: len(systems)}
	health := 0
	for _, sys := range systems {
		switch sys.Status {
		case StatusHealthy:
			s.Healthy++
		case StatusWarning:
			s.Warning++
		case StatusCritical:
			s.Critical++
		default:
			s.Other++
		}
		health += sys.HealthScore
	}
	if s.Total > 0 {
		s.AvgHealth = RoundHalfUp(float64(health) / float64(s.Total))
	}
	s.ByType = Histogram(systems, func(sys System) string { return sys.Type })
	s.ByDepartment = Histogram(systems, func(sys System) string { return sys.Department })
	s.ByRiskLevel = Histogram(systems, func(sys System) string { return string(sys.RiskLevel) })
	return s
}

func (s SystemSummary) Counts() map[string]int {
	return map[string]int{
		string(StatusHealthy):  s.Healthy,
		string(StatusWarning):  s.Warning,
		string(StatusCritical): s.Critical,
	}
}

// AlertSummary holds alert counts per severity
type AlertSummary struct {
	Total    int            `json:"total" yaml:"total"`
	Severity SeverityCounts `json:"severity" yaml:"severity"`
}

func SummarizeAlerts(alerts []Alert) AlertSummary {
	s := AlertSummary{Total: len(alerts)}
	for _, a := range alerts {
		s.Severity.add(a.Severity)
	}
	return s
}

// Exposure is the alert and unresolved vulnerability load of one system
type Exposure struct {
	SystemID            string `json:"systemId" yaml:"systemId"`
	SystemName          string `json:"systemName" yaml:"systemName"`
	Alerts              int    `json:"alerts" yaml:"alerts"`
	OpenVulnerabilities int    `json:"openVulnerabilities" yaml:"openVulnerabilities"`
}

// SystemKey identifies a system in cross-reference results: its id, or its
// name when it has none.
func SystemKey(s System) string {
	if s.ID != "" {
		return s.ID
	}
	return s.Name
}

// belongsTo joins on the surrogate system id when the record carries one and
// falls back to exact display-name equality otherwise. A renamed system
// silently loses name-joined records.
func belongsTo(sys System, systemID, systemName string) bool {
	if systemID != "" {
		return systemID == sys.ID
	}
	return systemName == sys.Name
}

// CrossReference counts alerts and non-resolved vulnerabilities per system,
// keyed by SystemKey
func CrossReference(systems []System, vulns []Vulnerability, alerts []Alert) map[string]Exposure {
	out := make(map[string]Exposure, len(systems))
	for _, sys := range systems {
		e := Exposure{SystemID: sys.ID, SystemName: sys.Name}
		for _, a := range alerts {
			if belongsTo(sys, a.SystemID, a.SystemName) {
				e.Alerts++
			}
		}
		for _, v := range vulns {
			if v.Status != VulnResolved && belongsTo(sys, v.SystemID, v.SystemName) {
				e.OpenVulnerabilities++
			}
		}
		out[SystemKey(sys)] = e
	}
	return out
}

// TrendPercent is the rounded change from previous to current in percent,
// 0 when there is no previous value
func TrendPercent(current, previous int) int {
	if previous == 0 {
		return 0
	}
	return RoundHalfUp(float64(current-previous) / float64(previous) * 100)
}

// ScanBar is one day of the scan activity chart. Heights are percentages
// of the busiest day's scan count.
type ScanBar struct {
	Day           string `json:"day" yaml:"day"`
	Scans         int    `json:"scans" yaml:"scans"`
	Findings      int    `json:"findings" yaml:"findings"`
	ScanHeight    int    `json:"scanHeight" yaml:"scanHeight"`
	FindingHeight int    `json:"findingHeight" yaml:"findingHeight"`
}

// ScanActivitySummary aggregates the scan history chart
type ScanActivitySummary struct {
	TotalScans    int       `json:"totalScans" yaml:"totalScans"`
	TotalFindings int       `json:"totalFindings" yaml:"totalFindings"`
	PeakDay       string    `json:"peakDay" yaml:"peakDay"`
	PeakScans     int       `json:"peakScans" yaml:"peakScans"`
	Days          []ScanBar `json:"days" yaml:"days"`
}

func ScanActivity(history []ScanDay) ScanActivitySummary {
	s := ScanActivitySummary{Days: make([]ScanBar, 0, len(history))}
	for _, d := range history {
		s.TotalScans += d.Scans
		s.TotalFindings += d.Findings
		if d.Scans > s.PeakScans {
			s.PeakScans = d.Scans
			s.PeakDay = d.Day
		}
	}
	for _, d := range history {
		s.Days = append(s.Days, ScanBar{
			Day:           d.Day,
			Scans:         d.Scans,
			Findings:      d.Findings,
			ScanHeight:    Percent(d.Scans, s.PeakScans),
			FindingHeight: Percent(d.Findings, s.PeakScans),
		})
	}
	return s
}
