package dataset

import (
	"fmt"

	"github.com/user/aisec-dash/pkg/engine"
)

// Validate reports suspicious records. Nothing here stops a dataset from
// loading: unknown enum values sort last and render with a neutral badge.
func Validate(ds *engine.Dataset) []string {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	ids := make(map[string]bool, len(ds.Systems))
	for _, s := range ds.Systems {
		if ids[s.ID] {
			warn("system %s: duplicate id", s.ID)
		}
		ids[s.ID] = true
		if !s.Status.Known() {
			warn("system %s: unknown status %q", s.ID, s.Status)
		}
		if !s.RiskLevel.Known() {
			warn("system %s: unknown risk level %q", s.ID, s.RiskLevel)
		}
		if s.HealthScore < 0 || s.HealthScore > 100 {
			warn("system %s: health score %d outside 0-100", s.ID, s.HealthScore)
		}
		if s.Uptime < 0 || s.Uptime > 100 {
			warn("system %s: uptime %.1f outside 0-100", s.ID, s.Uptime)
		}
	}

	for _, v := range ds.Vulnerabilities {
		if !v.Severity.Known() {
			warn("vulnerability %s: unknown severity %q", v.ID, v.Severity)
		}
		if !v.Status.Known() {
			warn("vulnerability %s: unknown status %q", v.ID, v.Status)
		}
		if v.CVSS < 0 || v.CVSS > 10 {
			warn("vulnerability %s: cvss %.1f outside 0-10", v.ID, v.CVSS)
		} else if v.Severity.Known() && engine.CVSSBand(v.CVSS) != v.Severity {
			warn("vulnerability %s: cvss %.1f is %s but severity is %s", v.ID, v.CVSS, engine.CVSSBand(v.CVSS), v.Severity)
		}
		if !joined(ds, v.SystemID, v.SystemName) {
			warn("vulnerability %s: no system named %q", v.ID, v.SystemName)
		}
	}

	for _, a := range ds.Alerts {
		if !a.Severity.Known() {
			warn("alert %s: unknown severity %q", a.ID, a.Severity)
		}
		if !joined(ds, a.SystemID, a.SystemName) {
			warn("alert %s: no system named %q", a.ID, a.SystemName)
		}
	}

	for _, fw := range ds.Frameworks {
		if fw.OverallScore < 0 || fw.OverallScore > 100 {
			warn("framework %s: score %d outside 0-100", fw.ID, fw.OverallScore)
		}
		for _, r := range fw.Requirements {
			if !r.Status.Known() {
				warn("framework %s requirement %s: unknown status %q", fw.ID, r.ID, r.Status)
			}
			if r.Progress < 0 || r.Progress > 100 {
				warn("framework %s requirement %s: progress %d outside 0-100", fw.ID, r.ID, r.Progress)
			}
		}
	}

	return warnings
}

func joined(ds *engine.Dataset, systemID, systemName string) bool {
	for _, s := range ds.Systems {
		if systemID != "" && s.ID == systemID {
			return true
		}
		if systemID == "" && s.Name == systemName {
			return true
		}
	}
	return false
}
