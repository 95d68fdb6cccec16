package engine

// Dataset holds every record collection the dashboard reads.
// It is populated once at load time and only read afterwards, so one value
// can back any number of concurrent queries without locking.
type Dataset struct {
	Overview        OverviewStats         `yaml:"overview" json:"overview"`
	Systems         []System              `yaml:"systems" json:"systems"`
	Vulnerabilities []Vulnerability       `yaml:"vulnerabilities" json:"vulnerabilities"`
	Alerts          []Alert               `yaml:"alerts" json:"alerts"`
	Frameworks      []ComplianceFramework `yaml:"complianceFrameworks" json:"complianceFrameworks"`
	Activity        []Activity            `yaml:"activityFeed" json:"activityFeed"`
	ScanHistory     []ScanDay             `yaml:"scanHistory" json:"scanHistory"`
}

// Framework looks a framework up by id
func (d *Dataset) Framework(id string) (ComplianceFramework, bool) {
	for _, f := range d.Frameworks {
		if f.ID == id {
			return f, true
		}
	}
	return ComplianceFramework{}, false
}

// System looks a system up by id first, then by exact name
func (d *Dataset) System(key string) (System, bool) {
	for _, s := range d.Systems {
		if s.ID == key {
			return s, true
		}
	}
	for _, s := range d.Systems {
		if s.Name == key {
			return s, true
		}
	}
	return System{}, false
}
