package engine

// Severity is the ordinal risk tag on a vulnerability or alert
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Severities lists the known severities from most to least severe
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
}

// Rank returns 0 for critical through 3 for low. Unknown values rank after low.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return len(severityRank)
}

func (s Severity) Known() bool {
	_, ok := severityRank[s]
	return ok
}

// SystemStatus is the operational state of a connected AI system
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusWarning  SystemStatus = "warning"
	StatusCritical SystemStatus = "critical"
)

var SystemStatuses = []SystemStatus{StatusHealthy, StatusWarning, StatusCritical}

var systemStatusRank = map[SystemStatus]int{
	StatusCritical: 0,
	StatusWarning:  1,
	StatusHealthy:  2,
}

func (s SystemStatus) Rank() int {
	if r, ok := systemStatusRank[s]; ok {
		return r
	}
	return len(systemStatusRank)
}

func (s SystemStatus) Known() bool {
	_, ok := systemStatusRank[s]
	return ok
}

// VulnStatus is the triage state of a vulnerability
type VulnStatus string

const (
	VulnOpen     VulnStatus = "open"
	VulnInReview VulnStatus = "in-review"
	VulnResolved VulnStatus = "resolved"
)

var VulnStatuses = []VulnStatus{VulnOpen, VulnInReview, VulnResolved}

var vulnStatusRank = map[VulnStatus]int{
	VulnOpen:     0,
	VulnInReview: 1,
	VulnResolved: 2,
}

func (s VulnStatus) Rank() int {
	if r, ok := vulnStatusRank[s]; ok {
		return r
	}
	return len(vulnStatusRank)
}

func (s VulnStatus) Known() bool {
	_, ok := vulnStatusRank[s]
	return ok
}

// RiskLevel is the regulatory risk class of a system (EU AI Act style)
type RiskLevel string

const (
	RiskHigh    RiskLevel = "high"
	RiskLimited RiskLevel = "limited"
	RiskMinimal RiskLevel = "minimal"
)

func (r RiskLevel) Known() bool {
	switch r {
	case RiskHigh, RiskLimited, RiskMinimal:
		return true
	}
	return false
}

// ComplianceStatus is the state of a single framework requirement
type ComplianceStatus string

const (
	Compliant    ComplianceStatus = "compliant"
	InProgress   ComplianceStatus = "in-progress"
	NonCompliant ComplianceStatus = "non-compliant"
)

var ComplianceStatuses = []ComplianceStatus{Compliant, InProgress, NonCompliant}

var complianceRank = map[ComplianceStatus]int{
	NonCompliant: 0,
	InProgress:   1,
	Compliant:    2,
}

func (s ComplianceStatus) Rank() int {
	if r, ok := complianceRank[s]; ok {
		return r
	}
	return len(complianceRank)
}

func (s ComplianceStatus) Known() bool {
	_, ok := complianceRank[s]
	return ok
}

// System is a connected AI system
type System struct {
	ID          string       `yaml:"id" json:"id"`
	Name        string       `yaml:"name" json:"name"`
	Type        string       `yaml:"type" json:"type"` // LLM / Chatbot / ML Pipeline / Computer Vision / ...
	Status      SystemStatus `yaml:"status" json:"status"`
	HealthScore int          `yaml:"healthScore" json:"healthScore"` // 0-100
	RiskLevel   RiskLevel    `yaml:"riskLevel" json:"riskLevel"`
	RiskAreas   int          `yaml:"riskAreas" json:"riskAreas"`
	Uptime      float64      `yaml:"uptime" json:"uptime"` // percent
	Department  string       `yaml:"department" json:"department"`
	Owner       string       `yaml:"owner" json:"owner"`
	APICalls    string       `yaml:"apiCalls" json:"apiCalls,omitempty"`
	LastScan    string       `yaml:"lastScan" json:"lastScan,omitempty"`
}

// Vulnerability is a single scan finding attached to a system
type Vulnerability struct {
	ID         string     `yaml:"id" json:"id"`
	Finding    string     `yaml:"finding" json:"finding"`
	Severity   Severity   `yaml:"severity" json:"severity"`
	CVSS       float64    `yaml:"cvss" json:"cvss"` // 0.0-10.0
	Status     VulnStatus `yaml:"status" json:"status"`
	SystemID   string     `yaml:"systemId,omitempty" json:"systemId,omitempty"`
	SystemName string     `yaml:"systemName" json:"systemName"`
	Category   string     `yaml:"category" json:"category"`
	DetectedAt string     `yaml:"detectedAt" json:"detectedAt"`
}

// Alert is a read-only notification raised against a system
type Alert struct {
	ID         string   `yaml:"id" json:"id"`
	Severity   Severity `yaml:"severity" json:"severity"`
	Title      string   `yaml:"title" json:"title"`
	SystemID   string   `yaml:"systemId,omitempty" json:"systemId,omitempty"`
	SystemName string   `yaml:"systemName" json:"systemName"`
	Timestamp  string   `yaml:"timestamp" json:"timestamp"`
}

// Requirement is one control of a compliance framework
type Requirement struct {
	ID          string           `yaml:"id" json:"id"`
	Name        string           `yaml:"name" json:"name"`
	Description string           `yaml:"description" json:"description"`
	Status      ComplianceStatus `yaml:"status" json:"status"`
	Progress    int              `yaml:"progress" json:"progress"` // 0-100
}

// ComplianceFramework is a regulatory standard and its requirements.
// OverallScore is author supplied and is never derived from Requirements.
type ComplianceFramework struct {
	ID           string        `yaml:"id" json:"id"`
	Name         string        `yaml:"name" json:"name"`
	OverallScore int           `yaml:"overallScore" json:"overallScore"`
	LastAudit    string        `yaml:"lastAudit" json:"lastAudit"`
	NextAudit    string        `yaml:"nextAudit" json:"nextAudit"`
	Auditor      string        `yaml:"auditor" json:"auditor"`
	Requirements []Requirement `yaml:"requirements" json:"requirements"`
}

// Activity is an entry of the overview activity feed
type Activity struct {
	ID        string `yaml:"id" json:"id"`
	Type      string `yaml:"type" json:"type"` // scan_complete / alert_triggered / system_connected / ...
	Message   string `yaml:"message" json:"message"`
	Timestamp string `yaml:"timestamp" json:"timestamp"`
}

// ScanDay is one bar of the 7 day scan activity chart
type ScanDay struct {
	Day      string `yaml:"day" json:"day"`
	Scans    int    `yaml:"scans" json:"scans"`
	Findings int    `yaml:"findings" json:"findings"`
}

// OverviewStats holds the headline figures that are not derivable from records
type OverviewStats struct {
	RiskScore         int    `yaml:"riskScore" json:"riskScore"`
	ScansThisMonth    int    `yaml:"scansThisMonth" json:"scansThisMonth"`
	ScansLastMonth    int    `yaml:"scansLastMonth" json:"scansLastMonth"`
	MeanTimeToResolve string `yaml:"meanTimeToResolve" json:"meanTimeToResolve"`
	LastScanTime      string `yaml:"lastScanTime" json:"lastScanTime"`
}
