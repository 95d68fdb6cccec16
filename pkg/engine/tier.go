package engine

// Tier is the coarse good/mid/low class of a score
type Tier string

const (
	TierGood Tier = "good"
	TierMid  Tier = "mid"
	TierLow  Tier = "low"
)

// Thresholds are the inclusive lower bounds of the good and mid tiers
type Thresholds struct {
	Good float64
	Mid  float64
}

// ScoreThresholds apply to health scores and framework scores
var ScoreThresholds = Thresholds{Good: 85, Mid: 65}

// ProgressThresholds apply to requirement progress
var ProgressThresholds = Thresholds{Good: 90, Mid: 50}

func (t Thresholds) Bucket(value float64) Tier {
	switch {
	case value >= t.Good:
		return TierGood
	case value >= t.Mid:
		return TierMid
	default:
		return TierLow
	}
}

// BucketColor is the single shared score bucketing used by every view
func BucketColor(value float64) Tier {
	return ScoreThresholds.Bucket(value)
}

// CVSSBand maps a CVSS score to the severity band it is coloured with
func CVSSBand(score float64) Severity {
	switch {
	case score >= 9.0:
		return SeverityCritical
	case score >= 7.0:
		return SeverityHigh
	case score >= 4.0:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Tone is the display colour family of a badge
type Tone string

const (
	ToneRed     Tone = "red"
	ToneOrange  Tone = "orange"
	ToneAmber   Tone = "amber"
	ToneGreen   Tone = "green"
	ToneSlate   Tone = "slate"
	ToneNeutral Tone = "neutral"
)

// Badge is the label and tone a status or severity is displayed with
type Badge struct {
	Label string `json:"label" yaml:"label"`
	Tone  Tone   `json:"tone" yaml:"tone"`
}

var severityBadges = map[Severity]Badge{
	SeverityCritical: {Label: "Critical", Tone: ToneRed},
	SeverityHigh:     {Label: "High", Tone: ToneOrange},
	SeverityMedium:   {Label: "Medium", Tone: ToneAmber},
	SeverityLow:      {Label: "Low", Tone: ToneSlate},
}

var statusBadges = map[string]Badge{
	"healthy":       {Label: "Healthy", Tone: ToneGreen},
	"warning":       {Label: "Warning", Tone: ToneAmber},
	"critical":      {Label: "Critical", Tone: ToneRed},
	"open":          {Label: "Open", Tone: ToneRed},
	"in-review":     {Label: "In Review", Tone: ToneAmber},
	"resolved":      {Label: "Resolved", Tone: ToneGreen},
	"compliant":     {Label: "Compliant", Tone: ToneGreen},
	"in-progress":   {Label: "In Progress", Tone: ToneAmber},
	"non-compliant": {Label: "Non-Compliant", Tone: ToneRed},
}

// SeverityBadge falls back to a neutral badge labelled with the raw value
func SeverityBadge(s Severity) Badge {
	if b, ok := severityBadges[s]; ok {
		return b
	}
	return Badge{Label: string(s), Tone: ToneNeutral}
}

// StatusBadge covers system, vulnerability and requirement statuses.
// Unrecognised statuses get a neutral badge instead of failing the view.
func StatusBadge(status string) Badge {
	if b, ok := statusBadges[status]; ok {
		return b
	}
	return Badge{Label: status, Tone: ToneNeutral}
}

var activityLabels = map[string]string{
	"scan_complete":          "Scan",
	"alert_triggered":        "Alert",
	"system_connected":       "Connect",
	"vulnerability_resolved": "Resolved",
	"compliance_updated":     "Compliance",
	"report_generated":       "Report",
}

// ActivityLabel names an activity feed entry type, "Event" when unknown
func ActivityLabel(kind string) string {
	if l, ok := activityLabels[kind]; ok {
		return l
	}
	return "Event"
}
