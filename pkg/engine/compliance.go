package engine

// FrameworkSummary holds the per-framework requirement counts
type FrameworkSummary struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Score        int    `json:"score" yaml:"score"`
	Tier         Tier   `json:"tier" yaml:"tier"`
	Total        int    `json:"total" yaml:"total"`
	Compliant    int    `json:"compliant" yaml:"compliant"`
	InProgress   int    `json:"inProgress" yaml:"inProgress"`
	NonCompliant int    `json:"nonCompliant" yaml:"nonCompliant"`
	Other        int    `json:"other,omitempty" yaml:"other,omitempty"`
	LastAudit    string `json:"lastAudit" yaml:"lastAudit"`
	NextAudit    string `json:"nextAudit" yaml:"nextAudit"`
	Auditor      string `json:"auditor" yaml:"auditor"`
}

// SummarizeFramework counts requirements per status. The score is the
// framework's own OverallScore, not a mean of requirement progress.
func SummarizeFramework(fw ComplianceFramework) FrameworkSummary {
	s := FrameworkSummary{
		ID:        fw.ID,
		Name:      fw.Name,
		Score:     fw.OverallScore,
		Tier:      BucketColor(float64(fw.OverallScore)),
		Total:     len(fw.Requirements),
		LastAudit: fw.LastAudit,
		NextAudit: fw.NextAudit,
		Auditor:   fw.Auditor,
	}
	for _, r := range fw.Requirements {
		switch r.Status {
		case Compliant:
			s.Compliant++
		case InProgress:
			s.InProgress++
		case NonCompliant:
			s.NonCompliant++
		default:
			s.Other++
		}
	}
	return s
}

func (s FrameworkSummary) Counts() map[string]int {
	return map[string]int{
		string(Compliant):    s.Compliant,
		string(InProgress):   s.InProgress,
		string(NonCompliant): s.NonCompliant,
	}
}

// Shares returns the compliant, in-progress and non-compliant percentages
// of the stacked completion bar
func (s FrameworkSummary) Shares() (compliant, inProgress, nonCompliant int) {
	return Percent(s.Compliant, s.Total), Percent(s.InProgress, s.Total), Percent(s.NonCompliant, s.Total)
}

// ComplianceSummary aggregates every framework
type ComplianceSummary struct {
	OverallScore      int                `json:"overallScore" yaml:"overallScore"`
	OverallTier       Tier               `json:"overallTier" yaml:"overallTier"`
	TotalRequirements int                `json:"totalRequirements" yaml:"totalRequirements"`
	TotalCompliant    int                `json:"totalCompliant" yaml:"totalCompliant"`
	Frameworks        []FrameworkSummary `json:"frameworks" yaml:"frameworks"`
}

// SummarizeCompliance averages the frameworks' OverallScore fields, rounded
// half up, 0 for no frameworks
func SummarizeCompliance(frameworks []ComplianceFramework) ComplianceSummary {
	s := ComplianceSummary{Frameworks: make([]FrameworkSummary, 0, len(frameworks))}
	total := 0
	for _, fw := range frameworks {
		fs := SummarizeFramework(fw)
		s.Frameworks = append(s.Frameworks, fs)
		s.TotalRequirements += fs.Total
		s.TotalCompliant += fs.Compliant
		total += fw.OverallScore
	}
	if len(frameworks) > 0 {
		s.OverallScore = RoundHalfUp(float64(total) / float64(len(frameworks)))
	}
	s.OverallTier = BucketColor(float64(s.OverallScore))
	return s
}
