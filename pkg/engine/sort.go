package engine

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator orders two records in ascending order: smallest, or least
// severe, first. Descending sorts negate it, so the descending default
// always leads with the largest or most severe record for every key.
type Comparator[T any] func(a, b T) int

// Comparators maps a sort key to its comparator
type Comparators[T any] map[string]Comparator[T]

// Keys returns the sort keys in alphabetical order
func (c Comparators[T]) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// SortBy returns a stably sorted copy of records. Equal keys keep their
// input order. An unknown key returns the copy in input order and an error.
func SortBy[T any](records []T, cmps Comparators[T], key string, ascending bool) ([]T, error) {
	out := make([]T, len(records))
	copy(out, records)

	compare, ok := cmps[key]
	if !ok {
		return out, fmt.Errorf("%w: %s", ErrUnknownSortKey, key)
	}
	slices.SortStableFunc(out, func(a, b T) int {
		if ascending {
			return compare(a, b)
		}
		return -compare(a, b)
	})
	return out, nil
}

// collate.Collator keeps scratch buffers, so each comparison borrows one.
var collators = sync.Pool{
	New: func() any { return collate.New(language.English) },
}

// CompareText is the locale-aware string comparison used by name columns
func CompareText(a, b string) int {
	c := collators.Get().(*collate.Collator)
	defer collators.Put(c)
	return c.CompareString(a, b)
}

// severity-like enums: ascending means least severe first
func byRank(a, b int) int { return cmp.Compare(b, a) }

// Sort keys
const (
	SortName        = "name"
	SortHealthScore = "healthScore"
	SortRiskAreas   = "riskAreas"
	SortUptime      = "uptime"
	SortStatus      = "status"
	SortSeverity    = "severity"
	SortCVSS        = "cvss"
	SortSystem      = "system"
	SortDate        = "date"
	SortCategory    = "category"
	SortTimestamp   = "timestamp"
	SortProgress    = "progress"
	SortScore       = "score"
)

var SystemComparators = Comparators[System]{
	SortName:        func(a, b System) int { return CompareText(a.Name, b.Name) },
	SortHealthScore: func(a, b System) int { return cmp.Compare(a.HealthScore, b.HealthScore) },
	SortRiskAreas:   func(a, b System) int { return cmp.Compare(a.RiskAreas, b.RiskAreas) },
	SortUptime:      func(a, b System) int { return cmp.Compare(a.Uptime, b.Uptime) },
	SortStatus:      func(a, b System) int { return byRank(a.Status.Rank(), b.Status.Rank()) },
}

var VulnerabilityComparators = Comparators[Vulnerability]{
	SortSeverity: func(a, b Vulnerability) int { return byRank(a.Severity.Rank(), b.Severity.Rank()) },
	SortCVSS:     func(a, b Vulnerability) int { return cmp.Compare(a.CVSS, b.CVSS) },
	SortSystem:   func(a, b Vulnerability) int { return CompareText(a.SystemName, b.SystemName) },
	SortDate:     func(a, b Vulnerability) int { return cmp.Compare(a.DetectedAt, b.DetectedAt) },
	SortCategory: func(a, b Vulnerability) int { return CompareText(a.Category, b.Category) },
	SortStatus:   func(a, b Vulnerability) int { return byRank(a.Status.Rank(), b.Status.Rank()) },
}

var AlertComparators = Comparators[Alert]{
	SortSeverity:  func(a, b Alert) int { return byRank(a.Severity.Rank(), b.Severity.Rank()) },
	SortSystem:    func(a, b Alert) int { return CompareText(a.SystemName, b.SystemName) },
	SortTimestamp: func(a, b Alert) int { return cmp.Compare(a.Timestamp, b.Timestamp) },
}

var RequirementComparators = Comparators[Requirement]{
	SortProgress: func(a, b Requirement) int { return cmp.Compare(a.Progress, b.Progress) },
	SortName:     func(a, b Requirement) int { return CompareText(a.Name, b.Name) },
	SortStatus:   func(a, b Requirement) int { return byRank(a.Status.Rank(), b.Status.Rank()) },
}

var FrameworkComparators = Comparators[ComplianceFramework]{
	SortScore: func(a, b ComplianceFramework) int { return cmp.Compare(a.OverallScore, b.OverallScore) },
	SortName:  func(a, b ComplianceFramework) int { return CompareText(a.Name, b.Name) },
}
