package engine

import (
	"fmt"
	"sort"
)

// Predicate reports whether a record is kept. A nil Predicate keeps everything.
type Predicate[T any] func(T) bool

// Fields maps a filter field name to the record attribute it compares
type Fields[T any] map[string]func(T) string

// Filter keeps the records matching every predicate, preserving input order
func Filter[T any](records []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if matches(r, preds) {
			out = append(out, r)
		}
	}
	return out
}

func matches[T any](r T, preds []Predicate[T]) bool {
	for _, p := range preds {
		if p != nil && !p(r) {
			return false
		}
	}
	return true
}

// FieldEquals requires exact equality with value. All (or empty) is a no-op.
func FieldEquals[T any](value string, field func(T) string) Predicate[T] {
	if value == "" || value == All {
		return nil
	}
	return func(r T) bool { return field(r) == value }
}

// FieldRange keeps records whose numeric field lies in [lo, hi]
func FieldRange[T any](lo, hi float64, field func(T) float64) Predicate[T] {
	return func(r T) bool {
		v := field(r)
		return v >= lo && v <= hi
	}
}

// Where turns a field -> value map into equality predicates
func Where[T any](fields Fields[T], filters map[string]string) ([]Predicate[T], error) {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	preds := make([]Predicate[T], 0, len(keys))
	for _, k := range keys {
		field, ok := fields[k]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, k)
		}
		preds = append(preds, FieldEquals(filters[k], field))
	}
	return preds, nil
}

// CountBy counts records per bucket value for the given buckets.
// The All bucket always holds the total.
func CountBy[T any](records []T, field func(T) string, buckets ...string) map[string]int {
	counts := make(map[string]int, len(buckets)+1)
	counts[All] = len(records)
	for _, b := range buckets {
		counts[b] = 0
	}
	for _, r := range records {
		v := field(r)
		if _, tracked := counts[v]; tracked && v != All {
			counts[v]++
		}
	}
	return counts
}

// Field names for each record kind
const (
	FieldStatus     = "status"
	FieldSeverity   = "severity"
	FieldType       = "type"
	FieldDepartment = "department"
	FieldRiskLevel  = "riskLevel"
	FieldCategory   = "category"
	FieldSystem     = "system"
	FieldFramework  = "framework"
)

var SystemFields = Fields[System]{
	FieldStatus:     func(s System) string { return string(s.Status) },
	FieldType:       func(s System) string { return s.Type },
	FieldDepartment: func(s System) string { return s.Department },
	FieldRiskLevel:  func(s System) string { return string(s.RiskLevel) },
}

var VulnerabilityFields = Fields[Vulnerability]{
	FieldSeverity: func(v Vulnerability) string { return string(v.Severity) },
	FieldStatus:   func(v Vulnerability) string { return string(v.Status) },
	FieldCategory: func(v Vulnerability) string { return v.Category },
	FieldSystem:   func(v Vulnerability) string { return v.SystemName },
}

var AlertFields = Fields[Alert]{
	FieldSeverity: func(a Alert) string { return string(a.Severity) },
	FieldSystem:   func(a Alert) string { return a.SystemName },
}

var RequirementFields = Fields[Requirement]{
	FieldStatus: func(r Requirement) string { return string(r.Status) },
}
