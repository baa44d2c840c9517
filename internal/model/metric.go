package model

import (
	"regexp"
	"strings"
)

// Category is the ESG pillar a metric belongs to.
type Category string

const (
	CategoryEnvironmental Category = "environmental"
	CategorySocial        Category = "social"
	CategoryGovernance    Category = "governance"
)

// AllCategories returns the pillars in report order.
func AllCategories() []Category {
	return []Category{CategoryEnvironmental, CategorySocial, CategoryGovernance}
}

// Valid reports whether c is one of the three known pillars.
func (c Category) Valid() bool {
	switch c {
	case CategoryEnvironmental, CategorySocial, CategoryGovernance:
		return true
	}
	return false
}

// ValueKind is the closed set of value types a metric can carry.
type ValueKind string

const (
	KindNumeric    ValueKind = "numeric"
	KindPercentage ValueKind = "percentage"
	KindText       ValueKind = "text"
	KindDate       ValueKind = "date"
)

// Valid reports whether k is a known value kind.
func (k ValueKind) Valid() bool {
	switch k {
	case KindNumeric, KindPercentage, KindText, KindDate:
		return true
	}
	return false
}

// MetricDefinition describes one catalog entry: what to look for and what
// shape the value is expected to take. Immutable after catalog load.
type MetricDefinition struct {
	ID           string    `json:"id" yaml:"id"`
	Category     Category  `json:"category" yaml:"category"`
	DisplayName  string    `json:"display_name" yaml:"display_name"`
	Patterns     []string  `json:"patterns" yaml:"patterns"`
	ExpectedKind ValueKind `json:"expected_value_kind" yaml:"expected_value_kind"`
	UnitSynonyms []string  `json:"unit_synonyms,omitempty" yaml:"unit_synonyms,omitempty"`

	// CompiledPatterns holds the case-insensitive regexes compiled from
	// Patterns at registry build time, in declaration order.
	CompiledPatterns []*regexp.Regexp `json:"-" yaml:"-"`
}

// MetricRegistry is an indexed, read-only view of the metric catalog.
// Built once at startup and safe for concurrent use.
type MetricRegistry struct {
	Defs []MetricDefinition

	byID  map[string]*MetricDefinition
	units map[string]string // lowercased synonym -> canonical unit
}

// NewMetricRegistry indexes definitions and builds the unit synonym table.
// Definitions must already be validated and have compiled patterns; the
// catalog loader is responsible for both.
func NewMetricRegistry(defs []MetricDefinition) *MetricRegistry {
	r := &MetricRegistry{
		Defs:  defs,
		byID:  make(map[string]*MetricDefinition, len(defs)),
		units: make(map[string]string),
	}
	for i := range r.Defs {
		d := &r.Defs[i]
		r.byID[d.ID] = d
		for _, syn := range d.UnitSynonyms {
			key := strings.ToLower(strings.TrimSpace(syn))
			if key == "" {
				continue
			}
			// First synonym is the canonical spelling; every synonym maps
			// back to it. Earlier metrics win on cross-metric collisions.
			if _, exists := r.units[key]; !exists {
				r.units[key] = strings.TrimSpace(d.UnitSynonyms[0])
			}
		}
	}
	return r
}

// ByID returns the definition for the given metric id, or nil.
func (r *MetricRegistry) ByID(id string) *MetricDefinition {
	return r.byID[id]
}

// CanonicalUnit resolves a raw unit token against the synonym table.
// Returns the canonical spelling and whether the token was recognized.
func (r *MetricRegistry) CanonicalUnit(token string) (string, bool) {
	u, ok := r.units[strings.ToLower(strings.TrimSpace(token))]
	return u, ok
}

// Len returns the number of defined metrics.
func (r *MetricRegistry) Len() int {
	return len(r.Defs)
}
