package model

// NormalizedField is the uniform intermediate representation derived
// one-to-one from a RawField. Construction never fails: unparseable values
// simply leave Numeric and Unit unset.
type NormalizedField struct {
	Label   string    `json:"label"`
	Value   string    `json:"value"`
	Numeric *float64  `json:"numeric,omitempty"`
	Unit    string    `json:"unit,omitempty"`
	Kind    ValueKind `json:"kind"`
	Raw     RawField  `json:"raw"`
}

// CandidateMatch is a provisional association between one normalized field
// and one metric definition, before conflict resolution.
type CandidateMatch struct {
	MetricID   string          `json:"metric_id"`
	Field      NormalizedField `json:"field"`
	Confidence float64         `json:"confidence"`
	Pattern    string          `json:"pattern"`
}

// ResolvedMetric is the per-definition outcome of a run: either a chosen
// value with provenance, or an explicit not-found entry. Exactly one exists
// per catalog definition per run.
type ResolvedMetric struct {
	MetricID    string    `json:"metric_id"`
	Category    Category  `json:"category"`
	DisplayName string    `json:"display_name"`
	Found       bool      `json:"found"`
	Value       string    `json:"value,omitempty"`
	Numeric     *float64  `json:"numeric,omitempty"`
	Unit        string    `json:"unit,omitempty"`
	ValueKind   ValueKind `json:"value_kind,omitempty"`
	Confidence  float64   `json:"confidence"`
	Pattern     string    `json:"matched_pattern,omitempty"`

	// Provenance records which raw field supplied the value. Nil when the
	// metric was not found.
	Provenance *SourceRef `json:"provenance,omitempty"`
}
