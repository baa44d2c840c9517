package model

import "time"

// Warning codes recorded in the report. Downstream consumers key off these,
// so the strings are part of the output contract.
const (
	WarnNoFields        = "no_fields_extracted"
	WarnNoMetricsFound  = "no_metrics_found"
	WarnKindMismatch    = "value_kind_mismatch"
	WarnLowConfidenceKV = "low_confidence_kv_dropped"
)

// Warning is a soft degradation recorded during a run.
type Warning struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	MetricID string `json:"metric_id,omitempty"`
}

// CategoryGroup holds the resolved metrics of one pillar in catalog order.
type CategoryGroup struct {
	Category Category         `json:"category"`
	Metrics  []ResolvedMetric `json:"metrics"`
}

// Summary holds run-level statistics over the resolved metrics.
type Summary struct {
	TotalMetrics    int              `json:"total_metrics"`
	MetricsFound    int              `json:"metrics_found"`
	Coverage        float64          `json:"coverage"`
	MeanConfidence  float64          `json:"mean_confidence"`
	FoundByCategory map[Category]int `json:"metrics_by_category"`
}

// ProcessingMetadata describes the run itself rather than its findings.
type ProcessingMetadata struct {
	CorrelationID string       `json:"correlation_id"`
	Status        string       `json:"status"`
	SourceDoc     string       `json:"source_document"`
	GeneratedAt   time.Time    `json:"generated_at"`
	ElapsedMS     int64        `json:"elapsed_ms"`
	Upstream      UpstreamMeta `json:"upstream,omitempty"`
}

// Report is the sole output artifact of a run, immutable after assembly.
// Field names are stable: downstream consumers parse this JSON by key.
type Report struct {
	Categories []CategoryGroup    `json:"categories"`
	Summary    Summary            `json:"summary"`
	Warnings   []Warning          `json:"warnings"`
	Metadata   ProcessingMetadata `json:"processing_metadata"`
}

// ErrorEnvelope is what the collaborator layer emits instead of a report
// when a run aborts. Never combined with a partial report.
type ErrorEnvelope struct {
	Status        string `json:"status"`
	Filename      string `json:"filename"`
	CorrelationID string `json:"correlation_id"`
	Error         string `json:"error"`
	Details       string `json:"details"`
}
