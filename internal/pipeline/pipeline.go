// Package pipeline implements the ESG classification engine: field
// collection and normalization, pattern matching against the metric
// catalog, conflict resolution, and report assembly. Every step is a pure
// data transformation; all I/O stays in the surrounding command layer.
package pipeline

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/esg-cli/internal/model"
)

// Options tunes engine behavior. Zero values fall back to defaults.
type Options struct {
	Scoring         Scoring
	MinKVConfidence float64

	// now is overridable for deterministic tests.
	now func() time.Time
}

// Engine runs the full extraction pipeline for one document at a time.
// It holds only the read-only registry and configuration, so a single
// Engine is safe for concurrent runs.
type Engine struct {
	reg  *model.MetricRegistry
	norm *Normalizer
	opts Options
}

// New builds an engine over a loaded metric registry.
func New(reg *model.MetricRegistry, opts Options) *Engine {
	if opts.Scoring == (Scoring{}) {
		opts.Scoring = DefaultScoring()
	}
	if opts.now == nil {
		opts.now = time.Now
	}
	return &Engine{
		reg:  reg,
		norm: NewNormalizer(reg),
		opts: opts,
	}
}

// Run processes one analysis payload into a report. The run either
// completes with a report or fails with a structured error; it never
// returns a partial report.
func (e *Engine) Run(payload model.AnalysisResult, correlationID string) (*model.Report, error) {
	started := e.opts.now()

	if err := ValidatePayload(payload); err != nil {
		return nil, err
	}

	fields, collectWarnings := CollectFields(payload, CollectOptions{
		MinKVConfidence: e.opts.MinKVConfidence,
	})
	normalized := e.norm.NormalizeAll(fields)
	candidates := Match(normalized, e.reg, e.opts.Scoring)
	resolved := Resolve(candidates, e.reg)

	report := Assemble(resolved, e.reg, RunMeta{
		CorrelationID: correlationID,
		SourceDoc:     payload.Filename,
		StartedAt:     started,
		FinishedAt:    e.opts.now(),
		Upstream:      payload.Metadata,
		FieldCount:    len(fields),
	}, collectWarnings)

	zap.L().Info("pipeline: run complete",
		zap.String("correlation_id", correlationID),
		zap.String("source", payload.Filename),
		zap.Int("fields", len(fields)),
		zap.Int("candidates", len(candidates)),
		zap.Int("metrics_found", report.Summary.MetricsFound),
		zap.Float64("coverage", report.Summary.Coverage),
	)

	return report, nil
}
