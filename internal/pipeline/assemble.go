package pipeline

import (
	"fmt"
	"time"

	"github.com/sells-group/esg-cli/internal/model"
)

// RunMeta carries run identity and timing into the assembled report.
type RunMeta struct {
	CorrelationID string
	SourceDoc     string
	StartedAt     time.Time
	FinishedAt    time.Time
	Upstream      model.UpstreamMeta
	FieldCount    int
}

// Assemble groups resolved metrics by pillar, computes summary statistics,
// and produces the immutable report. Terminal and side-effect free.
//
// Coverage is found/total. Mean confidence averages found metrics only;
// with none found it is 0.0 and a warning records that the value is
// degenerate rather than measured.
func Assemble(resolved []model.ResolvedMetric, reg *model.MetricRegistry, meta RunMeta, collectWarnings []model.Warning) *model.Report {
	groups := make([]model.CategoryGroup, 0, 3)
	foundBy := make(map[model.Category]int, 3)
	for _, cat := range model.AllCategories() {
		foundBy[cat] = 0
		groups = append(groups, model.CategoryGroup{Category: cat, Metrics: []model.ResolvedMetric{}})
	}

	found := 0
	confSum := 0.0
	warnings := append([]model.Warning{}, collectWarnings...)

	// Resolved metrics arrive in catalog order, so appending per group
	// preserves catalog-declared order within each pillar.
	for _, rm := range resolved {
		for gi := range groups {
			if groups[gi].Category == rm.Category {
				groups[gi].Metrics = append(groups[gi].Metrics, rm)
				break
			}
		}
		if !rm.Found {
			continue
		}
		found++
		confSum += rm.Confidence
		foundBy[rm.Category]++

		if def := reg.ByID(rm.MetricID); def != nil && rm.ValueKind != def.ExpectedKind {
			warnings = append(warnings, model.Warning{
				Code:     model.WarnKindMismatch,
				Message:  fmt.Sprintf("expected %s value, resolved %s", def.ExpectedKind, rm.ValueKind),
				MetricID: rm.MetricID,
			})
		}
	}

	total := len(resolved)
	coverage := 0.0
	if total > 0 {
		coverage = float64(found) / float64(total)
	}

	mean := 0.0
	if found > 0 {
		mean = confSum / float64(found)
	}

	if meta.FieldCount == 0 {
		warnings = append(warnings, model.Warning{
			Code:    model.WarnNoFields,
			Message: "no fields extracted from source document",
		})
	}
	if found == 0 {
		warnings = append(warnings, model.Warning{
			Code:    model.WarnNoMetricsFound,
			Message: "no catalog metrics matched; mean confidence reported as 0.0",
		})
	}

	return &model.Report{
		Categories: groups,
		Summary: model.Summary{
			TotalMetrics:    total,
			MetricsFound:    found,
			Coverage:        coverage,
			MeanConfidence:  mean,
			FoundByCategory: foundBy,
		},
		Warnings: warnings,
		Metadata: model.ProcessingMetadata{
			CorrelationID: meta.CorrelationID,
			Status:        "success",
			SourceDoc:     meta.SourceDoc,
			GeneratedAt:   meta.FinishedAt.UTC(),
			ElapsedMS:     meta.FinishedAt.Sub(meta.StartedAt).Milliseconds(),
			Upstream:      meta.Upstream,
		},
	}
}
