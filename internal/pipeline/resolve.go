package pipeline

import (
	"go.uber.org/zap"

	"github.com/sells-group/esg-cli/internal/model"
)

// Resolve selects the winning candidate for every catalog definition and
// returns exactly one ResolvedMetric per definition, in catalog order.
// Metrics without a surviving candidate resolve to an explicit not-found
// entry rather than being omitted.
//
// Winner selection within a metric: highest confidence; on exact ties the
// candidate whose value kind agrees with the metric's expected kind, then
// the field earliest in source order. A field claimed by one metric stays
// eligible for others.
func Resolve(candidates []model.CandidateMatch, reg *model.MetricRegistry) []model.ResolvedMetric {
	byMetric := make(map[string][]model.CandidateMatch)
	for _, c := range candidates {
		byMetric[c.MetricID] = append(byMetric[c.MetricID], c)
	}

	resolved := make([]model.ResolvedMetric, 0, reg.Len())
	for i := range reg.Defs {
		def := &reg.Defs[i]

		group := byMetric[def.ID]
		if len(group) == 0 {
			resolved = append(resolved, notFound(def))
			continue
		}

		winner := group[0]
		for _, c := range group[1:] {
			if better(c, winner, def.ExpectedKind) {
				winner = c
			}
		}

		src := winner.Field.Raw.Source
		resolved = append(resolved, model.ResolvedMetric{
			MetricID:    def.ID,
			Category:    def.Category,
			DisplayName: def.DisplayName,
			Found:       true,
			Value:       winner.Field.Value,
			Numeric:     winner.Field.Numeric,
			Unit:        winner.Field.Unit,
			ValueKind:   winner.Field.Kind,
			Confidence:  winner.Confidence,
			Pattern:     winner.Pattern,
			Provenance:  &src,
		})

		if len(group) > 1 {
			zap.L().Debug("resolve: selected winner among candidates",
				zap.String("metric", def.ID),
				zap.Int("candidates", len(group)),
				zap.Float64("confidence", winner.Confidence),
			)
		}
	}

	return resolved
}

// better reports whether a should replace b as the winning candidate.
// Ordering is total and deterministic for any candidate pair.
func better(a, b model.CandidateMatch, expected model.ValueKind) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	aKind := a.Field.Kind == expected
	bKind := b.Field.Kind == expected
	if aKind != bKind {
		return aKind
	}
	return a.Field.Raw.Source.Sequence < b.Field.Raw.Source.Sequence
}

func notFound(def *model.MetricDefinition) model.ResolvedMetric {
	return model.ResolvedMetric{
		MetricID:    def.ID,
		Category:    def.Category,
		DisplayName: def.DisplayName,
		Found:       false,
		Confidence:  0,
	}
}
